package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"resumegen/internal/config"
	"resumegen/internal/errors"
)

var testLogger = errors.NewLogger(slog.LevelDebug)

// writeScript creates an executable shell script standing in for wkhtmltopdf
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wkhtmltopdf")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRenderWithWkhtmltopdf(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	argsFile := filepath.Join(dir, "args")
	htmlFile := filepath.Join(dir, "stdin")
	script := writeScript(t, fmt.Sprintf(`echo "$@" > %q
cat > %q
printf '%%%%PDF-1.4 fake'`, argsFile, htmlFile))

	r, err := New(config.RendererConfig{
		Engine:     "wkhtmltopdf",
		BinaryPath: script,
		PageSize:   "A4",
		Margin:     "10mm",
		DPI:        300,
		Timeout:    5 * time.Second,
	}, testLogger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := r.Render(context.Background(), "# Ada\n\n- Built things")
	if result.Outcome != OutcomeRendered {
		t.Fatalf("Outcome = %v, cause = %v", result.Outcome, result.Cause)
	}
	if string(result.PDF) != "%PDF-1.4 fake" {
		t.Errorf("PDF = %q", result.PDF)
	}
	if result.ContentType() != "application/pdf" || result.Filename("resume") != "resume.pdf" {
		t.Errorf("ContentType/Filename = %q %q", result.ContentType(), result.Filename("resume"))
	}

	args, _ := os.ReadFile(argsFile)
	for _, want := range []string{"--quiet", "--encoding UTF-8", "--page-size A4", "--margin-top 10mm", "--margin-left 10mm", "--dpi 300", "- -"} {
		if !strings.Contains(string(args), want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}

	html, _ := os.ReadFile(htmlFile)
	for _, want := range []string{"<h1>Ada</h1>", "color: #2c3e50", "font-family: Arial"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("html missing %q", want)
		}
	}
}

func TestRenderMissingBinaryFallsBack(t *testing.T) {
	for _, binary := range []string{"wkhtmltopdf-not-installed-anywhere", filepath.Join(t.TempDir(), "missing")} {
		t.Run(filepath.Base(binary), func(t *testing.T) {
			r, err := New(config.RendererConfig{BinaryPath: binary, Timeout: time.Second}, testLogger)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			result := r.Render(context.Background(), "# Ada")
			if result.Outcome != OutcomeFallbackMarkdown {
				t.Fatalf("Outcome = %v, want fallback (cause %v)", result.Outcome, result.Cause)
			}
			if result.Err() != nil {
				t.Errorf("fallback must not be a failure: %v", result.Err())
			}
			if errors.HasCode(result.Cause, errors.ErrCodePDFRenderFailed) {
				t.Error("fallback must not carry PDF_RENDER_FAILED")
			}
			if !errors.HasCode(result.Cause, errors.ErrCodeRendererUnavailable) {
				t.Errorf("Cause = %v, want RENDERER_UNAVAILABLE", result.Cause)
			}
			if string(result.Body()) != "# Ada" || result.Filename("resume") != "resume.md" {
				t.Errorf("body %q filename %q", result.Body(), result.Filename("resume"))
			}
			want := `PDF renderer "wkhtmltopdf" is not installed; download the markdown instead. Install wkhtmltopdf: https://wkhtmltopdf.org/downloads.html`
			if result.Message != want {
				t.Errorf("Message = %q", result.Message)
			}
		})
	}
}

func TestRenderFailures(t *testing.T) {
	requireShell(t)
	tests := []struct {
		name    string
		script  string
		timeout time.Duration
		detail  string
	}{
		{"non-zero exit", "echo 'Exit with code 1 due to network error' >&2\nexit 1", 5 * time.Second, "network error"},
		{"empty output", "cat > /dev/null", 5 * time.Second, "no output"},
		{"timeout", "exec sleep 5", 100 * time.Millisecond, "did not finish"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewWithConverter(&WkhtmltopdfConverter{Binary: writeScript(t, tt.script)}, nil, tt.timeout, testLogger)

			result := r.Render(context.Background(), "# Ada")
			if result.Outcome != OutcomeFailed {
				t.Fatalf("Outcome = %v, want failed", result.Outcome)
			}
			err := result.Err()
			if !errors.HasCode(err, errors.ErrCodePDFRenderFailed) {
				t.Fatalf("error = %v, want PDF_RENDER_FAILED", err)
			}
			if !strings.Contains(err.Error(), tt.detail) {
				t.Errorf("error %q should mention %q", err, tt.detail)
			}
		})
	}
}

// countingConverter is a Converter double that counts calls
type countingConverter struct {
	calls int
	err   error
}

func (c *countingConverter) Name() string        { return "fake" }
func (c *countingConverter) InstallHint() string { return "Install nothing" }
func (c *countingConverter) Convert(_ context.Context, html []byte) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return append([]byte("%PDF "), html[:4]...), nil
}

func TestRenderObserver(t *testing.T) {
	conv := &countingConverter{err: unavailable("fake", exec.ErrNotFound)}
	r := NewWithConverter(conv, nil, time.Second, testLogger)

	var outcomes []Outcome
	r.SetObserver(func(_ context.Context, renderer string, outcome Outcome, _ time.Duration) {
		if renderer != "fake" {
			t.Errorf("renderer = %q", renderer)
		}
		outcomes = append(outcomes, outcome)
	})

	r.Render(context.Background(), "x")
	conv.err = nil
	r.Render(context.Background(), "x")

	if len(outcomes) != 2 || outcomes[0] != OutcomeFallbackMarkdown || outcomes[1] != OutcomeRendered {
		t.Errorf("outcomes = %v", outcomes)
	}
}

func TestNewRejectsUnknownEngine(t *testing.T) {
	_, err := New(config.RendererConfig{Engine: "latex"}, testLogger)
	if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestNewAppendsStyleSheet(t *testing.T) {
	css := filepath.Join(t.TempDir(), "extra.css")
	if err := os.WriteFile(css, []byte("body { color: red; }"), 0o600); err != nil {
		t.Fatal(err)
	}
	r, err := New(config.RendererConfig{StyleSheetFile: css}, testLogger)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	html, err := r.HTML("## Skills")
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	if !strings.Contains(string(html), "body { color: red; }") || !strings.Contains(string(html), "<h2>Skills</h2>") {
		t.Errorf("unexpected html:\n%s", html)
	}
}

func TestMarginInches(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25.4mm", 1},
		{"2.54cm", 1},
		{"0.5in", 0.5},
		{"72pt", 1},
		{"bogus", 0.4},
		{"", 0.4},
	}
	for _, tt := range tests {
		if got := marginInches(tt.in); got < tt.want-1e-9 || got > tt.want+1e-9 {
			t.Errorf("marginInches(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestChromeUnavailableFallsBack(t *testing.T) {
	r := NewWithConverter(&ChromeConverter{ExecPath: filepath.Join(t.TempDir(), "no-chrome")}, nil, time.Second, testLogger)
	result := r.Render(context.Background(), "# Ada")
	if result.Outcome != OutcomeFallbackMarkdown {
		t.Errorf("Outcome = %v, want fallback", result.Outcome)
	}
	if !strings.Contains(result.Message, `"chromedp"`) {
		t.Errorf("Message = %q", result.Message)
	}
}
