package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// WkhtmltopdfConverter pipes HTML through the wkhtmltopdf binary
type WkhtmltopdfConverter struct {
	Binary   string
	PageSize string
	Margin   string
	DPI      int
}

var _ Converter = (*WkhtmltopdfConverter)(nil)

func (w *WkhtmltopdfConverter) Name() string { return "wkhtmltopdf" }

func (w *WkhtmltopdfConverter) InstallHint() string {
	return "Install wkhtmltopdf: https://wkhtmltopdf.org/downloads.html"
}

func (w *WkhtmltopdfConverter) args() []string {
	args := []string{"--quiet", "--encoding", "UTF-8"}
	if w.PageSize != "" {
		args = append(args, "--page-size", w.PageSize)
	}
	if w.Margin != "" {
		args = append(args,
			"--margin-top", w.Margin,
			"--margin-right", w.Margin,
			"--margin-bottom", w.Margin,
			"--margin-left", w.Margin)
	}
	if w.DPI > 0 {
		args = append(args, "--dpi", strconv.Itoa(w.DPI))
	}
	// read HTML from stdin, write PDF to stdout
	return append(args, "-", "-")
}

// Convert runs wkhtmltopdf. A missing binary yields ErrRendererUnavailable.
func (w *WkhtmltopdfConverter) Convert(ctx context.Context, html []byte) ([]byte, error) {
	binary := w.Binary
	if binary == "" {
		binary = "wkhtmltopdf"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, unavailable(w.Name(), err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, w.args()...)
	cmd.Stdin = bytes.NewReader(html)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("wkhtmltopdf did not finish: %w", ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("wkhtmltopdf failed: %w: %s", err, msg)
		}
		return nil, fmt.Errorf("wkhtmltopdf failed: %w", err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("wkhtmltopdf produced no output")
	}
	return stdout.Bytes(), nil
}
