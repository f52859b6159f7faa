// Package render converts resume markdown into a PDF, falling back to the
// markdown itself when no PDF engine is installed.
package render

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strings"
	"time"

	"resumegen/internal/config"
	"resumegen/internal/errors"
)

// Outcome is the kind of artifact a render produced
type Outcome int

const (
	// OutcomeRendered carries PDF bytes
	OutcomeRendered Outcome = iota
	// OutcomeFallbackMarkdown carries the markdown because no PDF engine
	// is installed
	OutcomeFallbackMarkdown
	// OutcomeFailed carries a PDF_RENDER_FAILED error
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRendered:
		return "rendered"
	case OutcomeFallbackMarkdown:
		return "fallback_markdown"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is the artifact of one render. Exactly one of PDF, Markdown or
// Cause is meaningful, selected by Outcome.
type Result struct {
	Outcome  Outcome
	PDF      []byte
	Markdown []byte
	// Message is shown to users on fallback
	Message string
	// Cause is the PDF_RENDER_FAILED error on failure and the
	// RENDERER_UNAVAILABLE annotation on fallback
	Cause error
}

// Err returns the failure of a failed render and nil otherwise
func (r Result) Err() error {
	if r.Outcome == OutcomeFailed {
		return r.Cause
	}
	return nil
}

// IsFallback reports whether the result is the markdown fallback
func (r Result) IsFallback() bool {
	return r.Outcome == OutcomeFallbackMarkdown
}

// ContentType returns the MIME type of the artifact
func (r Result) ContentType() string {
	if r.Outcome == OutcomeFallbackMarkdown {
		return "text/markdown; charset=utf-8"
	}
	return "application/pdf"
}

// Body returns the artifact bytes
func (r Result) Body() []byte {
	if r.Outcome == OutcomeFallbackMarkdown {
		return r.Markdown
	}
	return r.PDF
}

// Filename returns base with the extension matching the artifact
func (r Result) Filename(base string) string {
	if r.Outcome == OutcomeFallbackMarkdown {
		return base + ".md"
	}
	return base + ".pdf"
}

// Observer is notified after every render
type Observer func(ctx context.Context, renderer string, outcome Outcome, duration time.Duration)

// Renderer runs markdown through the HTML builder and a Converter
type Renderer struct {
	builder   *HTMLBuilder
	converter Converter
	timeout   time.Duration
	observer  Observer
	logger    *errors.Logger
}

// New creates a Renderer for the configured engine
func New(cfg config.RendererConfig, logger *errors.Logger) (*Renderer, error) {
	var extraCSS string
	if cfg.StyleSheetFile != "" {
		data, err := os.ReadFile(cfg.StyleSheetFile)
		if err != nil {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
				fmt.Sprintf("cannot read stylesheet %s", cfg.StyleSheetFile), err)
		}
		extraCSS = string(data)
	}

	var converter Converter
	switch strings.ToLower(cfg.Engine) {
	case "", "wkhtmltopdf":
		converter = &WkhtmltopdfConverter{
			Binary:   cfg.BinaryPath,
			PageSize: cfg.PageSize,
			Margin:   cfg.Margin,
			DPI:      cfg.DPI,
		}
	case "chromedp":
		converter = &ChromeConverter{
			ExecPath: cfg.ChromePath,
			PageSize: cfg.PageSize,
			Margin:   cfg.Margin,
		}
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported renderer engine %q", cfg.Engine), nil)
	}

	return NewWithConverter(converter, NewHTMLBuilder(extraCSS), cfg.Timeout, logger), nil
}

// NewWithConverter wires an explicit converter
func NewWithConverter(converter Converter, builder *HTMLBuilder, timeout time.Duration, logger *errors.Logger) *Renderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if builder == nil {
		builder = NewHTMLBuilder("")
	}
	return &Renderer{builder: builder, converter: converter, timeout: timeout, logger: logger}
}

// SetObserver installs fn as the post-render hook
func (r *Renderer) SetObserver(fn Observer) {
	r.observer = fn
}

// Engine returns the name of the PDF engine
func (r *Renderer) Engine() string {
	return r.converter.Name()
}

// HTML renders markdown to the styled HTML document only
func (r *Renderer) HTML(markdown string) ([]byte, error) {
	return r.builder.Build(markdown)
}

// Render produces the artifact for markdown. A missing engine becomes
// OutcomeFallbackMarkdown and any other problem becomes OutcomeFailed.
func (r *Renderer) Render(ctx context.Context, markdown string) Result {
	start := time.Now()
	result := r.render(ctx, markdown)
	if r.observer != nil {
		r.observer(ctx, r.converter.Name(), result.Outcome, time.Since(start))
	}
	return result
}

func (r *Renderer) render(ctx context.Context, markdown string) Result {
	html, err := r.builder.Build(markdown)
	if err != nil {
		return failed(err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pdf, err := r.converter.Convert(ctx, html)
	switch {
	case err == nil:
		return Result{Outcome: OutcomeRendered, PDF: pdf}
	case stderrors.Is(err, ErrRendererUnavailable):
		msg := fmt.Sprintf("PDF renderer %q is not installed; download the markdown instead. %s",
			r.converter.Name(), r.converter.InstallHint())
		r.logger.Warn("PDF renderer unavailable, falling back to markdown",
			"renderer", r.converter.Name(),
			"error", err.Error())
		return Result{
			Outcome:  OutcomeFallbackMarkdown,
			Markdown: []byte(markdown),
			Message:  msg,
			Cause:    errors.NewRenderError(errors.ErrCodeRendererUnavailable, msg, err),
		}
	default:
		r.logger.LogError(err, "PDF rendering failed", "renderer", r.converter.Name())
		return failed(err)
	}
}

func failed(err error) Result {
	return Result{
		Outcome: OutcomeFailed,
		Cause:   errors.NewRenderError(errors.ErrCodePDFRenderFailed, "PDF rendering failed", err),
	}
}
