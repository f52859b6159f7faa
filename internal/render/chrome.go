package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// paper sizes in inches
var paperSizes = map[string][2]float64{
	"A4":     {8.27, 11.69},
	"A3":     {11.69, 16.54},
	"A5":     {5.83, 8.27},
	"LETTER": {8.5, 11},
	"LEGAL":  {8.5, 14},
}

// ChromeConverter prints HTML to PDF with headless Chrome
type ChromeConverter struct {
	ExecPath string
	PageSize string
	Margin   string
}

var _ Converter = (*ChromeConverter)(nil)

func (c *ChromeConverter) Name() string { return "chromedp" }

func (c *ChromeConverter) InstallHint() string {
	return "Install Google Chrome or Chromium, or set renderer.chromePath"
}

func (c *ChromeConverter) findChrome() (string, error) {
	if c.ExecPath != "" {
		return exec.LookPath(c.ExecPath)
	}
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return exec.LookPath(p)
	}
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", exec.ErrNotFound
}

// Convert loads the document from a temporary file and prints it
func (c *ChromeConverter) Convert(ctx context.Context, html []byte) ([]byte, error) {
	chromePath, err := c.findChrome()
	if err != nil {
		return nil, unavailable(c.Name(), err)
	}

	tmpDir, err := os.MkdirTemp("", "resumegen-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	htmlPath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(htmlPath, html, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write HTML: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.ExecPath(chromePath),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	width, height := paperDimensions(c.PageSize)
	margin := marginInches(c.Margin)

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+filepath.ToSlash(htmlPath)),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(width).
				WithPaperHeight(height).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chrome print failed: %w", err)
	}
	return pdf, nil
}

func paperDimensions(size string) (float64, float64) {
	if dims, ok := paperSizes[strings.ToUpper(strings.TrimSpace(size))]; ok {
		return dims[0], dims[1]
	}
	return paperSizes["A4"][0], paperSizes["A4"][1]
}

// marginInches converts a CSS-like length such as "10mm", "1cm", "0.5in"
// or "12pt" to inches. Unparseable values yield 0.4in.
func marginInches(margin string) float64 {
	const fallback = 0.4
	m := strings.ToLower(strings.TrimSpace(margin))
	units := []struct {
		suffix  string
		perInch float64
	}{
		{"mm", 25.4},
		{"cm", 2.54},
		{"in", 1},
		{"pt", 72},
		{"px", 96},
	}
	for _, u := range units {
		if strings.HasSuffix(m, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(m, u.suffix)), 64)
			if err != nil || v < 0 {
				return fallback
			}
			return v / u.perInch
		}
	}
	return fallback
}
