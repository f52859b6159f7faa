package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// BaseStyleSheet is embedded into every rendered document
const BaseStyleSheet = `body { font-family: Arial, sans-serif; padding: 20px; line-height: 1.6; }
h1, h2, h3 { color: #2c3e50; }
h1 { font-size: 24px; margin-bottom: 20px; }
h2 { font-size: 18px; margin: 20px 0 10px; }
ul { margin-left: 20px; }`

const documentTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>
%s
</style>
</head>
<body>
%s</body>
</html>
`

// HTMLBuilder converts resume markdown into a standalone styled HTML page
type HTMLBuilder struct {
	md     goldmark.Markdown
	styles string
	title  string
}

// NewHTMLBuilder creates a builder. extraCSS is appended after the base
// stylesheet.
func NewHTMLBuilder(extraCSS string) *HTMLBuilder {
	styles := BaseStyleSheet
	if extraCSS != "" {
		styles += "\n" + extraCSS
	}
	return &HTMLBuilder{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(goldmarkhtml.WithHardWraps()),
		),
		styles: styles,
		title:  "Resume",
	}
}

// Build renders markdown into a complete HTML document
func (b *HTMLBuilder) Build(markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := b.md.Convert([]byte(markdown), &body); err != nil {
		return nil, fmt.Errorf("markdown conversion failed: %w", err)
	}
	return []byte(fmt.Sprintf(documentTemplate, html.EscapeString(b.title), b.styles, body.String())), nil
}
