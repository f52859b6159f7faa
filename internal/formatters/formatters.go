package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"resumegen/internal/pipeline"
	"resumegen/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "BatchResult", &ProjectsTextFormatter{})
	registry.RegisterFormatter("markdown", "BatchResult", &ProjectsMarkdownFormatter{})
	registry.RegisterFormatter("text", "ResumeDocument", &ResumeFormatter{})
	registry.RegisterFormatter("markdown", "ResumeDocument", &ResumeFormatter{})
	registry.RegisterFormatter("text", "CoverLetterOutput", &CoverLetterTextFormatter{})
	registry.RegisterFormatter("markdown", "CoverLetterOutput", &CoverLetterMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

func getDataType(data any) string {
	switch data.(type) {
	case pipeline.BatchResult:
		return "BatchResult"
	case types.ResumeDocument:
		return "ResumeDocument"
	case types.CoverLetterOutput:
		return "CoverLetterOutput"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData) + "\n", nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ProjectsTextFormatter lists processed repositories and failures as plain text
type ProjectsTextFormatter struct{}

func (ptf *ProjectsTextFormatter) Format(data any) (string, error) {
	result, ok := data.(pipeline.BatchResult)
	if !ok {
		return "", fmt.Errorf("expected BatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== PROJECTS ===\n\n")
	if len(result.Projects) == 0 {
		output.WriteString("No projects processed.\n\n")
	}
	for _, p := range result.Projects {
		fmt.Fprintf(&output, "%s [%s]\n", p.Name, p.Category)
		if p.URL != "" {
			fmt.Fprintf(&output, "%s\n", p.URL)
		}
		output.WriteString(p.Description)
		output.WriteString("\n\n")
	}

	if len(result.Failures) > 0 {
		output.WriteString("=== FAILURES ===\n")
		for _, f := range result.Failures {
			fmt.Fprintf(&output, "%s: %s (%s)\n", f.URL, f.Message, f.Code)
		}
	}

	return output.String(), nil
}

func (ptf *ProjectsTextFormatter) SupportedType() string {
	return "BatchResult"
}

// ProjectsMarkdownFormatter renders the batch as a markdown section
type ProjectsMarkdownFormatter struct{}

func (pmf *ProjectsMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(pipeline.BatchResult)
	if !ok {
		return "", fmt.Errorf("expected BatchResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# Projects\n\n")
	for _, p := range result.Projects {
		if p.URL != "" {
			fmt.Fprintf(&output, "## [%s](%s)\n\n", p.Name, p.URL)
		} else {
			fmt.Fprintf(&output, "## %s\n\n", p.Name)
		}
		fmt.Fprintf(&output, "**Category:** %s\n\n", p.Category)
		output.WriteString(p.Description)
		output.WriteString("\n\n")
	}

	if len(result.Failures) > 0 {
		output.WriteString("## Failures\n\n")
		output.WriteString("| Repository | Error | Message |\n|---|---|---|\n")
		for _, f := range result.Failures {
			fmt.Fprintf(&output, "| %s | `%s` | %s |\n", f.URL, f.Code, strings.ReplaceAll(f.Message, "|", "\\|"))
		}
	}

	return output.String(), nil
}

func (pmf *ProjectsMarkdownFormatter) SupportedType() string {
	return "BatchResult"
}

// ResumeFormatter writes the resume markdown unchanged for both the text
// and markdown formats
type ResumeFormatter struct{}

func (rf *ResumeFormatter) Format(data any) (string, error) {
	doc, ok := data.(types.ResumeDocument)
	if !ok {
		return "", fmt.Errorf("expected ResumeDocument, got %T", data)
	}
	if strings.HasSuffix(doc.Markdown, "\n") {
		return doc.Markdown, nil
	}
	return doc.Markdown + "\n", nil
}

func (rf *ResumeFormatter) SupportedType() string {
	return "ResumeDocument"
}

// CoverLetterTextFormatter handles text formatting for cover letters
type CoverLetterTextFormatter struct{}

func (ctf *CoverLetterTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CoverLetterOutput)
	if !ok {
		return "", fmt.Errorf("expected CoverLetterOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")
	if result.CompanyInfo != "" {
		output.WriteString("\n=== COMPANY RESEARCH ===\n")
		output.WriteString(result.CompanyInfo)
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (ctf *CoverLetterTextFormatter) SupportedType() string {
	return "CoverLetterOutput"
}

// CoverLetterMarkdownFormatter handles markdown formatting for cover letters
type CoverLetterMarkdownFormatter struct{}

func (cmf *CoverLetterMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.CoverLetterOutput)
	if !ok {
		return "", fmt.Errorf("expected CoverLetterOutput, got %T", data)
	}

	var output strings.Builder
	output.WriteString("# Cover Letter\n\n")
	output.WriteString(result.CoverLetter)
	output.WriteString("\n")
	if result.CompanyInfo != "" {
		output.WriteString("\n## Company Research\n\n")
		output.WriteString(result.CompanyInfo)
		output.WriteString("\n")
	}
	return output.String(), nil
}

func (cmf *CoverLetterMarkdownFormatter) SupportedType() string {
	return "CoverLetterOutput"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
