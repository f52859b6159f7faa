package formatters

import (
	"strings"
	"testing"

	"resumegen/internal/pipeline"
	"resumegen/internal/types"
)

func sampleBatch() pipeline.BatchResult {
	return pipeline.BatchResult{
		Projects: []types.ProjectEntry{
			{Name: "cache", Description: "Built a cache", Category: types.CategoryBackendDev, URL: "https://github.com/octo/cache"},
		},
		Failures: []types.ProjectFailure{
			{URL: "https://github.com/octo/gone", Code: "README_NOT_FOUND", Message: "no README | tried main"},
		},
	}
}

func TestRegistryFormats(t *testing.T) {
	tests := []struct {
		name     string
		data     any
		format   string
		contains []string
	}{
		{"projects text", sampleBatch(), "text", []string{"cache [Backend Dev]", "=== FAILURES ===", "(README_NOT_FOUND)"}},
		{"projects markdown", sampleBatch(), "markdown", []string{"## [cache](https://github.com/octo/cache)", "**Category:** Backend Dev", `no README \| tried main`}},
		{"projects json", sampleBatch(), "json", []string{`"category": "Backend Dev"`, `"error": "README_NOT_FOUND"`}},
		{"resume text", types.ResumeDocument{Markdown: "# Ada"}, "text", []string{"# Ada\n"}},
		{"resume markdown", types.ResumeDocument{Markdown: "# Ada\n"}, "markdown", []string{"# Ada\n"}},
		{"cover letter text", types.CoverLetterOutput{CoverLetter: "Dear Globex", CompanyInfo: "Values craft"}, "text", []string{"Dear Globex", "=== COMPANY RESEARCH ==="}},
		{"cover letter markdown", types.CoverLetterOutput{CoverLetter: "Dear Globex"}, "markdown", []string{"# Cover Letter", "Dear Globex"}},
	}

	registry := NewFormatterRegistry()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := registry.Format(tt.data, tt.format)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestRegistryRejectsUnknownFormat(t *testing.T) {
	if _, err := NewFormatterRegistry().Format(sampleBatch(), "xml"); err == nil {
		t.Error("expected an error for an unregistered format")
	}
}

func TestResumeFormatterDoesNotDuplicateNewline(t *testing.T) {
	got, err := (&ResumeFormatter{}).Format(types.ResumeDocument{Markdown: "# Ada\n"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "# Ada\n" {
		t.Errorf("got %q", got)
	}
}
