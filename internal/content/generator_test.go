package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"unicode/utf8"

	"resumegen/internal/ai"
	"resumegen/internal/errors"
	"resumegen/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelDebug)

// fakeGenerator returns a canned reply and keeps the template data it saw
type fakeGenerator struct {
	reply string
	err   error
	data  []any
}

func (f *fakeGenerator) Generate(_ context.Context, data any) (string, *ai.TokenUsage, error) {
	f.data = append(f.data, data)
	return f.reply, nil, f.err
}

func TestDescribeNormalizesOutput(t *testing.T) {
	describer := &fakeGenerator{reply: "```\n- **Developed** a cache\n- Implemented eviction\n\n* Optimized reads\n- Added metrics\n- Wrote docs\n- Extra line\n```"}
	g := NewGenerator(describer, &fakeGenerator{}, testLogger)

	got, err := g.Describe(context.Background(), "# cache", "Go role")
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	want := "Developed a cache\nImplemented eviction\nOptimized reads\nAdded metrics\nWrote docs"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}

func TestDescribeTruncatesInputs(t *testing.T) {
	describer := &fakeGenerator{reply: "Developed it"}
	g := NewGenerator(describer, &fakeGenerator{}, testLogger)

	readme := strings.Repeat("é", 6000)
	job := strings.Repeat("j", 1500)
	if _, err := g.Describe(context.Background(), readme, job); err != nil {
		t.Fatalf("Describe() error = %v", err)
	}

	data := describer.data[0].(ai.DescribeData)
	if n := utf8.RuneCountInString(data.Readme); n != 5000 {
		t.Errorf("readme runes = %d, want 5000", n)
	}
	if n := utf8.RuneCountInString(data.JobDescription); n != 1000 {
		t.Errorf("job description runes = %d, want 1000", n)
	}
}

func TestDescribeFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"provider error", &fakeGenerator{err: fmt.Errorf("quota")}},
		{"empty output", &fakeGenerator{reply: "  \n```\n```"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tt.gen, &fakeGenerator{}, testLogger)
			_, err := g.Describe(context.Background(), "readme", "")
			if !errors.HasCode(err, errors.ErrCodeGenerationFailed) {
				t.Errorf("error = %v, want GENERATION_FAILED", err)
			}
		})
	}
}

func TestCategorizeAlwaysReturnsClosedSetLabel(t *testing.T) {
	tests := []struct {
		reply string
		want  types.Category
	}{
		{"Backend Dev", types.CategoryBackendDev},
		{"**devops**.", types.CategoryDevOps},
		{"Machine Learning", types.CategoryML},
		{"Something creative", types.CategoryOther},
		{"", types.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.reply, func(t *testing.T) {
			g := NewGenerator(&fakeGenerator{}, &fakeGenerator{reply: tt.reply}, testLogger)
			got, err := g.Categorize(context.Background(), "readme", "job")
			if err != nil {
				t.Fatalf("Categorize() error = %v", err)
			}
			if got != tt.want || !got.Valid() {
				t.Errorf("Categorize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategorizeDefaultsJobContext(t *testing.T) {
	categorizer := &fakeGenerator{reply: "Web Dev"}
	g := NewGenerator(&fakeGenerator{}, categorizer, testLogger)

	if _, err := g.Categorize(context.Background(), strings.Repeat("r", 4500), "   "); err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}

	data := categorizer.data[0].(ai.CategorizeData)
	if data.JobContext != "General technical role" {
		t.Errorf("JobContext = %q", data.JobContext)
	}
	if len(data.Readme) != 4000 {
		t.Errorf("readme length = %d, want 4000", len(data.Readme))
	}
	if len(data.Categories) != len(types.CategoryLabels()) {
		t.Errorf("categories = %d, want full label list", len(data.Categories))
	}
}

func TestCategorizeProviderError(t *testing.T) {
	g := NewGenerator(&fakeGenerator{}, &fakeGenerator{err: fmt.Errorf("boom")}, testLogger)
	_, err := g.Categorize(context.Background(), "readme", "")
	if !errors.HasCode(err, errors.ErrCodeGenerationFailed) {
		t.Errorf("error = %v, want GENERATION_FAILED", err)
	}
}
