package resume

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

type fakeGenerator struct {
	reply string
	err   error
	data  []any
}

func (f *fakeGenerator) Generate(_ context.Context, data any) (string, *ai.TokenUsage, error) {
	f.data = append(f.data, data)
	if f.err != nil {
		return "", nil, f.err
	}
	return f.reply, &ai.TokenUsage{OutputTokens: 42}, nil
}

func testProfile() types.CandidateProfile {
	return types.CandidateProfile{
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		Education:      "BSc Mathematics",
		Skills:         "Go, SQL",
		JobDescription: "Backend engineer",
	}
}

func TestComposeBuildsPromptData(t *testing.T) {
	gen := &fakeGenerator{reply: "# CONTACT INFORMATION\nAda\n\n# TECHNICAL SKILLS\nGo, SQL, Git, Docker, Linux"}
	c := NewComposer(gen, testLogger)

	profile := testProfile()
	profile.WorkExperience = "  "
	projects := []types.ProjectEntry{{Name: "cache", Category: types.CategoryBackendDev, Description: "Developed X"}}

	if _, err := c.Compose(context.Background(), profile, projects); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	data := gen.data[0].(ai.ResumeData)
	if data.WorkExperience != "" {
		t.Errorf("blank work experience should not reach the prompt, got %q", data.WorkExperience)
	}
	if len(data.Projects) != 1 || data.Projects[0].Category != "Backend Dev" {
		t.Errorf("projects = %+v", data.Projects)
	}
	if data.JobDescription != "Backend engineer" {
		t.Errorf("JobDescription = %q", data.JobDescription)
	}
}

func TestComposeThreeProjects(t *testing.T) {
	reply := "# CONTACT INFORMATION\nAda\n\n# EDUCATION\nBSc\n\n# WORK EXPERIENCE\nMade up\n\n# TECHNICAL PROJECTS\n" +
		"## alpha (Web Dev)\n- one\n- two\n- three\n- four\n" +
		"## beta (ML)\n- one\n" +
		"## gamma (Cloud)\n" +
		"\n# TECHNICAL SKILLS\nGo"
	c := NewComposer(&fakeGenerator{reply: reply}, testLogger)

	projects := []types.ProjectEntry{
		{Name: "alpha", Category: types.CategoryWebDev, Description: "Built pages"},
		{Name: "beta", Category: types.CategoryML, Description: "Trained models\nTuned hyperparameters"},
		{Name: "gamma", Category: types.CategoryCloud, Description: "Deployed services"},
	}

	doc, err := c.Compose(context.Background(), testProfile(), projects)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	for heading, n := range bulletsPerHeading(t, doc) {
		if n != 3 {
			t.Errorf("%s has %d bullets, want 3", heading, n)
		}
	}
	if strings.Contains(doc, "WORK EXPERIENCE") {
		t.Errorf("work experience should be removed:\n%s", doc)
	}
}

func TestComposeFailures(t *testing.T) {
	tests := []struct {
		name string
		gen  *fakeGenerator
	}{
		{"provider error", &fakeGenerator{err: fmt.Errorf("deadline")}},
		{"already wrapped", &fakeGenerator{err: errors.NewAIError(errors.ErrCodeGenerationFailed, "resume generation failed", nil)}},
		{"empty reply", &fakeGenerator{reply: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComposer(tt.gen, testLogger)
			_, err := c.Compose(context.Background(), testProfile(), nil)
			if !errors.HasCode(err, errors.ErrCodeGenerationFailed) {
				t.Errorf("error = %v, want GENERATION_FAILED", err)
			}
		})
	}
}

func TestComposeTruncatesJobDescription(t *testing.T) {
	gen := &fakeGenerator{reply: "# CONTACT INFORMATION\nAda"}
	profile := testProfile()
	profile.JobDescription = strings.Repeat("é", jobDescriptionLimit+500)

	if _, err := NewComposer(gen, testLogger).Compose(context.Background(), profile, nil); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	got := gen.data[0].(ai.ResumeData).JobDescription
	if n := utf8.RuneCountInString(got); n != jobDescriptionLimit {
		t.Errorf("job description runes = %d, want %d", n, jobDescriptionLimit)
	}
}
