// Package resume writes the resume markdown and enforces its section layout.
package resume

import (
	"context"
	"strings"

	"resumegen/internal/ai"
	"resumegen/internal/errors"
	"resumegen/internal/types"
	"resumegen/internal/utils"
)

const jobDescriptionLimit = 4500

// Composer asks the model for a resume and post-processes the answer
type Composer struct {
	generator ai.TextGenerator
	logger    *errors.Logger
}

// NewComposer creates a Composer around the resume generator
func NewComposer(generator ai.TextGenerator, logger *errors.Logger) *Composer {
	return &Composer{generator: generator, logger: logger}
}

// Compose generates the resume for profile and projects. The result always
// honours the section contract regardless of what the model returned.
func (c *Composer) Compose(ctx context.Context, profile types.CandidateProfile, projects []types.ProjectEntry) (string, error) {
	data := ai.ResumeData{
		Name:           profile.Name,
		Email:          profile.Email,
		Phone:          profile.Phone,
		GitHub:         profile.GitHub,
		LinkedIn:       profile.LinkedIn,
		Skills:         profile.Skills,
		Education:      profile.Education,
		JobDescription: utils.TruncateRunes(profile.JobDescription, jobDescriptionLimit),
		Projects:       make([]ai.ResumeProject, 0, len(projects)),
	}
	if profile.HasWorkExperience() {
		data.WorkExperience = profile.WorkExperience
	}
	for _, p := range projects {
		data.Projects = append(data.Projects, ai.ResumeProject{
			Name:        p.Name,
			Category:    string(p.Category),
			Description: p.Description,
		})
	}

	text, usage, err := c.generator.Generate(ctx, data)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeGenerationFailed) {
			return "", err
		}
		return "", errors.NewAIError(errors.ErrCodeGenerationFailed, "resume generation failed", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", errors.NewAIError(errors.ErrCodeGenerationFailed, "model returned an empty resume", nil)
	}

	if usage != nil {
		c.logger.Debug("Resume generated",
			"projects", len(projects),
			"output_tokens", usage.OutputTokens)
	}

	return PostProcess(text, profile, projects), nil
}
