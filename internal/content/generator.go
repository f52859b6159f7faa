// Package content turns a repository README into a resume project
// description and a category label.
package content

import (
	"context"
	"strings"

	"resumegen/internal/ai"
	"resumegen/internal/config"
	"resumegen/internal/errors"
	"resumegen/internal/types"
	"resumegen/internal/utils"
)

const (
	describeReadmeLimit   = 5000
	categorizeReadmeLimit = 4000
	jobDescriptionLimit   = 1000
	maxDescriptionLines   = 5

	defaultJobContext = "General technical role"
)

// Generator runs the describe and categorize completions
type Generator struct {
	describer   ai.TextGenerator
	categorizer ai.TextGenerator
	logger      *errors.Logger
}

// NewGenerator creates a Generator from the two operation generators
func NewGenerator(describer, categorizer ai.TextGenerator, logger *errors.Logger) *Generator {
	return &Generator{describer: describer, categorizer: categorizer, logger: logger}
}

// Describe returns up to five plain-text achievement lines for the project
func (g *Generator) Describe(ctx context.Context, readme, jobDescription string) (string, error) {
	text, _, err := g.describer.Generate(ctx, ai.DescribeData{
		Readme:         utils.TruncateRunes(readme, describeReadmeLimit),
		JobDescription: utils.TruncateRunes(strings.TrimSpace(jobDescription), jobDescriptionLimit),
	})
	if err != nil {
		return "", generationFailed(config.OpDescribe, err)
	}

	description := NormalizeDescription(text)
	if description == "" {
		return "", errors.NewAIError(errors.ErrCodeGenerationFailed,
			"model returned an empty project description", nil)
	}
	return description, nil
}

// Categorize classifies the project into the closed category set. Output
// outside the set becomes types.CategoryOther.
func (g *Generator) Categorize(ctx context.Context, readme, jobDescription string) (types.Category, error) {
	jobContext := strings.TrimSpace(jobDescription)
	if jobContext == "" {
		jobContext = defaultJobContext
	}

	text, _, err := g.categorizer.Generate(ctx, ai.CategorizeData{
		Readme:     utils.TruncateRunes(readme, categorizeReadmeLimit),
		JobContext: utils.TruncateRunes(jobContext, jobDescriptionLimit),
		Categories: types.CategoryLabels(),
	})
	if err != nil {
		return "", generationFailed(config.OpCategorize, err)
	}

	category := types.ParseCategory(text)
	if category == types.CategoryOther && !strings.EqualFold(strings.TrimSpace(text), string(types.CategoryOther)) {
		g.logger.Debug("Category output outside the label set", "output", utils.TruncateRunes(text, 80))
	}
	return category, nil
}

// NormalizeDescription strips markdown from model output and keeps at most
// five non-blank lines
func NormalizeDescription(text string) string {
	var lines []string
	for _, line := range utils.NonEmptyLines(utils.StripCodeFence(text)) {
		if line = utils.StripMarkdownLine(line); line != "" {
			lines = append(lines, line)
		}
		if len(lines) == maxDescriptionLines {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func generationFailed(op string, err error) error {
	if errors.HasCode(err, errors.ErrCodeGenerationFailed) {
		return err
	}
	return errors.NewAIError(errors.ErrCodeGenerationFailed, op+" generation failed", err).
		WithContext("operation", op)
}
