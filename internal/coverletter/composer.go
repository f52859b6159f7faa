// Package coverletter writes cover letters informed by a company lookup.
package coverletter

import (
	"context"
	"fmt"
	"strings"

	"resumegen/internal/ai"
	"resumegen/internal/errors"
	"resumegen/internal/search"
	"resumegen/internal/types"
	"resumegen/internal/utils"
)

// NoCompanyInfo replaces the lookup result when the search fails or finds
// nothing
const NoCompanyInfo = "No recent company information was found."

const maxCompanyInfoRunes = 4000

// Composer looks up the company and generates the letter
type Composer struct {
	searcher  search.Searcher
	generator ai.TextGenerator
	logger    *errors.Logger
}

// NewComposer creates a Composer. searcher may be nil, in which case the
// letter is written without company information.
func NewComposer(searcher search.Searcher, generator ai.TextGenerator, logger *errors.Logger) *Composer {
	return &Composer{searcher: searcher, generator: generator, logger: logger}
}

// CompanyQuery is the search query used for company name
func CompanyQuery(company string) string {
	return fmt.Sprintf("Collect latest insights, values, and work culture about %s", company)
}

// Compose writes the cover letter. Search problems degrade to NoCompanyInfo.
func (c *Composer) Compose(ctx context.Context, input types.CoverLetterInput) (*types.CoverLetterOutput, error) {
	company := strings.TrimSpace(input.Company)
	jobDescription := strings.TrimSpace(input.JobDescription)
	if company == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "company name is required", nil)
	}
	if jobDescription == "" {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "job description is required", nil)
	}

	companyInfo := c.lookup(ctx, company)

	text, _, err := c.generator.Generate(ctx, ai.CoverLetterData{
		Company:        company,
		CompanyInfo:    companyInfo,
		JobDescription: jobDescription,
		Projects:       strings.TrimSpace(input.Projects),
		CandidateName:  strings.TrimSpace(input.CandidateName),
	})
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeGenerationFailed) {
			return nil, err
		}
		return nil, errors.NewAIError(errors.ErrCodeGenerationFailed, "cover letter generation failed", err)
	}

	letter := strings.TrimSpace(utils.StripCodeFence(text))
	if letter == "" {
		return nil, errors.NewAIError(errors.ErrCodeGenerationFailed, "model returned an empty cover letter", nil)
	}
	return &types.CoverLetterOutput{CoverLetter: letter, CompanyInfo: companyInfo}, nil
}

func (c *Composer) lookup(ctx context.Context, company string) string {
	if c.searcher == nil {
		return NoCompanyInfo
	}

	result, err := c.searcher.Search(ctx, CompanyQuery(company))
	if err != nil {
		c.logger.LogError(err, "Company lookup failed, continuing without it", "company", company)
		return NoCompanyInfo
	}

	summary := strings.TrimSpace(result.Summary())
	if summary == "" {
		return NoCompanyInfo
	}
	return utils.TruncateRunes(summary, maxCompanyInfoRunes)
}
