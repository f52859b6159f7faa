package cli

import (
	"context"
	"fmt"

	"resumegen/internal/common"
	"resumegen/internal/types"

	"github.com/spf13/cobra"
)

var coverLetterCmd = &cobra.Command{
	Use:   "cover-letter --company name --job-file job.txt",
	Short: "Write a cover letter researched against the company",
	Long: `Search the web for information about the company, then write a cover
letter for the job description. Pass --projects-file with a summary of your
GitHub projects to have them referenced. When the search is unavailable the
letter is written without company research.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveFormat(&coverLetterOutput, getConfigFromContext(cmd.Context()))
	},
	RunE: runCoverLetter,
}

var (
	coverLetterOutput commandOutput
	coverLetterFlags  struct {
		company      string
		jobFile      string
		projectsFile string
		name         string
	}
)

func init() {
	formatFlags(coverLetterCmd, &coverLetterOutput)
	coverLetterCmd.Flags().StringVar(&coverLetterFlags.company, "company", "", "Company name")
	coverLetterCmd.Flags().StringVar(&coverLetterFlags.jobFile, "job-file", "", "Job description file")
	coverLetterCmd.Flags().StringVar(&coverLetterFlags.projectsFile, "projects-file", "", "Summary of GitHub projects to reference")
	coverLetterCmd.Flags().StringVar(&coverLetterFlags.name, "name", "", "Candidate name used in the signature")
	_ = coverLetterCmd.MarkFlagRequired("company")
	_ = coverLetterCmd.MarkFlagRequired("job-file")
}

func runCoverLetter(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	components, err := common.BuildComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	createInput := func(contents []string) (types.CoverLetterInput, error) {
		if len(contents) == 0 {
			return types.CoverLetterInput{}, fmt.Errorf("a job description file is required")
		}
		input := types.CoverLetterInput{
			Company:        coverLetterFlags.company,
			JobDescription: contents[0],
			CandidateName:  coverLetterFlags.name,
		}
		if len(contents) > 1 {
			input.Projects = contents[1]
		}
		return input, nil
	}

	logDetails := func(input types.CoverLetterInput, out common.CommandConfig) {
		logger.Info("Starting cover letter",
			"company", input.Company,
			"job_chars", len(input.JobDescription),
			"projects_chars", len(input.Projects),
			"search_configured", cfg.Search.APIKey != "",
			"output_format", out.OutputFormat)
	}

	compose := func(ctx context.Context, input types.CoverLetterInput) (types.CoverLetterOutput, error) {
		output, err := components.CoverLetters.Compose(ctx, input)
		if err != nil {
			return types.CoverLetterOutput{}, err
		}
		return *output, nil
	}

	err = common.RunFileCommand(cmd.Context(), common.NewRunner(logger), coverLetterOutput,
		optionalFiles(coverLetterFlags.jobFile, coverLetterFlags.projectsFile), createInput, compose, logDetails)
	if err != nil {
		return fmt.Errorf("failed to write cover letter: %w", err)
	}
	logger.Info("Cover letter completed successfully")
	return nil
}
