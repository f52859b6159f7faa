package cli

import (
	"context"
	"fmt"

	"resumegen/internal/common"
	"resumegen/internal/pipeline"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects [repository-url]...",
	Short: "Describe and categorize GitHub repositories",
	Long: `Fetch the README of each repository, then write a short description and
pick a category for it. Repositories are processed concurrently. Failures
are reported per repository and do not stop the others.

Pass --job-file to align the descriptions with a job description.`,
	Args: cobra.MinimumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveFormat(&projectsOutput, getConfigFromContext(cmd.Context()))
	},
	RunE: runProjects,
}

var (
	projectsOutput  commandOutput
	projectsJobFile string
)

func init() {
	formatFlags(projectsCmd, &projectsOutput)
	projectsCmd.Flags().StringVar(&projectsJobFile, "job-file", "", "Job description file used to tailor descriptions")
}

type projectsInput struct {
	URLs           []string
	JobDescription string
}

func runProjects(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	urls, err := common.ValidateRepositoryArgs(args, cfg.GitHub.Host, cfg.Pipeline.MaxRepositories)
	if err != nil {
		return err
	}

	components, err := common.BuildComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	createInput := func(contents []string) (projectsInput, error) {
		input := projectsInput{URLs: urls}
		if len(contents) > 0 {
			input.JobDescription = contents[0]
		}
		return input, nil
	}

	logDetails := func(input projectsInput, out common.CommandConfig) {
		logger.Info("Processing repositories",
			"count", len(input.URLs),
			"job_chars", len(input.JobDescription),
			"workers", cfg.Pipeline.Workers,
			"output_format", out.OutputFormat)
	}

	var processed int
	process := func(ctx context.Context, input projectsInput) (pipeline.BatchResult, error) {
		result := components.Batch.Process(ctx, input.URLs, input.JobDescription)
		processed = len(result.Projects)
		return result, nil
	}

	if err := common.RunFileCommand(cmd.Context(), common.NewRunner(logger), projectsOutput,
		optionalFiles(projectsJobFile), createInput, process, logDetails); err != nil {
		return fmt.Errorf("failed to process repositories: %w", err)
	}
	if processed == 0 {
		return fmt.Errorf("none of the %d repositories could be processed", len(urls))
	}
	logger.Info("Repositories processed", "succeeded", processed, "failed", len(urls)-processed)
	return nil
}

// optionalFiles drops unset file flags
func optionalFiles(paths ...string) []string {
	var files []string
	for _, p := range paths {
		if p != "" {
			files = append(files, p)
		}
	}
	return files
}
