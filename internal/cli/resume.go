package cli

import (
	"fmt"
	"os"

	"resumegen/internal/common"
	"resumegen/internal/types"

	"github.com/spf13/cobra"
)

var resumeCmd = &cobra.Command{
	Use:   "resume --profile profile.json [repository-url]...",
	Short: "Generate a resume from a profile and GitHub projects",
	Long: `Run the whole pipeline: validate the candidate profile, describe and
categorize each repository, compose the resume and optionally render it to
PDF with --pdf. Without repositories the resume is composed from the profile
alone.

The profile is a JSON file with name, email, education and job_description
and optionally phone, github, linkedin, skills and work_experience.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return resolveFormat(&resumeOutput, getConfigFromContext(cmd.Context()))
	},
	RunE: runResume,
}

var (
	resumeOutput  commandOutput
	resumeProfile string
	resumePDF     string
)

func init() {
	formatFlags(resumeCmd, &resumeOutput)
	resumeCmd.Flags().StringVar(&resumeProfile, "profile", "", "Candidate profile JSON file")
	resumeCmd.Flags().StringVar(&resumePDF, "pdf", "", "Also render the resume to this PDF file")
	_ = resumeCmd.MarkFlagRequired("profile")
}

func runResume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)
	runner := common.NewRunner(logger)

	raw, err := runner.Files.ReadBytes(resumeProfile)
	if err != nil {
		return err
	}
	profile, err := types.ParseProfile(raw)
	if err != nil {
		return err
	}

	var urls []string
	if len(args) > 0 {
		if urls, err = common.ValidateRepositoryArgs(args, cfg.GitHub.Host, cfg.Pipeline.MaxRepositories); err != nil {
			return err
		}
	}

	components, err := common.BuildComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = components.Close() }()

	orchestrator := components.Orchestrator(cfg, logger)
	session := orchestrator.NewSession()
	defer func() { _ = orchestrator.Delete(session.ID) }()

	if _, err := orchestrator.SubmitProfile(session.ID, *profile); err != nil {
		return err
	}

	if len(urls) > 0 {
		logger.Info("Processing repositories", "count", len(urls), "workers", cfg.Pipeline.Workers)
		snap, failures, err := orchestrator.AddProjects(ctx, session.ID, urls)
		if err != nil {
			return err
		}
		for _, f := range failures {
			logger.Warn("Repository skipped", "url", f.URL, "error", f.Code, "message", f.Message)
			fmt.Fprintf(os.Stderr, "Skipped %s: %s\n", f.URL, f.Message)
		}
		logger.Info("Repositories processed", "projects", len(snap.Projects), "failed", len(failures))
	}

	snap, err := orchestrator.ComposeResume(ctx, session.ID)
	if err != nil {
		return fmt.Errorf("failed to compose resume: %w", err)
	}
	if err := runner.Output.HandleOutput(*snap.Resume, resumeOutput); err != nil {
		return err
	}

	if resumePDF == "" {
		return nil
	}
	result, err := orchestrator.Download(ctx, session.ID)
	if err != nil {
		return err
	}
	path, err := writeRenderResult(runner, result, resumePDF, logger)
	if err != nil {
		return err
	}
	logger.Info("Resume generation completed", "artifact", path, "outcome", result.Outcome.String())
	return nil
}
