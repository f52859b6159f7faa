package cli

import (
	"context"

	"resumegen/internal/config"
	"resumegen/internal/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Define custom private types for context keys.
type configKeyType struct{}
type loggerKeyType struct{}

// Use variables of these types as the keys.
var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

// settings receives flag bindings before the configuration is loaded
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "resumegen",
	Short: "Generate resumes and cover letters from GitHub projects using AI",
	Long: `Resumegen builds a resume from a candidate profile and a set of GitHub
repositories. Each repository README is summarised and categorised by an LLM,
the resume is composed as markdown and rendered to PDF. It can also write
cover letters informed by a web search about the company, and serve all of
this over an HTTP API.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadRuntime,
}

// loadRuntime resolves configuration, applies Vault secrets and attaches
// the config and logger to the command context
func loadRuntime(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfigWith(settings)
	if err != nil {
		return err
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		return err
	}

	if err := config.ApplyVaultSecrets(cfg, logger); err != nil {
		return err
	}

	logger.Info("Starting resumegen",
		"version", Version,
		"command", cmd.Name(),
		"log_level", cfg.App.LogLevel,
		"ai_provider", cfg.AI.Provider)

	ctx := context.WithValue(cmd.Context(), configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	cmd.SetContext(ctx)
	return nil
}

// Execute runs the command line with ctx
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// getConfigFromContext is a helper function to get config from context
func getConfigFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg
	}
	panic("config not found in context") // Should not happen if properly initialized
}

// getLoggerFromContext is a helper function to get logger from context
func getLoggerFromContext(ctx context.Context) *errors.Logger {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger
	}
	panic("logger not found in context") // Should not happen if properly initialized
}

// formatFlags registers --output and --format on cmd and validates the
// format before the command runs
func formatFlags(cmd *cobra.Command, target *commandOutput) {
	cmd.Flags().StringVarP(&target.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&target.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "text", "markdown"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(readmeCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(pdfCmd)
	rootCmd.AddCommand(coverLetterCmd)
	rootCmd.AddCommand(versionCmd)
}
