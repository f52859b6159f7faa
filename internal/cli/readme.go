package cli

import (
	"fmt"

	"resumegen/internal/common"
	"resumegen/internal/github"

	"github.com/spf13/cobra"
)

var readmeCmd = &cobra.Command{
	Use:   "readme [repository-url]",
	Short: "Print the README of a GitHub repository",
	Long: `Fetch the README of a public GitHub repository. The main branch is tried
first, then master.`,
	Args: cobra.ExactArgs(1),
	RunE: runReadme,
}

var readmeOutput string

func init() {
	readmeCmd.Flags().StringVarP(&readmeOutput, "output", "o", "", "Output file path (default: stdout)")
}

func runReadme(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	readme, err := github.NewReader(cfg.GitHub, logger).ReadReadme(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	logger.Info("README fetched",
		"repository", readme.Repository.String(),
		"branch", readme.Branch,
		"chars", len(readme.Content))

	if readmeOutput == "" {
		fmt.Println(readme.Content)
		return nil
	}
	return common.NewFileProcessor(logger).WriteFile(readmeOutput, readme.Content)
}
