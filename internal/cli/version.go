package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X resumegen/internal/cli.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the resumegen build",
	Args:  cobra.NoArgs,
	// overrides loadRuntime: printing the build must work without a config
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "resumegen %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		return err
	},
}
