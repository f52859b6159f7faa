package cli

import (
	"fmt"
	"os"

	"resumegen/internal/common"
	"resumegen/internal/config"
	"resumegen/internal/errors"
	"resumegen/internal/render"
	"resumegen/internal/utils"
)

type commandOutput = common.CommandConfig

// resolveFormat applies the configured default format and validates it
func resolveFormat(out *commandOutput, cfg *config.Config) error {
	if out.OutputFormat == "" {
		out.OutputFormat = cfg.App.DefaultFormat
	}
	return common.ValidateOutputFormat(out.OutputFormat, cfg.App.SupportedFormats)
}

// writeRenderResult writes a rendered PDF to path. When no PDF engine is
// installed the markdown is written next to it with a .md extension.
func writeRenderResult(runner *common.Runner, result render.Result, path string, logger *errors.Logger) (string, error) {
	if err := result.Err(); err != nil {
		return "", err
	}

	if result.IsFallback() {
		path = utils.SwapExtension(path, ".md")
		logger.Warn("PDF engine unavailable, writing markdown instead",
			"file", path, "reason", result.Message)
		fmt.Fprintf(os.Stderr, "Warning: %s\nThe resume was saved as markdown: %s\n", result.Message, path)
	}

	if err := runner.Output.WriteArtifact(path, result.Body()); err != nil {
		return "", err
	}
	return path, nil
}
