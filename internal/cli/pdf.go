package cli

import (
	"resumegen/internal/common"
	"resumegen/internal/render"
	"resumegen/internal/utils"

	"github.com/spf13/cobra"
)

var pdfCmd = &cobra.Command{
	Use:   "pdf [markdown-file]",
	Short: "Render resume markdown to PDF",
	Long: `Convert a markdown file to HTML and render it to PDF with the configured
engine (wkhtmltopdf or headless Chrome). When the engine is not installed
the markdown is written with a .md extension instead and a warning is
printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runPDF,
}

var pdfOutput string

func init() {
	pdfCmd.Flags().StringVarP(&pdfOutput, "output", "o", "", "PDF file path (default: input name with .pdf)")
}

func runPDF(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())
	runner := common.NewRunner(logger)

	contents, err := runner.Files.ValidateAndReadFiles(args[0])
	if err != nil {
		return err
	}

	renderer, err := render.New(cfg.Renderer, logger)
	if err != nil {
		return err
	}

	out := pdfOutput
	if out == "" {
		out = utils.SwapExtension(args[0], ".pdf")
	}

	logger.Info("Rendering markdown", "engine", renderer.Engine(), "input", args[0], "output", out)
	result := renderer.Render(cmd.Context(), contents[0])
	_, err = writeRenderResult(runner, result, out, logger)
	return err
}
