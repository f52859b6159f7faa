package common

import (
	"fmt"
	"io"
	"os"

	"resumegen/internal/errors"
	"resumegen/internal/formatters"
)

// CommandConfig is the output destination and format shared by the
// generating commands. An empty OutputFile means stdout.
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler renders command results through the formatter registry
type OutputHandler struct {
	files    *FileProcessor
	registry *formatters.FormatterRegistry
	stdout   io.Writer
	logger   *errors.Logger
}

func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		files:    NewFileProcessor(logger),
		registry: formatters.GlobalRegistry,
		stdout:   os.Stdout,
		logger:   logger,
	}
}

// HandleOutput formats data and writes it to cfg.OutputFile or stdout
func (oh *OutputHandler) HandleOutput(data any, cfg CommandConfig) error {
	if err := oh.files.ValidateOutputFile(cfg.OutputFile); err != nil {
		return err
	}

	text, err := oh.registry.Format(data, cfg.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("cannot format output as %s", cfg.OutputFormat), err)
	}

	if cfg.OutputFile == "" {
		_, err := io.WriteString(oh.stdout, text)
		return err
	}
	if err := oh.files.WriteFile(cfg.OutputFile, text); err != nil {
		return err
	}
	oh.logger.Info("Document written", "file", cfg.OutputFile, "format", cfg.OutputFormat)
	return nil
}

// WriteArtifact writes a rendered download (PDF or fallback markdown)
func (oh *OutputHandler) WriteArtifact(filename string, data []byte) error {
	if err := oh.files.ValidateOutputFile(filename); err != nil {
		return err
	}
	if err := oh.files.WriteBytes(filename, data); err != nil {
		return err
	}
	oh.logger.Info("Artifact written", "file", filename, "bytes", len(data))
	return nil
}
