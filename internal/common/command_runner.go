package common

import (
	"context"
	"fmt"

	"resumegen/internal/errors"
)

// Runner bundles the file and output helpers of a CLI command
type Runner struct {
	Files  *FileProcessor
	Output *OutputHandler
	logger *errors.Logger
}

// NewRunner creates the helpers, all logging through logger
func NewRunner(logger *errors.Logger) *Runner {
	return &Runner{
		Files:  NewFileProcessor(logger),
		Output: NewOutputHandler(logger),
		logger: logger,
	}
}

// CreateInputFunc defines how to create the command input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc runs the generation step of a command
type OperationFunc[Input, Output any] func(context.Context, Input) (Output, error)

// RunFileCommand reads files, builds the input, runs the operation and
// writes the formatted result.
func RunFileCommand[Input, Output any](
	ctx context.Context,
	runner *Runner,
	cmdConfig CommandConfig,
	files []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	contents, err := runner.Files.ValidateAndReadFiles(files...)
	if err != nil {
		return err
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	if logDetails != nil {
		logDetails(input, cmdConfig)
	}

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	return runner.Output.HandleOutput(result, cmdConfig)
}
