package common

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"resumegen/internal/errors"
	"resumegen/internal/utils"
)

// FileProcessor reads CLI inputs (job descriptions, profiles, resume
// markdown) and writes generated documents.
type FileProcessor struct {
	logger *errors.Logger
}

func NewFileProcessor(logger *errors.Logger) *FileProcessor {
	return &FileProcessor{logger: logger}
}

// ReadFile returns the text content of filename
func (fp *FileProcessor) ReadFile(filename string) (string, error) {
	data, err := fp.ReadBytes(filename)
	return string(data), err
}

// ReadBytes maps a missing file to FILE_NOT_FOUND and every other read
// failure to FILE_NOT_READABLE.
func (fp *FileProcessor) ReadBytes(filename string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	switch {
	case err == nil:
		return data, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.NewIOError(errors.ErrCodeFileNotFound,
			fmt.Sprintf("file not found: %s", filename), err)
	default:
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("cannot read file: %s", filename), err)
	}
}

func (fp *FileProcessor) WriteFile(filename, content string) error {
	return fp.WriteBytes(filename, []byte(content))
}

// WriteBytes writes data with owner-only permissions, creating the parent
// directory when needed.
func (fp *FileProcessor) WriteBytes(filename string, data []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return errors.NewIOError(errors.ErrCodeFileWriteFailed,
				fmt.Sprintf("cannot create directory: %s", dir), err)
		}
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return errors.NewIOError(errors.ErrCodeFileWriteFailed,
			fmt.Sprintf("cannot write file: %s", filename), err)
	}
	return nil
}

// ValidateAndReadFiles reads every input in order. The first invalid or
// unreadable file aborts the whole read.
func (fp *FileProcessor) ValidateAndReadFiles(filenames ...string) ([]string, error) {
	contents := make([]string, 0, len(filenames))
	for _, name := range filenames {
		if err := utils.ValidateInputFile(name); err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeInvalidInputFile,
				fmt.Sprintf("invalid input file %s", name), err)
		}
		if fp.logger != nil && !utils.IsTextFile(name) {
			fp.logger.Warn("Input does not look like a text document", "filename", name)
		}

		text, err := fp.ReadFile(name)
		if err != nil {
			return nil, err
		}
		contents = append(contents, text)
	}
	return contents, nil
}

// ValidateOutputFile accepts an empty name, which means stdout
func (fp *FileProcessor) ValidateOutputFile(filename string) error {
	if err := utils.ValidateOutputFile(filename); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidOutputFile,
			fmt.Sprintf("invalid output file: %s", filename), err)
	}
	return nil
}
