package common

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"resumegen/internal/errors"
	"resumegen/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelError)

func TestFileProcessorRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fp := NewFileProcessor(testLogger)

	path := filepath.Join(dir, "nested", "job.txt")
	if err := fp.WriteFile(path, "Backend engineer"); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	contents, err := fp.ValidateAndReadFiles(path)
	if err != nil {
		t.Fatalf("ValidateAndReadFiles() error = %v", err)
	}
	if contents[0] != "Backend engineer" {
		t.Errorf("content = %q", contents[0])
	}
}

func TestFileProcessorErrors(t *testing.T) {
	dir := t.TempDir()
	fp := NewFileProcessor(testLogger)

	if _, err := fp.ReadFile(filepath.Join(dir, "absent.md")); !errors.HasCode(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := fp.ValidateAndReadFiles(dir); !errors.HasCode(err, errors.ErrCodeInvalidInputFile) {
		t.Errorf("ValidateAndReadFiles(dir) error = %v, want INVALID_INPUT_FILE", err)
	}
}

func TestOutputHandlerWritesFormattedFile(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "resume.md")

	handler := NewOutputHandler(testLogger)
	err := handler.HandleOutput(types.ResumeDocument{Markdown: "# Ada"}, CommandConfig{OutputFile: out, OutputFormat: "markdown"})
	if err != nil {
		t.Fatalf("HandleOutput() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# Ada\n" {
		t.Errorf("file content = %q", data)
	}

	err = handler.HandleOutput(types.ResumeDocument{}, CommandConfig{OutputFile: out, OutputFormat: "yaml"})
	if !errors.HasCode(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("HandleOutput(yaml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestWriteArtifact(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out", "resume.pdf")
	if err := NewOutputHandler(testLogger).WriteArtifact(out, []byte("%PDF-1.4")); err != nil {
		t.Fatalf("WriteArtifact() error = %v", err)
	}
	if data, _ := os.ReadFile(out); string(data) != "%PDF-1.4" {
		t.Errorf("artifact = %q", data)
	}
}
