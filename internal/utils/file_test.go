package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSwapExtension(t *testing.T) {
	tests := []struct {
		in, ext, want string
	}{
		{"out/resume.pdf", ".md", "out/resume.md"},
		{"resume", ".md", "resume.md"},
		{"a.b/resume.final.pdf", ".md", "a.b/resume.final.md"},
	}
	for _, tt := range tests {
		if got := SwapExtension(tt.in, tt.ext); got != tt.want {
			t.Errorf("SwapExtension(%q, %q) = %q, want %q", tt.in, tt.ext, got, tt.want)
		}
	}
}

func TestIsTextFile(t *testing.T) {
	for name, want := range map[string]bool{
		"profile.json": true,
		"JOB.TXT":      true,
		"resume.md":    true,
		"resume.pdf":   false,
		"Makefile":     false,
	} {
		if got := IsTextFile(name); got != want {
			t.Errorf("IsTextFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestValidateInputFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "job.txt")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := ValidateInputFile(file); err != nil {
		t.Errorf("ValidateInputFile(file) = %v", err)
	}
	if err := ValidateInputFile(dir); err == nil {
		t.Error("directory should be rejected")
	}
	if err := ValidateInputFile(""); err == nil {
		t.Error("empty name should be rejected")
	}
	if err := ValidateInputFile(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing file should be rejected")
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		512:     "512 B",
		1536:    "1.5 KB",
		1 << 20: "1.0 MB",
	}
	for size, want := range tests {
		if got := FormatFileSize(size); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", size, got, want)
		}
	}
}

func TestValidateOutputFile(t *testing.T) {
	dir := t.TempDir()

	if err := ValidateOutputFile(""); err != nil {
		t.Errorf("stdout should be valid: %v", err)
	}
	if err := ValidateOutputFile(dir); err == nil {
		t.Error("directory output should be rejected")
	}

	nested := filepath.Join(dir, "a", "b", "resume.pdf")
	if err := ValidateOutputFile(nested); err != nil {
		t.Fatalf("ValidateOutputFile(nested) = %v", err)
	}
	if info, err := os.Stat(filepath.Dir(nested)); err != nil || !info.IsDir() {
		t.Errorf("parent directory not created: %v", err)
	}
}
