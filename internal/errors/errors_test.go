package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"testing"
)

func TestHasCode(t *testing.T) {
	inner := NewNetworkError(ErrCodeReadmeNotFound, "no readme", nil)
	outer := NewAIError(ErrCodeGenerationFailed, "describe failed", inner)
	wrapped := fmt.Errorf("batch item: %w", outer)

	tests := []struct {
		name string
		err  error
		code string
		want bool
	}{
		{"direct match", inner, ErrCodeReadmeNotFound, true},
		{"outer code", wrapped, ErrCodeGenerationFailed, true},
		{"nested cause code", wrapped, ErrCodeReadmeNotFound, true},
		{"absent code", wrapped, ErrCodeInvalidURL, false},
		{"plain error", fmt.Errorf("boom"), ErrCodeInvalidURL, false},
		{"nil error", nil, ErrCodeInvalidURL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasCode(tt.err, tt.code); got != tt.want {
				t.Errorf("HasCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(NewRenderError(ErrCodePDFRenderFailed, "x", nil)); got != ErrCodePDFRenderFailed {
		t.Errorf("CodeOf() = %q", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %q, want %q", got, ErrCodeInternal)
	}
}

func TestAppErrorDetail(t *testing.T) {
	err := NewRenderError(ErrCodePDFRenderFailed, "PDF conversion failed", fmt.Errorf("exit status 1"))
	if got, want := err.Detail(), "PDF conversion failed: exit status 1"; got != want {
		t.Errorf("Detail() = %q, want %q", got, want)
	}
}

func TestLogErrorExpandsAppError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, slog.LevelDebug)

	err := NewValidationError(ErrCodeInvalidURL, "not a repository", nil).WithContext("url", "https://example.com")
	logger.LogError(err, "fetch failed")

	var entry map[string]any
	if jerr := json.Unmarshal(buf.Bytes(), &entry); jerr != nil {
		t.Fatalf("log line is not JSON: %v", jerr)
	}
	if entry["error_code"] != ErrCodeInvalidURL {
		t.Errorf("error_code = %v", entry["error_code"])
	}
	if entry["url"] != "https://example.com" {
		t.Errorf("url context missing: %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
	if lvl, err := ParseLevel("warn"); err != nil || lvl != slog.LevelWarn {
		t.Errorf("ParseLevel(warn) = %v, %v", lvl, err)
	}
}
