package render

import (
	"context"
	"fmt"
	"os/exec"
)

// ErrRendererUnavailable marks a converter whose backing binary is not
// installed. It wraps exec.ErrNotFound.
var ErrRendererUnavailable = fmt.Errorf("pdf renderer not installed: %w", exec.ErrNotFound)

// Converter turns a complete HTML document into PDF bytes
type Converter interface {
	Name() string
	// InstallHint tells users how to make the converter available
	InstallHint() string
	Convert(ctx context.Context, html []byte) ([]byte, error)
}

func unavailable(name string, cause error) error {
	return fmt.Errorf("%w: %s: %w", ErrRendererUnavailable, name, cause)
}
