package common

import (
	"fmt"
	"slices"

	"resumegen/internal/errors"
	"resumegen/internal/github"
	"resumegen/internal/utils"
)

// ValidateOutputFormat validates format against configured supported formats
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// ValidateRepositoryArgs cleans repository URLs given on the command line
// and checks each against host. Blank entries are dropped; at most limit
// URLs are accepted when limit is positive.
func ValidateRepositoryArgs(args []string, host string, limit int) ([]string, error) {
	var urls []string
	for _, arg := range args {
		urls = append(urls, utils.NonEmptyLines(arg)...)
	}
	if len(urls) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			"at least one repository URL is required", nil)
	}
	if limit > 0 && len(urls) > limit {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("at most %d repositories can be processed at once, got %d", limit, len(urls)), nil)
	}
	for _, u := range urls {
		if _, err := github.ParseRepositoryURL(u, host); err != nil {
			return nil, err
		}
	}
	return urls, nil
}
