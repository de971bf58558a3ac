package importer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("importer: unsupported format")
	ErrMalformedInput    = errors.New("importer: malformed input")
)

// Format names an import source layout.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatAnki    Format = "anki"
	FormatQuizlet Format = "quizlet"
)

// ParseFormat is case-insensitive and accepts a few common aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "anki", "tsv", "txt":
		return FormatAnki, nil
	case "quizlet":
		return FormatQuizlet, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}
