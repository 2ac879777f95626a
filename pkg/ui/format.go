package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects a renderer
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output
	FormatAuto Format = iota
	// FormatTerminal styles output with lipgloss
	FormatTerminal
	// FormatText prints aligned plain text
	FormatText
	// FormatJSON encodes results as indented JSON
	FormatJSON
	// FormatYAML encodes results as YAML
	FormatYAML
)

// Formats lists the canonical --format values
var Formats = []string{"auto", "term", "text", "json", "yaml"}

// formatNames maps every accepted spelling to its format
var formatNames = map[string]Format{
	"":         FormatAuto,
	"auto":     FormatAuto,
	"term":     FormatTerminal,
	"terminal": FormatTerminal,
	"text":     FormatText,
	"plain":    FormatText,
	"json":     FormatJSON,
	"yaml":     FormatYAML,
	"yml":      FormatYAML,
}

// String returns the canonical name of the format
func (f Format) String() string {
	if f >= 0 && int(f) < len(Formats) {
		return Formats[f]
	}
	return "unknown"
}

// ParseFormat parses a --format value. Matching ignores case and
// surrounding space; empty means auto.
func ParseFormat(s string) (Format, error) {
	if f, ok := formatNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s).
		WithDetail("format", s)
}

// DetectFormat resolves FormatAuto for output: styled only on a color
// capable terminal and when NO_COLOR is unset
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	fd := output.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return FormatText
	}
	if termenv.NewOutput(output).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
