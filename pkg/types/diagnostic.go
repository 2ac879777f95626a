package types

import "fmt"

const (
	// SeverityWarning indicates a recoverable problem; the source was used
	// partially or skipped.
	SeverityWarning Severity = "warning"
	// SeverityError indicates the source was treated as empty.
	SeverityError Severity = "error"
)

// Diagnostic codes
const (
	DiagParseError     = "parse_error"
	DiagReadError      = "read_error"
	DiagNotApplication = "not_application"
	DiagInvalidMime    = "invalid_mime"
	DiagDuplicateKey   = "duplicate_key"
	DiagStaleCache     = "stale_cache"
	DiagShadowed       = "shadowed_entry"
	DiagStaleReference = "stale_reference"
)

type (
	// Severity represents diagnostic severity.
	Severity string

	// Diagnostic is a non-fatal problem found while reading configuration or
	// catalog files. Read paths return diagnostics next to their data rather
	// than failing.
	Diagnostic struct {
		Severity Severity `json:"severity" yaml:"severity"`
		// Code is a machine-readable identifier (e.g. "parse_error").
		Code    string `json:"code" yaml:"code"`
		Message string `json:"message" yaml:"message"`
		Path    string `json:"path,omitempty" yaml:"path,omitempty"`
		Cause   error  `json:"-" yaml:"-"`
	}
)

// String renders the diagnostic on one line
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s", d.Severity, d.Message)
	if d.Path != "" {
		s = fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Path)
	}
	if d.Cause != nil {
		s += ": " + d.Cause.Error()
	}
	return s
}
