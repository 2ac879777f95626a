package types

import (
	"strings"

	"github.com/arthur-debert/mimer/pkg/errors"
)

// MimeType is a normalized, lowercase "type/subtype" string.
type MimeType string

// ApplicationID identifies a desktop entry: its file basename including the
// .desktop extension, with subdirectory components joined by "-".
type ApplicationID string

// String implements fmt.Stringer
func (m MimeType) String() string { return string(m) }

// String implements fmt.Stringer
func (a ApplicationID) String() string { return string(a) }

// Media returns the part before the slash ("text" for "text/plain").
func (m MimeType) Media() string {
	media, _, _ := strings.Cut(string(m), "/")
	return media
}

// NormalizeMimeType lowercases and trims a raw MIME type string without
// validating it.
func NormalizeMimeType(raw string) MimeType {
	return MimeType(strings.ToLower(strings.TrimSpace(raw)))
}

// ParseMimeType normalizes raw and rejects anything that is not a single
// "type/subtype" pair.
func ParseMimeType(raw string) (MimeType, error) {
	m := NormalizeMimeType(raw)
	if m == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty MIME type")
	}
	media, sub, ok := strings.Cut(string(m), "/")
	if !ok {
		return "", errors.Newf(errors.ErrInvalidInput, "MIME type %q has no '/'", raw).
			WithDetail("mime", raw)
	}
	if media == "" || sub == "" || strings.Contains(sub, "/") {
		return "", errors.Newf(errors.ErrInvalidInput, "MIME type %q is not of the form type/subtype", raw).
			WithDetail("mime", raw)
	}
	if strings.ContainsAny(string(m), " \t;=[]") {
		return "", errors.Newf(errors.ErrInvalidInput, "MIME type %q contains invalid characters", raw).
			WithDetail("mime", raw)
	}
	return m, nil
}

// DesktopSuffix is the extension every application id carries
const DesktopSuffix = ".desktop"

// ParseListedApplicationID accepts an id as found in an association file:
// it trims raw and rejects only empty identifiers and identifiers holding
// list, key or path separators. Lists may name entries that were never
// desktop files; those resolve as stale references.
func ParseListedApplicationID(raw string) (ApplicationID, error) {
	id := strings.TrimSpace(raw)
	if id == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty application id")
	}
	if strings.ContainsAny(id, ";=\n/") {
		return "", errors.Newf(errors.ErrInvalidInput, "application id %q contains invalid characters", raw).
			WithDetail("app", raw)
	}
	return ApplicationID(id), nil
}

// ParseApplicationID validates a user-supplied id. On top of the checks of
// ParseListedApplicationID the id must be a desktop file basename.
func ParseApplicationID(raw string) (ApplicationID, error) {
	id, err := ParseListedApplicationID(raw)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(string(id), DesktopSuffix) || len(id) == len(DesktopSuffix) {
		return "", errors.Newf(errors.ErrInvalidInput, "application id %q is not a %s file name", raw, DesktopSuffix).
			WithDetail("app", raw)
	}
	return id, nil
}
