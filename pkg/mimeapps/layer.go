package mimeapps

import (
	"fmt"

	"github.com/arthur-debert/mimer/pkg/types"
)

// Layer is the association content of one mimeapps.list file. A missing or
// unusable file is an empty Layer, never a nil one.
type Layer struct {
	Path     string
	Added    map[types.MimeType][]types.ApplicationID
	Removed  map[types.MimeType][]types.ApplicationID
	Defaults map[types.MimeType][]types.ApplicationID
}

// EmptyLayer returns a layer with no associations for path
func EmptyLayer(path string) Layer {
	return Layer{
		Path:     path,
		Added:    make(map[types.MimeType][]types.ApplicationID),
		Removed:  make(map[types.MimeType][]types.ApplicationID),
		Defaults: make(map[types.MimeType][]types.ApplicationID),
	}
}

// IsEmpty reports whether the layer asserts nothing
func (l Layer) IsEmpty() bool {
	return len(l.Added) == 0 && len(l.Removed) == 0 && len(l.Defaults) == 0
}

// Removes reports whether the layer vetoes id for mime
func (l Layer) Removes(mime types.MimeType, id types.ApplicationID) bool {
	for _, r := range l.Removed[mime] {
		if r == id {
			return true
		}
	}
	return false
}

// DefaultFor returns the head of the Default Applications list for mime
func (l Layer) DefaultFor(mime types.MimeType) (types.ApplicationID, bool) {
	ids := l.Defaults[mime]
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// MimeTypes returns every MIME type the layer mentions in any section
func (l Layer) MimeTypes() []types.MimeType {
	seen := make(map[types.MimeType]bool)
	var out []types.MimeType
	for _, m := range []map[types.MimeType][]types.ApplicationID{l.Defaults, l.Added, l.Removed} {
		for mime := range m {
			if !seen[mime] {
				seen[mime] = true
				out = append(out, mime)
			}
		}
	}
	return out
}

// Layer projects the recognised sections. Keys that are not valid MIME
// types are dropped and reported; repeated keys are reported and only the
// first occurrence counts.
func (d *Document) Layer(path string) (Layer, []types.Diagnostic) {
	layer := EmptyLayer(path)
	var diags []types.Diagnostic

	targets := map[string]map[types.MimeType][]types.ApplicationID{
		string(SectionAdded):    layer.Added,
		string(SectionRemoved):  layer.Removed,
		string(SectionDefaults): layer.Defaults,
	}
	seen := make(map[string]map[types.MimeType]bool)

	for _, l := range d.lines {
		if l.kind != lineEntry {
			continue
		}
		target, ok := targets[l.section]
		if !ok {
			continue
		}

		mime, err := types.ParseMimeType(l.rawKey)
		if err != nil {
			diags = append(diags, types.Diagnostic{
				Severity: types.SeverityWarning,
				Code:     types.DiagInvalidMime,
				Message:  fmt.Sprintf("ignoring invalid MIME type %q in [%s]", l.rawKey, l.section),
				Path:     path,
				Cause:    err,
			})
			continue
		}

		if seen[l.section] == nil {
			seen[l.section] = make(map[types.MimeType]bool)
		}
		if seen[l.section][mime] {
			diags = append(diags, types.Diagnostic{
				Severity: types.SeverityWarning,
				Code:     types.DiagDuplicateKey,
				Message:  fmt.Sprintf("duplicate key %s in [%s]; the first one is used", mime, l.section),
				Path:     path,
			})
			continue
		}
		seen[l.section][mime] = true

		if ids := parseIDs(l.value); len(ids) > 0 {
			target[mime] = ids
		}
	}

	return layer, diags
}
