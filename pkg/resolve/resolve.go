package resolve

import (
	"sort"

	"github.com/arthur-debert/mimer/pkg/catalog"
	"github.com/arthur-debert/mimer/pkg/mimeapps"
	"github.com/arthur-debert/mimer/pkg/types"
)

// Effective is the merged answer for one MIME type
type Effective struct {
	Mime       types.MimeType        `json:"mime" yaml:"mime"`
	Candidates []types.ApplicationID `json:"candidates" yaml:"candidates"`
	Default    types.ApplicationID   `json:"default,omitempty" yaml:"default,omitempty"`

	// DefaultFrom is the layer file that supplied Default
	DefaultFrom string `json:"default_from,omitempty" yaml:"default_from,omitempty"`
}

// HasDefault reports whether a default application was found
func (e Effective) HasDefault() bool {
	return e.Default != ""
}

type idSet map[types.ApplicationID]struct{}

func (s idSet) has(id types.ApplicationID) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) addAll(ids []types.ApplicationID) {
	for _, id := range ids {
		s[id] = struct{}{}
	}
}

// Compute merges layers (highest precedence first) with reg for mime.
// Entries keyed by any of aliases count as entries for mime; within a layer
// a default keyed by mime itself is preferred over one keyed by an alias.
func Compute(mime types.MimeType, reg *catalog.Registry, layers []mimeapps.Layer, aliases ...types.MimeType) Effective {
	eff := Effective{Mime: mime, Candidates: []types.ApplicationID{}}
	keys := append([]types.MimeType{mime}, aliases...)

	removed := make(idSet)
	seen := make(idSet)
	push := func(id types.ApplicationID) {
		if removed.has(id) || seen.has(id) || !reg.Has(id) {
			return
		}
		seen[id] = struct{}{}
		eff.Candidates = append(eff.Candidates, id)
	}

	for _, layer := range layers {
		for _, k := range keys {
			removed.addAll(layer.Removed[k])
		}
		for _, k := range keys {
			for _, id := range layer.Added[k] {
				push(id)
			}
		}
		for _, k := range keys {
			for _, id := range layer.Defaults[k] {
				push(id)
			}
		}

		if eff.HasDefault() {
			continue
		}
		for _, k := range keys {
			if head, ok := layer.DefaultFor(k); ok && !removed.has(head) && reg.Has(head) {
				eff.Default = head
				eff.DefaultFrom = layer.Path
				break
			}
		}
	}

	for _, k := range keys {
		for _, id := range reg.Handlers(k) {
			push(id)
		}
	}

	return eff
}

// MimeTypes returns, sorted, every MIME type that has at least one
// candidate: declared by a visible catalog entry or mentioned by a layer.
func MimeTypes(reg *catalog.Registry, layers []mimeapps.Layer) []types.MimeType {
	known := make(map[types.MimeType]bool)
	for _, m := range reg.MimeTypes() {
		known[m] = true
	}
	for _, l := range layers {
		for _, m := range l.MimeTypes() {
			known[m] = true
		}
	}

	var out []types.MimeType
	for m := range known {
		if len(Compute(m, reg, layers).Candidates) > 0 {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// All computes the effective association of every MIME type MimeTypes
// returns.
func All(reg *catalog.Registry, layers []mimeapps.Layer) []Effective {
	mimes := MimeTypes(reg, layers)
	out := make([]Effective, 0, len(mimes))
	for _, m := range mimes {
		out = append(out, Compute(m, reg, layers))
	}
	return out
}
