package catalog

import (
	"sort"

	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/types"
)

// Registry is the merged view of all applications directories. It is built
// by a Scanner and read-only afterwards.
type Registry struct {
	ByID   map[types.ApplicationID]*desktop.Entry
	ByMime map[types.MimeType][]types.ApplicationID

	order []types.ApplicationID
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{
		ByID:   make(map[types.ApplicationID]*desktop.Entry),
		ByMime: make(map[types.MimeType][]types.ApplicationID),
	}
}

// Build assembles a registry from entries in precedence order, as a scan
// would: the first entry for an id wins.
func Build(entries ...*desktop.Entry) *Registry {
	r := NewRegistry()
	for _, e := range entries {
		r.add(e)
	}
	return r
}

// add registers e unless its id is already known. It reports whether e was
// added.
func (r *Registry) add(e *desktop.Entry) bool {
	if _, exists := r.ByID[e.ID]; exists {
		return false
	}
	r.ByID[e.ID] = e
	r.order = append(r.order, e.ID)
	if e.Hidden {
		return true
	}
	for _, m := range e.MimeTypes {
		r.ByMime[m] = append(r.ByMime[m], e.ID)
	}
	return true
}

// Lookup returns the entry for id
func (r *Registry) Lookup(id types.ApplicationID) (*desktop.Entry, bool) {
	e, ok := r.ByID[id]
	return e, ok
}

// Has reports whether id is in the catalog. Hidden entries count: they
// declare nothing themselves but association layers may still name them.
func (r *Registry) Has(id types.ApplicationID) bool {
	_, ok := r.ByID[id]
	return ok
}

// Handlers returns the applications declaring mime, in catalog order
func (r *Registry) Handlers(mime types.MimeType) []types.ApplicationID {
	return r.ByMime[mime]
}

// IDs returns all known ids in catalog order: directory precedence, then
// id order within a directory.
func (r *Registry) IDs() []types.ApplicationID {
	out := make([]types.ApplicationID, len(r.order))
	copy(out, r.order)
	return out
}

// MimeTypes returns every MIME type declared by a visible entry, sorted
func (r *Registry) MimeTypes() []types.MimeType {
	out := make([]types.MimeType, 0, len(r.ByMime))
	for m := range r.ByMime {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Len returns the number of registered ids, hidden ones included
func (r *Registry) Len() int {
	return len(r.order)
}
