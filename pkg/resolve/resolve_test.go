// pkg/resolve/resolve_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test the layered merge and default selection

package resolve_test

import (
	"testing"

	"github.com/arthur-debert/mimer/pkg/catalog"
	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/mimeapps"
	"github.com/arthur-debert/mimer/pkg/resolve"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/stretchr/testify/assert"
)

type ids = []types.ApplicationID

func app(id string, mimes ...types.MimeType) *desktop.Entry {
	return &desktop.Entry{ID: types.ApplicationID(id), Name: id, Exec: id, MimeTypes: mimes}
}

// layer builds a layer from section -> mime -> ids
func layer(path string, added, removed, defaults map[types.MimeType]ids) mimeapps.Layer {
	l := mimeapps.EmptyLayer(path)
	for m, v := range added {
		l.Added[m] = v
	}
	for m, v := range removed {
		l.Removed[m] = v
	}
	for m, v := range defaults {
		l.Defaults[m] = v
	}
	return l
}

func TestCompute(t *testing.T) {
	reg := catalog.Build(
		app("app.A.desktop", "text/plain"),
		app("app.B.desktop", "text/plain"),
		app("app.C.desktop"),
		app("viewer.desktop", "image/png"),
		&desktop.Entry{ID: "hidden.desktop", Hidden: true},
	)

	tests := []struct {
		name        string
		mime        types.MimeType
		layers      []mimeapps.Layer
		candidates  ids
		wantDefault types.ApplicationID
	}{
		{
			name:       "catalog only",
			mime:       "text/plain",
			candidates: ids{"app.A.desktop", "app.B.desktop"},
		},
		{
			name: "removal in higher layer vetoes lower addition",
			mime: "text/plain",
			layers: []mimeapps.Layer{
				layer("0", nil, map[types.MimeType]ids{"text/plain": {"app.A.desktop"}}, nil),
				layer("1", map[types.MimeType]ids{"text/plain": {"app.A.desktop"}}, nil, nil),
			},
			candidates: ids{"app.B.desktop"},
		},
		{
			name: "removal in lower layer does not veto higher addition",
			mime: "text/plain",
			layers: []mimeapps.Layer{
				layer("0", map[types.MimeType]ids{"text/plain": {"app.A.desktop"}}, nil, nil),
				layer("1", nil, map[types.MimeType]ids{"text/plain": {"app.A.desktop"}}, nil),
			},
			candidates: ids{"app.A.desktop", "app.B.desktop"},
		},
		{
			name: "removal in the same layer wins over its addition",
			mime: "text/plain",
			layers: []mimeapps.Layer{
				layer("0",
					map[types.MimeType]ids{"text/plain": {"app.A.desktop"}},
					map[types.MimeType]ids{"text/plain": {"app.A.desktop"}},
					nil),
			},
			candidates: ids{"app.B.desktop"},
		},
		{
			name: "stale reference dropped",
			mime: "image/png",
			layers: []mimeapps.Layer{
				layer("0", map[types.MimeType]ids{"image/png": {"ghost.app"}}, nil, nil),
			},
			candidates: ids{"viewer.desktop"},
		},
		{
			name: "hidden entry named by a layer is a candidate",
			mime: "image/png",
			layers: []mimeapps.Layer{
				layer("0", map[types.MimeType]ids{"image/png": {"hidden.desktop"}}, nil, nil),
			},
			candidates: ids{"hidden.desktop", "viewer.desktop"},
		},
		{
			name: "hidden entry can be the default",
			mime: "image/png",
			layers: []mimeapps.Layer{
				layer("0", nil, nil, map[types.MimeType]ids{"image/png": {"hidden.desktop"}}),
			},
			candidates:  ids{"hidden.desktop", "viewer.desktop"},
			wantDefault: "hidden.desktop",
		},
		{
			name: "added associations extend catalog",
			mime: "text/plain",
			layers: []mimeapps.Layer{
				layer("0", map[types.MimeType]ids{"text/plain": {"app.C.desktop", "app.B.desktop"}}, nil, nil),
			},
			candidates: ids{"app.C.desktop", "app.B.desktop", "app.A.desktop"},
		},
		{
			name: "default comes from the highest layer",
			mime: "text/plain",
			layers: []mimeapps.Layer{
				layer("0", nil, nil, map[types.MimeType]ids{"text/plain": {"app.B.desktop"}}),
				layer("1", nil, nil, map[types.MimeType]ids{"text/plain": {"app.A.desktop"}}),
			},
			candidates:  ids{"app.B.desktop", "app.A.desktop"},
			wantDefault: "app.B.desktop",
		},
		{
			name: "stale default head falls through to lower layer",
			mime: "text/plain",
			layers: []mimeapps.Layer{
				layer("0", nil, nil, map[types.MimeType]ids{"text/plain": {"ghost.desktop", "app.B.desktop"}}),
				layer("1", nil, nil, map[types.MimeType]ids{"text/plain": {"app.A.desktop"}}),
			},
			candidates:  ids{"app.B.desktop", "app.A.desktop"},
			wantDefault: "app.A.desktop",
		},
		{
			name: "default removed above is skipped",
			mime: "text/plain",
			layers: []mimeapps.Layer{
				layer("0", nil, map[types.MimeType]ids{"text/plain": {"app.A.desktop"}}, nil),
				layer("1", nil, nil, map[types.MimeType]ids{"text/plain": {"app.A.desktop"}}),
			},
			candidates: ids{"app.B.desktop"},
		},
		{
			name: "default not declared by the catalog is still a candidate",
			mime: "image/png",
			layers: []mimeapps.Layer{
				layer("0", nil, nil, map[types.MimeType]ids{"image/png": {"app.C.desktop"}}),
			},
			candidates:  ids{"app.C.desktop", "viewer.desktop"},
			wantDefault: "app.C.desktop",
		},
		{
			name:       "unknown type",
			mime:       "video/mp4",
			candidates: ids{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eff := resolve.Compute(tt.mime, reg, tt.layers)

			assert.Equal(t, tt.mime, eff.Mime)
			assert.Equal(t, tt.candidates, eff.Candidates)
			assert.Equal(t, tt.wantDefault, eff.Default)
			assert.Equal(t, tt.wantDefault != "", eff.HasDefault())
		})
	}
}

func TestCompute_Aliases(t *testing.T) {
	reg := catalog.Build(
		app("evince.desktop", "application/pdf"),
		app("legacy.desktop", "application/x-pdf"),
		app("okular.desktop"),
	)

	t.Run("alias keyed entries merge into the canonical type", func(t *testing.T) {
		layers := []mimeapps.Layer{
			layer("/top", nil, nil, map[types.MimeType]ids{"application/x-pdf": {"okular.desktop"}}),
		}
		eff := resolve.Compute("application/pdf", reg, layers, "application/x-pdf")

		assert.Equal(t, types.MimeType("application/pdf"), eff.Mime)
		assert.Equal(t, ids{"okular.desktop", "evince.desktop", "legacy.desktop"}, eff.Candidates)
		assert.Equal(t, types.ApplicationID("okular.desktop"), eff.Default)
		assert.Equal(t, "/top", eff.DefaultFrom)
	})

	t.Run("canonical key wins within a layer", func(t *testing.T) {
		layers := []mimeapps.Layer{
			layer("/top", nil, nil, map[types.MimeType]ids{
				"application/x-pdf": {"okular.desktop"},
				"application/pdf":   {"evince.desktop"},
			}),
		}
		eff := resolve.Compute("application/pdf", reg, layers, "application/x-pdf")
		assert.Equal(t, types.ApplicationID("evince.desktop"), eff.Default)
	})

	t.Run("removal under an alias vetoes the canonical type", func(t *testing.T) {
		layers := []mimeapps.Layer{
			layer("/top", nil, map[types.MimeType]ids{"application/x-pdf": {"evince.desktop"}}, nil),
		}
		eff := resolve.Compute("application/pdf", reg, layers, "application/x-pdf")
		assert.Equal(t, ids{"legacy.desktop"}, eff.Candidates)
	})

	t.Run("without aliases only the exact key counts", func(t *testing.T) {
		layers := []mimeapps.Layer{
			layer("/top", nil, nil, map[types.MimeType]ids{"application/x-pdf": {"okular.desktop"}}),
		}
		eff := resolve.Compute("application/pdf", reg, layers)
		assert.Equal(t, ids{"evince.desktop"}, eff.Candidates)
		assert.False(t, eff.HasDefault())
	})
}

func TestCompute_DefaultFrom(t *testing.T) {
	reg := catalog.Build(app("a.desktop", "text/plain"))
	layers := []mimeapps.Layer{
		mimeapps.EmptyLayer("/top"),
		layer("/system", nil, nil, map[types.MimeType]ids{"text/plain": {"a.desktop"}}),
	}

	eff := resolve.Compute("text/plain", reg, layers)
	assert.Equal(t, "/system", eff.DefaultFrom)
}

func TestMimeTypes(t *testing.T) {
	reg := catalog.Build(
		app("a.desktop", "text/plain"),
		app("b.desktop", "image/png"),
	)
	layers := []mimeapps.Layer{
		layer("0",
			map[types.MimeType]ids{"application/pdf": {"a.desktop"}, "video/mp4": {"ghost.desktop"}},
			map[types.MimeType]ids{"image/png": {"b.desktop"}},
			nil),
	}

	assert.Equal(t, []types.MimeType{"application/pdf", "text/plain"}, resolve.MimeTypes(reg, layers))

	all := resolve.All(reg, layers)
	if assert.Len(t, all, 2) {
		assert.Equal(t, ids{"a.desktop"}, all[0].Candidates)
	}
}
