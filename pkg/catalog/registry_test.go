package catalog_test

import (
	"testing"

	"github.com/arthur-debert/mimer/pkg/catalog"
	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	reg := catalog.Build(
		&desktop.Entry{ID: "a.desktop", Name: "A", MimeTypes: []types.MimeType{"text/plain"}},
		&desktop.Entry{ID: "b.desktop", Name: "B", Hidden: true, MimeTypes: []types.MimeType{"text/plain"}},
		&desktop.Entry{ID: "a.desktop", Name: "Shadowed", MimeTypes: []types.MimeType{"image/png"}},
	)

	assert.Equal(t, 2, reg.Len())
	assert.Equal(t, []types.ApplicationID{"a.desktop", "b.desktop"}, reg.IDs())
	assert.Equal(t, []types.ApplicationID{"a.desktop"}, reg.Handlers("text/plain"))
	assert.Empty(t, reg.Handlers("image/png"))
	assert.True(t, reg.Has("a.desktop"))
	assert.True(t, reg.Has("b.desktop"), "hidden entries stay in the catalog")
	assert.False(t, reg.Has("c.desktop"))

	e, ok := reg.Lookup("a.desktop")
	assert.True(t, ok)
	assert.Equal(t, "A", e.Name)
}
