// pkg/mimeapps/layer_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: None
// PURPOSE: Test projection of documents into association layers

package mimeapps_test

import (
	"testing"

	"github.com/arthur-debert/mimer/pkg/mimeapps"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Layer(t *testing.T) {
	doc, err := mimeapps.Parse([]byte(sample))
	require.NoError(t, err)

	layer, diags := doc.Layer("/home/u/.config/mimeapps.list")

	assert.Empty(t, diags)
	assert.Equal(t, "/home/u/.config/mimeapps.list", layer.Path)
	assert.Equal(t, map[types.MimeType][]types.ApplicationID{
		"text/plain": {"gedit.desktop", "vim.desktop"},
		"image/png":  {"eog.desktop"},
	}, layer.Defaults)
	assert.Equal(t, map[types.MimeType][]types.ApplicationID{
		"text/plain": {"vim.desktop", "gedit.desktop"},
	}, layer.Added)
	assert.True(t, layer.Removes("text/html", "firefox.desktop"))
	assert.False(t, layer.Removes("text/plain", "vendor.desktop"), "unknown groups are ignored")

	head, ok := layer.DefaultFor("text/plain")
	assert.True(t, ok)
	assert.Equal(t, types.ApplicationID("gedit.desktop"), head)

	_, ok = layer.DefaultFor("video/mp4")
	assert.False(t, ok)
}

func TestDocument_LayerDiagnostics(t *testing.T) {
	input := `[Added Associations]
text/plain=a.desktop;
nonsense=b.desktop;
TEXT/PLAIN=c.desktop;
text/html=;
`
	doc, err := mimeapps.Parse([]byte(input))
	require.NoError(t, err)

	layer, diags := doc.Layer("f")

	assert.Equal(t, []types.ApplicationID{"a.desktop"}, layer.Added["text/plain"])
	assert.NotContains(t, layer.Added, types.MimeType("text/html"), "empty values assert nothing")

	require.Len(t, diags, 2)
	assert.Equal(t, types.DiagInvalidMime, diags[0].Code)
	assert.Equal(t, types.DiagDuplicateKey, diags[1].Code)
}

func TestDocument_LayerKeepsLegacyIDs(t *testing.T) {
	doc, err := mimeapps.Parse([]byte("[Default Applications]\ntext/plain=kde4-kate;gedit.desktop;\n"))
	require.NoError(t, err)

	layer, diags := doc.Layer("f")

	assert.Empty(t, diags)
	assert.Equal(t, []types.ApplicationID{"kde4-kate", "gedit.desktop"}, layer.Defaults["text/plain"],
		"ids without a .desktop suffix are kept so they can be reported as stale")
}

func TestLayer_Helpers(t *testing.T) {
	empty := mimeapps.EmptyLayer("x")
	assert.True(t, empty.IsEmpty())
	assert.Empty(t, empty.MimeTypes())

	empty.Removed["image/png"] = []types.ApplicationID{"a.desktop"}
	empty.Defaults["text/plain"] = []types.ApplicationID{"a.desktop"}
	assert.False(t, empty.IsEmpty())
	assert.ElementsMatch(t, []types.MimeType{"image/png", "text/plain"}, empty.MimeTypes())
}
