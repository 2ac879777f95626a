package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDesktopFile_String(t *testing.T) {
	assert.Equal(t,
		"[Desktop Entry]\nType=Application\nName=Text Editor\nExec=text-editor %U\nMimeType=text/plain;text/markdown;\n",
		App("Text Editor", "text/plain", "text/markdown").String())

	hidden := DesktopFile{Hidden: true}
	assert.Equal(t, "[Desktop Entry]\nType=Application\nHidden=true\n", hidden.String())

	link := DesktopFile{Type: "Link", Name: "Site", Extra: "URL=https://example.org"}
	assert.Contains(t, link.String(), "Type=Link\n")
	assert.Contains(t, link.String(), "URL=https://example.org\n")
}

func TestMimeapps_String(t *testing.T) {
	got := NewMimeapps().
		Default("text/plain", "a.desktop").
		Added("text/plain", "a.desktop", "b.desktop").
		Default("image/png", "c.desktop").
		String()

	assert.Equal(t, `[Default Applications]
text/plain=a.desktop;
image/png=c.desktop;

[Added Associations]
text/plain=a.desktop;b.desktop;
`, got)
}
