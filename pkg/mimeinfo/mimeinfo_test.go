// pkg/mimeinfo/mimeinfo_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Memory filesystem
// PURPOSE: Test shared-mime-info XML reading, aliases and parents

package mimeinfo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/mimer/pkg/desktop"
	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/mimeinfo"
	"github.com/arthur-debert/mimer/pkg/testutil"
	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const freedesktop = `<?xml version="1.0" encoding="UTF-8"?>
<mime-info xmlns="http://www.freedesktop.org/standards/shared-mime-info">
  <mime-type type="text/plain">
    <comment>plain text document</comment>
    <comment xml:lang="de">Einfaches Textdokument</comment>
    <comment xml:lang="pt_BR">documento de texto simples</comment>
    <alias type="text/x-plain"/>
    <sub-class-of type="application/octet-stream"/>
    <generic-icon name="text-x-generic"/>
    <glob pattern="*.txt"/>
    <glob pattern="*.asc"/>
  </mime-type>
  <mime-type type="text/x-csrc">
    <comment>C source code</comment>
    <acronym>C</acronym>
    <sub-class-of type="text/plain"/>
    <alias type="text/x-c"/>
  </mime-type>
  <mime-type type="not a type">
    <comment>skipped</comment>
  </mime-type>
</mime-info>
`

func TestParse(t *testing.T) {
	ts, err := mimeinfo.Parse([]byte(freedesktop), desktop.Locale{})
	require.NoError(t, err)
	require.Len(t, ts, 2)

	plain := ts[0]
	assert.Equal(t, types.MimeType("text/plain"), plain.Mime)
	assert.Equal(t, "plain text document", plain.Comment)
	assert.Equal(t, "text-x-generic", plain.Icon)
	assert.Equal(t, []types.MimeType{"text/x-plain"}, plain.Aliases)
	assert.Equal(t, []types.MimeType{"application/octet-stream"}, plain.Parents)
	assert.Equal(t, []string{"*.txt", "*.asc"}, plain.Globs)

	assert.Equal(t, "C", ts[1].Acronym)
}

func TestParse_LocalizedComment(t *testing.T) {
	tests := map[string]string{
		"de_DE.UTF-8": "Einfaches Textdokument",
		"pt_BR":       "documento de texto simples",
		"pt_PT":       "plain text document",
		"":            "plain text document",
	}
	for locale, want := range tests {
		t.Run(locale, func(t *testing.T) {
			ts, err := mimeinfo.Parse([]byte(freedesktop), desktop.ParseLocale(locale))
			require.NoError(t, err)
			assert.Equal(t, want, ts[0].Comment)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	_, err := mimeinfo.Parse([]byte("<mime-info><mime-type"), desktop.Locale{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))

	_, err = mimeinfo.Parse([]byte("<other/>"), desktop.Locale{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrParse))
}

func TestLoad(t *testing.T) {
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.WriteFile(filepath.Join(env.MimePackages(), "freedesktop.org.xml"), freedesktop)
	env.WriteFile(filepath.Join(env.MimePackages(), "broken.xml"), "not xml <<<")
	env.WriteFile(filepath.Join(env.Dirs.DataHome, "mime", "packages", "user.xml"), `<mime-info>
  <mime-type type="text/plain">
    <comment>my text</comment>
    <alias type="text/x-mine"/>
  </mime-type>
</mime-info>`)

	mimeDirs := []string{
		filepath.Join(env.Dirs.DataHome, "mime"),
		filepath.Dir(env.MimePackages()),
	}
	db, diags, err := mimeinfo.Load(context.Background(), env.FS, mimeDirs, desktop.Locale{})
	require.NoError(t, err)

	require.Len(t, diags, 1)
	assert.Equal(t, types.DiagParseError, diags[0].Code)

	plain, ok := db.Lookup("text/plain")
	require.True(t, ok)
	assert.Equal(t, "my text", plain.Comment, "user data dir wins")
	assert.ElementsMatch(t, []types.MimeType{"text/x-mine", "text/x-plain"}, plain.Aliases)

	assert.Equal(t, types.MimeType("text/plain"), db.Canonical("text/x-plain"))
	assert.Equal(t, types.MimeType("text/x-csrc"), db.Canonical("text/x-c"))
	assert.Equal(t, types.MimeType("image/png"), db.Canonical("image/png"))
	assert.Equal(t, []types.MimeType{"text/x-c"}, db.Aliases("text/x-csrc"))
	assert.Equal(t, []types.MimeType{"text/x-c"}, db.Aliases("text/x-c"), "aliases of the canonical type")
	assert.Nil(t, db.Aliases("image/png"))

	byAlias, ok := db.Lookup("text/x-c")
	require.True(t, ok)
	assert.Equal(t, "C source code", byAlias.Comment)

	assert.Equal(t, []types.MimeType{"text/plain", "application/octet-stream"}, db.Ancestors("text/x-c"))
	assert.Equal(t, 2, db.Len())
	assert.Equal(t, []types.MimeType{"text/plain", "text/x-csrc"}, db.MimeTypes())
}

func TestNewDatabase(t *testing.T) {
	db := mimeinfo.NewDatabase()
	_, ok := db.Lookup("text/plain")
	assert.False(t, ok)
	assert.Equal(t, types.MimeType("text/plain"), db.Canonical("text/plain"))
	assert.Empty(t, db.Ancestors("text/plain"))
	assert.Nil(t, db.Aliases("text/plain"))
}
