package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertFSFileContent checks that path exists in fsys with content expected
func AssertFSFileContent(t *testing.T, fsys types.FS, path, expected string) {
	t.Helper()

	data, err := fsys.ReadFile(path)
	require.NoError(t, err, "file %s should exist", path)
	assert.Equal(t, expected, string(data), "content of %s", path)
}

// AssertFSNoFile checks that path does not exist in fsys
func AssertFSNoFile(t *testing.T, fsys types.FS, path string) {
	t.Helper()

	_, err := fsys.Stat(path)
	assert.True(t, os.IsNotExist(err), "%s should not exist", path)
}

// AssertNoTempFiles checks that no atomic-write temp file is left in dir
func AssertNoTempFiles(t *testing.T, fsys types.FS, dir string) {
	t.Helper()

	entries, err := fsys.ReadDir(dir)
	if os.IsNotExist(err) {
		return
	}
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"),
			"leftover temp file %s", filepath.Join(dir, e.Name()))
	}
}
