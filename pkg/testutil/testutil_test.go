// pkg/testutil/testutil_test.go
// TEST TYPE: Unit Tests
// DEPENDENCIES: Real temp directory
// PURPOSE: Test the real-filesystem helpers used by CLI tests

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateFile(t *testing.T) {
	dir := t.TempDir()

	path := CreateFile(t, dir, "applications/kde/okular.desktop", "[Desktop Entry]\n")
	assert.Equal(t, filepath.Join(dir, "applications", "kde", "okular.desktop"), path)
	assert.True(t, FileExists(t, path))
	assert.Equal(t, "[Desktop Entry]\n", ReadFile(t, path))
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()

	assert.False(t, FileExists(t, filepath.Join(dir, "missing")))
	assert.False(t, FileExists(t, dir), "directories are not files")
}
