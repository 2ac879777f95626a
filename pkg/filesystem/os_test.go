package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOS(t *testing.T) {
	fs := NewOS()
	assert.NotNil(t, fs)

	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := []byte("hello world")

	err := fs.WriteFile(testFile, testContent, 0644)
	require.NoError(t, err)

	info, err := fs.Stat(testFile)
	require.NoError(t, err)
	assert.Equal(t, "test.txt", info.Name())
	assert.Equal(t, int64(len(testContent)), info.Size())

	content, err := fs.ReadFile(testFile)
	require.NoError(t, err)
	assert.Equal(t, testContent, content)

	subDir := filepath.Join(tmpDir, "sub", "dir")
	err = fs.MkdirAll(subDir, 0755)
	require.NoError(t, err)

	entries, err := fs.ReadDir(tmpDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // test.txt and sub/

	err = fs.Rename(testFile, filepath.Join(tmpDir, "renamed.txt"))
	require.NoError(t, err)

	err = fs.Remove(filepath.Join(tmpDir, "renamed.txt"))
	require.NoError(t, err)
	_, err = fs.Stat(testFile)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileAtomic_OS(t *testing.T) {
	fs := NewOS()
	dir := t.TempDir()
	target := filepath.Join(dir, "config", "mimeapps.list")

	require.NoError(t, WriteFileAtomic(fs, target, []byte("[Default Applications]\n"), 0644))
	require.NoError(t, WriteFileAtomic(fs, target, []byte("[Added Associations]\n"), 0644))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "[Added Associations]\n", string(content))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}
