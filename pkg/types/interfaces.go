package types

import (
	"io"
	"io/fs"
)

// FS is the filesystem interface required for mimer operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// CreateTemp creates a new file in dir with a name built from pattern,
	// opened for writing. It backs the atomic write path.
	CreateTemp(dir, pattern string) (File, error)

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}

// File is a writable file handle returned by FS.CreateTemp
type File interface {
	io.Writer
	Name() string
	Sync() error
	Chmod(mode fs.FileMode) error
	Close() error
}
