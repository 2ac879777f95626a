package filesystem

import (
	"io/fs"

	"github.com/arthur-debert/mimer/pkg/types"
	"github.com/spf13/afero"
)

// aferoFS implements types.FS on top of any afero.Fs
type aferoFS struct {
	fs afero.Fs
}

// NewOS returns the real filesystem
func NewOS() types.FS {
	return NewAferoFS(afero.NewOsFs())
}

// NewAferoFS wraps fs, typically afero.NewMemMapFs() in tests
func NewAferoFS(fs afero.Fs) types.FS {
	return &aferoFS{fs: fs}
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(name)
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	info, err := a.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.fs, name)
}

func (a *aferoFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return afero.WriteFile(a.fs, name, data, perm)
}

func (a *aferoFS) CreateTemp(dir, pattern string) (types.File, error) {
	f, err := afero.TempFile(a.fs, dir, pattern)
	if err != nil {
		return nil, err
	}
	return &aferoFile{File: f, fs: a.fs}, nil
}

func (a *aferoFS) MkdirAll(path string, perm fs.FileMode) error {
	return a.fs.MkdirAll(path, perm)
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := afero.ReadDir(a.fs, name)
	if err != nil {
		return nil, err
	}
	dirEntries := make([]fs.DirEntry, len(entries))
	for i, entry := range entries {
		dirEntries[i] = fs.FileInfoToDirEntry(entry)
	}
	return dirEntries, nil
}

func (a *aferoFS) Remove(name string) error {
	return a.fs.Remove(name)
}

func (a *aferoFS) RemoveAll(path string) error {
	return a.fs.RemoveAll(path)
}

func (a *aferoFS) Rename(oldpath, newpath string) error {
	return a.fs.Rename(oldpath, newpath)
}

// aferoFile adapts afero.File to types.File. afero.File has no Chmod, so
// it goes through the owning Fs.
type aferoFile struct {
	afero.File
	fs afero.Fs
}

func (f *aferoFile) Chmod(mode fs.FileMode) error {
	return f.fs.Chmod(f.File.Name(), mode)
}
