package filesystem

import (
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/mimer/pkg/errors"
	"github.com/arthur-debert/mimer/pkg/logging"
	"github.com/arthur-debert/mimer/pkg/types"
)

// WriteFileAtomic replaces path with data so that readers observe either the
// old content or the new content, never a partial file. The data goes to a
// temporary file in the same directory which is synced, closed and renamed
// over path. The temporary file is removed on every error path.
//
// Missing parent directories are created. Failures are IO_ERROR with the
// attempted path as the "path" detail.
func WriteFileAtomic(fsys types.FS, path string, data []byte, perm fs.FileMode) (err error) {
	logger := logging.GetLogger("filesystem.atomic")
	dir := filepath.Dir(path)

	if err := fsys.MkdirAll(dir, 0755); err != nil {
		return ioError(err, "failed to create directory", path)
	}

	tmp, err := fsys.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return ioError(err, "failed to create temporary file", path)
	}
	tmpName := tmp.Name()

	closed := false
	defer func() {
		if err == nil {
			return
		}
		if !closed {
			_ = tmp.Close()
		}
		if rmErr := fsys.Remove(tmpName); rmErr != nil {
			logger.Debug().Err(rmErr).Str("tmp", tmpName).Msg("Failed to remove temporary file")
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return ioError(err, "failed to write temporary file", path)
	}
	if err = tmp.Chmod(perm); err != nil {
		return ioError(err, "failed to set permissions on temporary file", path)
	}
	if err = tmp.Sync(); err != nil {
		return ioError(err, "failed to sync temporary file", path)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return ioError(err, "failed to close temporary file", path)
	}
	if err = fsys.Rename(tmpName, path); err != nil {
		return ioError(err, "failed to replace file", path)
	}

	logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written atomically")
	return nil
}

func ioError(err error, msg, path string) error {
	return errors.Wrapf(err, errors.ErrIO, "%s %s", msg, path).WithDetail("path", path)
}
