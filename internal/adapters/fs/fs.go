// Package fs provides file system helpers shared by the storage adapters.
package fs

import (
	"errors"
	iofs "io/fs"
	"iter"
	"os"
	"path/filepath"

	"go.trai.ch/wsm/internal/core/domain"
)

// WriteFileAtomic writes data to path by writing a temp file in the same
// directory and renaming it over path. Parent directories are created.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return err
	}

	if err := tmpFile.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// WalkFiles yields the paths of all regular files below root.
// A missing root yields nothing.
func WalkFiles(root string) iter.Seq2[string, iofs.FileInfo] {
	return func(yield func(string, iofs.FileInfo) bool) {
		_ = filepath.WalkDir(root, func(path string, d iofs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return err
			}
			if !yield(path, info) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// DirSize returns the total size of regular files below root and the number
// of files counted. A missing root is reported as an error matching
// iofs.ErrNotExist.
func DirSize(root string) (size int64, files int, err error) {
	if _, err := os.Stat(root); err != nil {
		return 0, 0, err
	}
	for _, info := range WalkFiles(root) {
		size += info.Size()
		files++
	}
	return size, files, nil
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, iofs.ErrNotExist)
}
