// Package filesys provides the two filesystem primitives the segment
// directory (internal/segment.Directory) actually needs: creating the
// data directory on first open, and globbing it for segment files on
// every subsequent open. This is the "filesystem directory listing via
// glob" collaborator spec.md names as a thin, out-of-scope layer — so it
// stays thin here too, rather than carrying a general-purpose file-utility
// surface this store never calls.
package filesys

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrIsNotDir is returned when a path exists but is a regular file where a
// directory was expected.
var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates dirPath (and any missing parents) with permission. If
// the directory already exists, force controls whether that's an error;
// either way, an existing non-directory at dirPath is always an error.
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}

	if !force {
		if err == nil {
			return os.ErrExist
		}
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := os.MkdirAll(dirPath, permission); err != nil {
		return err
	}

	return os.Chmod(dirPath, permission)
}

// ReadDir expands a glob pattern (e.g. "datadir/*.kvs") into the matching
// file paths, in the order filepath.Glob returns them.
func ReadDir(pattern string) ([]string, error) {
	return filepath.Glob(pattern)
}
