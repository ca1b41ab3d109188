package flatfile

import (
	"errors"
	"os"
	"path/filepath"
)

// writeFileAtomic writes to a temporary file in the destination directory
// and renames it over path only after write, sync and close all succeed.
// On any failure the temporary file is removed and path is left untouched.
func writeFileAtomic(path string, perm os.FileMode, write func(*os.File) error) error {
	dir, name := filepath.Split(path)
	if name == "" {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}

	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, name+".tmp-*")
	if err != nil {
		return err
	}

	tmpPath := tmp.Name()
	renamed := false

	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}

	// https://www.joeshaw.org/dont-defer-close-on-writable-files/
	errSync := tmp.Sync()
	errClose := tmp.Close()

	if err := errors.Join(errSync, errClose); err != nil {
		return err
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	renamed = true

	// Sync the directory so the rename survives a crash. Best effort.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return nil
}
