// Package storage writes rendered artifacts to disk so that readers only
// ever observe a complete file.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	outputFilePermission = 0o644
)

// WriteFunc streams content into the destination.
type WriteFunc func(w io.Writer) error

// WriteFile runs write against a temporary file next to path and renames it
// into place once write, sync and close all succeed. On failure the
// temporary file is removed and any existing file at path is untouched.
// It returns the number of bytes written.
func WriteFile(path string, write WriteFunc) (int64, error) {
	dir := filepath.Dir(path)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, fmt.Errorf("%w: %s", ErrNoDirectory, dir)
		}
		return 0, fmt.Errorf("%w: stat %s: %w", ErrWrite, dir, err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("%w: %s is not a directory", ErrNoDirectory, dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("%w: create temp file: %w", ErrWrite, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	cw := &countingWriter{w: tmp}
	if err := write(cw); err != nil {
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		return 0, fmt.Errorf("%w: sync %s: %w", ErrWrite, tmpPath, err)
	}
	if err := tmp.Chmod(outputFilePermission); err != nil {
		return 0, fmt.Errorf("%w: chmod %s: %w", ErrWrite, tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("%w: close %s: %w", ErrWrite, tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("%w: move into place: %w", ErrWrite, err)
	}
	committed = true
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
