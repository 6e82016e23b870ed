// Plainwiki - Database-less Personal Wiki
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/plainwiki

// Package fsutil provides crash-safe file replacement.
//
// Every write goes to "<path>.tmp", created exclusively, is synced, and is
// then renamed over the target. A reader therefore sees either the complete
// old file or the complete new one. A second writer racing on the same path
// fails with ErrWriteInProgress instead of interleaving bytes.
package fsutil

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// TempSuffix is appended to the target path for the in-flight copy.
const TempSuffix = ".tmp"

// ErrWriteInProgress is returned when the temp file already exists.
var ErrWriteInProgress = errors.New("conflicting write in progress")

// AtomicFile is a pending replacement of Path. Writes are buffered; nothing
// is visible at Path until Commit succeeds.
type AtomicFile struct {
	Path    string
	tmpPath string
	file    *os.File
	w       *bufio.Writer
	done    bool
}

// Create opens a new AtomicFile for path, creating parent directories.
func Create(path string, perm fs.FileMode) (*AtomicFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create parent of %s: %w", path, err)
	}

	tmp := path + TempSuffix
	//nolint:gosec // path is resolved by the caller
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrWriteInProgress)
		}
		return nil, fmt.Errorf("open %s: %w", tmp, err)
	}
	return &AtomicFile{Path: path, tmpPath: tmp, file: f, w: bufio.NewWriter(f)}, nil
}

// Write implements io.Writer.
func (a *AtomicFile) Write(p []byte) (int, error) {
	return a.w.Write(p)
}

// Commit flushes, syncs and renames the temp file over Path.
func (a *AtomicFile) Commit() error {
	if a.done {
		return errors.New("atomic file already closed")
	}
	if err := a.w.Flush(); err != nil {
		a.Abort()
		return fmt.Errorf("flush %s: %w", a.tmpPath, err)
	}
	if err := a.file.Sync(); err != nil {
		a.Abort()
		return fmt.Errorf("sync %s: %w", a.tmpPath, err)
	}
	if err := a.file.Close(); err != nil {
		a.Abort()
		return fmt.Errorf("close %s: %w", a.tmpPath, err)
	}
	if err := os.Rename(a.tmpPath, a.Path); err != nil {
		a.done = true
		_ = os.Remove(a.tmpPath)
		return fmt.Errorf("replace %s: %w", a.Path, err)
	}
	a.done = true
	return nil
}

// Abort discards the pending write. It is safe to call after Commit, which
// makes `defer f.Abort()` the normal usage.
func (a *AtomicFile) Abort() {
	if a.done {
		return
	}
	a.done = true
	_ = a.file.Close()
	_ = os.Remove(a.tmpPath)
}

// WriteFile atomically replaces path with the output of write.
func WriteFile(path string, perm fs.FileMode, write func(w io.Writer) error) error {
	f, err := Create(path, perm)
	if err != nil {
		return err
	}
	defer f.Abort()

	if err := write(f); err != nil {
		return err
	}
	return f.Commit()
}

// ReadFileLimit reads path, failing when it is larger than limit bytes.
func ReadFileLimit(path string, limit int64) ([]byte, error) {
	//nolint:gosec // path is resolved by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("read %s: file exceeds %d bytes", path, limit)
	}
	return data, nil
}
