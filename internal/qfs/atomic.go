package qfs

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicWriter writes files atomically using the temp-file-then-rename
// pattern: write to a sibling temp file, fsync it, rename it over the
// destination. A crash at any point before the rename leaves the
// destination untouched; a crash during the rename resolves to whichever
// file the filesystem's rename atomicity guarantees picked.
//
// This is the mechanism the compactor (C4) uses for its temp-file swap.
// Queue.Copy does not use it; it writes its snapshot with
// github.com/natefinch/atomic instead.
type AtomicWriter struct {
	fs FS
}

// NewAtomicWriter creates an AtomicWriter that uses the given filesystem.
func NewAtomicWriter(fs FS) *AtomicWriter {
	return &AtomicWriter{fs: fs}
}

// Write streams r into a temp file beside path, fsyncs it, and renames it
// over path. perm is applied to the temp file at creation.
func (w *AtomicWriter) Write(path string, r io.Reader, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if base == "" {
		return fmt.Errorf("qfs: invalid path %q", path)
	}

	if dir == "" {
		dir = "."
	}

	tmpFile, tmpPath, err := w.createTempFile(dir, base, perm)
	if err != nil {
		return err
	}

	cleanup := func() {
		_ = tmpFile.Close()
		_ = w.fs.Remove(tmpPath)
	}

	if _, err := io.Copy(tmpFile, r); err != nil {
		cleanup()
		return fmt.Errorf("qfs: write temp file %q: %w", tmpPath, err)
	}

	if err := tmpFile.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("qfs: sync temp file %q: %w", tmpPath, err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = w.fs.Remove(tmpPath)
		return fmt.Errorf("qfs: close temp file %q: %w", tmpPath, err)
	}

	if err := w.fs.Rename(tmpPath, path); err != nil {
		_ = w.fs.Remove(tmpPath)
		return fmt.Errorf("qfs: rename %q to %q: %w", tmpPath, path, err)
	}

	return nil
}

const maxTempFileAttempts = 10000

// randomSuffix returns a random hex string suitable for a collision-free
// sibling temp file name: "<original>-<random_suffix>".
func randomSuffix() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("qfs: generate random suffix: %w", err)
	}

	return hex.EncodeToString(buf[:]), nil
}

func (w *AtomicWriter) createTempFile(dir, base string, perm os.FileMode) (File, string, error) {
	for range maxTempFileAttempts {
		suffix, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}

		path := filepath.Join(dir, base+"-"+suffix)

		file, err := w.fs.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return file, path, nil
		}

		if os.IsExist(err) {
			continue
		}

		return nil, "", fmt.Errorf("qfs: create temp file in %q: %w", dir, err)
	}

	return nil, "", fmt.Errorf("qfs: exhausted temp file attempts in %q: %w", dir, errors.ErrUnsupported)
}
