//go:build unix

package qfs

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// TryLock takes a non-blocking exclusive flock(2) on f, guarding against a
// second process opening the same queue file concurrently. It follows the
// inode-locking pattern of a dedicated file Locker, but through
// golang.org/x/sys/unix instead of the syscall package directly.
//
// f must be backed by a real descriptor; filesystem fakes used in tests are
// left unlocked.
func TryLock(f File) error {
	fd, ok := f.(fdFile)
	if !ok {
		return nil
	}

	err := unix.Flock(int(fd.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == nil {
		return nil
	}

	if errors.Is(err, unix.EWOULDBLOCK) {
		return ErrAlreadyLocked
	}

	return &os.PathError{Op: "flock", Err: err}
}

// Unlock releases a lock taken with [TryLock]. Closing f's descriptor also
// releases the flock on Unix, but Close calls Unlock first so the intent is
// explicit rather than incidental.
func Unlock(f File) error {
	fd, ok := f.(fdFile)
	if !ok {
		return nil
	}

	return unix.Flock(int(fd.Fd()), unix.LOCK_UN)
}
