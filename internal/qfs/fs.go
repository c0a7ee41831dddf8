// Package qfs provides the filesystem seam pqueue's storage engine runs
// against.
//
// The main types are:
//   - [FS] / [File]: the interface pqueue talks to instead of the os package
//     directly
//   - [Real]: production implementation, a thin pass-through to os
//   - [Chaos]: test implementation that injects faults (random or
//     deterministic) so crash-recovery invariants can be exercised without a
//     real crash
//
// Paths use OS semantics, not the slash-separated paths of io/fs.
package qfs

import (
	"io"
	"os"
)

// File is an open file descriptor. Satisfied by [*os.File].
//
// Implementations must be safe for concurrent use by multiple goroutines,
// since the storage engine may release the file lock around decode while
// still holding a reference to the handle.
type File interface {
	io.ReadWriteCloser
	io.Seeker

	// ReadAt and WriteAt give positional access without perturbing the
	// shared file cursor, preferring pread/pwrite-style
	// I/O over a save/restore-cursor dance.
	io.ReaderAt
	io.WriterAt

	// Sync commits the file's contents to disk. See [os.File.Sync].
	Sync() error

	// Truncate changes the size of the file. See [os.File.Truncate].
	Truncate(size int64) error

	// Stat returns file info. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// FS defines the filesystem operations the storage engine and compactor
// need. All methods mirror their os package equivalents but can be
// intercepted for testing.
//
// Implementations must be safe for concurrent use by multiple goroutines.
type FS interface {
	// OpenFile opens a file with the given flags and permissions. See [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// Remove deletes a file. See [os.Remove]. No error if the path doesn't exist.
	Remove(path string) error

	// Rename moves/renames a file. See [os.Rename]. Atomic on the same filesystem.
	Rename(oldpath, newpath string) error

	// Stat returns file info for path. See [os.Stat].
	Stat(path string) (os.FileInfo, error)
}

// Compile-time interface check.
var _ File = (*os.File)(nil)
