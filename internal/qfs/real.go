package qfs

import "os"

// Real implements [FS] using the real filesystem.
//
// All methods are pure passthroughs to the os package with identical
// behavior and error semantics.
type Real struct{}

// NewReal returns a new [Real] filesystem.
func NewReal() *Real {
	return &Real{}
}

// OpenFile is a passthrough wrapper for [os.OpenFile].
func (r *Real) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	return os.OpenFile(path, flag, perm)
}

// Remove is a passthrough wrapper for [os.Remove]; missing files are not an error.
func (r *Real) Remove(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	return err
}

// Rename is a passthrough wrapper for [os.Rename].
func (r *Real) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Stat is a passthrough wrapper for [os.Stat].
func (r *Real) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// Compile-time interface check.
var _ FS = (*Real)(nil)
