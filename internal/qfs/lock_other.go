//go:build !unix

package qfs

// TryLock is a no-op on platforms without flock(2).
func TryLock(f File) error { return nil }

// Unlock is a no-op on platforms without flock(2).
func Unlock(f File) error { return nil }
