package qfs

import "errors"

// ErrAlreadyLocked is returned by [TryLock] when another process already
// holds the exclusive lock on the file.
var ErrAlreadyLocked = errors.New("qfs: file already locked by another process")

// fdFile is satisfied by [*os.File] and lets TryLock/Unlock reach the raw
// descriptor flock(2) needs. Fakes used in tests (like [*chaosFile]) don't
// satisfy it, so locking is a no-op against them.
type fdFile interface {
	Fd() uintptr
}
