package pqueue

import "errors"

// Errors returned by pqueue operations. Classify with errors.Is.
//
// ErrEmpty, ErrFull, and ErrTaskDoneMismatch are expected, retryable
// conditions callers are expected to handle. ErrCorrupt and io errors
// (the underlying os error, wrapped with %w for context) are fatal for
// the operation that raised them; the queue remains open but callers
// should close and diagnose before trusting further reads.
var (
	// ErrEmpty is returned by Get/Peek when non-blocking or timed out
	// against an empty queue.
	ErrEmpty = errors.New("pqueue: empty")

	// ErrFull is returned by Put when non-blocking or timed out against a
	// saturated bounded queue.
	ErrFull = errors.New("pqueue: full")

	// ErrClosed is returned by any operation on a closed queue, including
	// blocking waiters woken by Close.
	ErrClosed = errors.New("pqueue: closed")

	// ErrTaskDoneMismatch is returned by TaskDone when called more times
	// than items have been put.
	ErrTaskDoneMismatch = errors.New("pqueue: task_done called too many times")

	// ErrCorrupt indicates the on-disk header or a record's framing is
	// internally inconsistent. Rebuild-class: the file must be repaired or
	// recreated out of band.
	ErrCorrupt = errors.New("pqueue: corrupt")

	// ErrPayloadTooLarge is returned by Put when the encoded payload does
	// not fit in a uint32 length prefix.
	ErrPayloadTooLarge = errors.New("pqueue: payload too large")
)
