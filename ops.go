package pqueue

import (
	"context"
	"io"

	"github.com/natefinch/atomic"
)

// This file is the queue logic: Put/Get/Peek/Delete/Clear/Copy
// compose the storage engine (storage.go) under the concurrency controller
// (sync.go). Lock order is always consumer-or-producer lock first, then
// fileMu, file-lock-innermost throughout.

// Put appends v, blocking while the queue is at capacity, closed, or ctx
// ends the wait.
func (q *Queue) Put(ctx context.Context, v any) error {
	return q.put(ctx, v, true)
}

// PutNowait appends v without blocking, returning ErrFull if the queue is
// at capacity.
func (q *Queue) PutNowait(v any) error {
	return q.put(context.Background(), v, false)
}

func (q *Queue) put(ctx context.Context, v any, block bool) error {
	payload, err := q.codec.Encode(v)
	if err != nil {
		return err
	}

	q.putMu.Lock()
	defer q.putMu.Unlock()

	if err := q.waitForSpace(ctx, block); err != nil {
		return err
	}

	q.fileMu.Lock()

	size, err := fileSize(q.file)
	if err != nil {
		q.fileMu.Unlock()
		return err
	}

	if err := appendRecordDurable(q.file, size, payload); err != nil {
		q.fileMu.Unlock()
		return err
	}

	q.mu.Lock()
	newCount := q.count + 1
	q.mu.Unlock()

	if err := writeHeaderCount(q.file, newCount); err != nil {
		q.fileMu.Unlock()
		return err
	}

	q.fileMu.Unlock()

	q.mu.Lock()
	q.count = newCount
	q.notEmpty.Broadcast()
	q.mu.Unlock()

	q.tasksMu.Lock()
	q.unfinished++
	q.tasksMu.Unlock()

	q.logMutation("put", newCount)

	return nil
}

// Get removes and returns the oldest item, blocking while the queue is
// empty, closed, or ctx ends the wait.
func (q *Queue) Get(ctx context.Context) (any, error) {
	return q.get(ctx, true, true)
}

// GetNowait removes and returns the oldest item without blocking,
// returning ErrEmpty if the queue has no items.
func (q *Queue) GetNowait() (any, error) {
	return q.get(context.Background(), false, true)
}

// Peek returns the oldest item without removing it, blocking while the
// queue is empty, closed, or ctx ends the wait.
func (q *Queue) Peek(ctx context.Context) (any, error) {
	return q.get(ctx, true, false)
}

// PeekNowait returns the oldest item without removing it and without
// blocking, returning ErrEmpty if the queue has no items.
func (q *Queue) PeekNowait() (any, error) {
	return q.get(context.Background(), false, false)
}

func (q *Queue) get(ctx context.Context, block, advance bool) (any, error) {
	q.getMu.Lock()
	defer q.getMu.Unlock()

	if err := q.waitAvailable(ctx, block); err != nil {
		return nil, err
	}

	q.fileMu.Lock()

	hdr, err := readFileHeader(q.file)
	if err != nil {
		q.fileMu.Unlock()
		return nil, err
	}

	payload, next, err := readRecordAt(q.file, int64(hdr.headOffset))
	if err != nil {
		q.fileMu.Unlock()
		return nil, err
	}

	var newCount uint32

	if advance {
		if err := writeHeaderHead(q.file, uint32(next)); err != nil {
			q.fileMu.Unlock()
			return nil, err
		}

		newCount = hdr.count - 1

		if err := writeHeaderCount(q.file, newCount); err != nil {
			q.fileMu.Unlock()
			return nil, err
		}
	}

	q.fileMu.Unlock()

	if advance {
		q.mu.Lock()
		q.count = newCount
		q.notFull.Broadcast()
		q.mu.Unlock()

		q.logMutation("get", newCount)
	}

	value, err := q.codec.Decode(payload)
	if err != nil {
		return nil, err
	}

	return value, nil
}

// Delete discards up to n oldest items without decoding them. Unlike
// Get, it never blocks: n larger than the current size is clamped to the
// current size rather than an error, and n == 0 is a no-op.
func (q *Queue) Delete(n int) error {
	if n <= 0 {
		return nil
	}

	q.getMu.Lock()
	defer q.getMu.Unlock()

	if q.isClosed() {
		return ErrClosed
	}

	q.fileMu.Lock()
	defer q.fileMu.Unlock()

	hdr, err := readFileHeader(q.file)
	if err != nil {
		return err
	}

	if n > int(hdr.count) {
		n = int(hdr.count)
	}

	offset := int64(hdr.headOffset)

	for i := 0; i < n; i++ {
		offset, err = skipRecordAt(q.file, offset)
		if err != nil {
			return err
		}
	}

	if err := writeHeaderHead(q.file, uint32(offset)); err != nil {
		return err
	}

	newCount := hdr.count - uint32(n)

	if err := writeHeaderCount(q.file, newCount); err != nil {
		return err
	}

	q.mu.Lock()
	q.count = newCount
	q.notFull.Broadcast()
	q.mu.Unlock()

	q.logMutation("delete", newCount)

	return nil
}

// Clear discards every item in the queue, resetting it to empty.
func (q *Queue) Clear() error {
	q.getMu.Lock()
	defer q.getMu.Unlock()

	if q.isClosed() {
		return ErrClosed
	}

	q.fileMu.Lock()
	defer q.fileMu.Unlock()

	if err := q.file.Truncate(0); err != nil {
		return err
	}

	if err := initHeader(q.file); err != nil {
		return err
	}

	q.mu.Lock()
	q.count = 0
	q.notFull.Broadcast()
	q.mu.Unlock()

	q.logMutation("clear", 0)

	return nil
}

// Copy durably snapshots the current file content to newPath via a
// temp-file-then-rename swap, and opens the result as an independent
// Queue sharing this queue's codec and options. Unlike Flush, Copy targets
// an external, caller-chosen path; it is not itself part of this queue's
// crash-recovery story, so it goes straight through natefinch/atomic
// instead of the internal qfs-abstracted writer used by the compactor.
func (q *Queue) Copy(newPath string) (*Queue, error) {
	q.getMu.Lock()
	defer q.getMu.Unlock()

	if q.isClosed() {
		return nil, ErrClosed
	}

	q.fileMu.Lock()

	if err := q.file.Sync(); err != nil {
		q.fileMu.Unlock()
		return nil, err
	}

	size, err := fileSize(q.file)
	if err != nil {
		q.fileMu.Unlock()
		return nil, err
	}

	reader := io.NewSectionReader(q.file, 0, size)

	if err := atomic.WriteFile(newPath, reader); err != nil {
		q.fileMu.Unlock()
		return nil, err
	}

	q.fileMu.Unlock()

	return Open(newPath, q.codec, Options{
		MaxSize:        q.maxSize,
		FlushThreshold: q.flushThreshold,
		Logger:         q.logger,
		FS:             q.fsys,
	})
}
