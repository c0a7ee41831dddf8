package pqueue

import "github.com/calvinalkan/pqueue/internal/qfs"

// Close releases the queue's file handle and wakes every blocked waiter
// with ErrClosed. Close is idempotent: calling it again is a no-op that
// returns nil.
//
// Close does not wait for in-flight Put/Get/Flush calls to finish; it
// acquires the same locks they do, so it simply queues up behind whichever
// operation currently holds the file.
func (q *Queue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}

	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
	q.mu.Unlock()

	q.tasksMu.Lock()
	q.tasksCond.Broadcast()
	q.tasksMu.Unlock()

	q.fileMu.Lock()
	defer q.fileMu.Unlock()

	q.logger.Info("pqueue: closed", "path", q.path)

	_ = qfs.Unlock(q.file)

	return q.file.Close()
}
