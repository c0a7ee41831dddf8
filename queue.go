package pqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/calvinalkan/pqueue/internal/qfs"
)

// Queue is a durable, single-file, thread-safe FIFO queue.
//
// A Queue must be created with [Open] and released with [Close]. The zero
// value is not usable.
type Queue struct {
	path   string
	codec  Codec
	fsys   qfs.FS
	logger *slog.Logger

	maxSize        int
	flushThreshold int64

	// mu guards count and closed: the fast-path snapshot state read by
	// Qsize/Empty/Full/Len without touching the file. notEmpty/notFull are
	// bound to mu.
	mu       sync.Mutex
	count    uint32
	closed   bool
	notEmpty *sync.Cond
	notFull  *sync.Cond

	// fileMu serializes all I/O against file: append, header read/write,
	// truncate, and the compactor's swap. Always acquired after getMu/putMu,
	// never the reverse.
	fileMu sync.Mutex
	file   qfs.File

	// getMu serializes consumers: Get, Peek, Delete, and the mutation
	// phase of Flush/Clear.
	getMu sync.Mutex

	// putMu serializes producers.
	putMu sync.Mutex

	// tasksMu/tasksCond/unfinished track the in-memory, non-persisted
	// unfinished-task count behind TaskDone/Join.
	tasksMu    sync.Mutex
	tasksCond  *sync.Cond
	unfinished int64

	flushCount int
	lastFlush  time.Time
}

// Stats is an observability snapshot. It does not guard subsequent
// operations against races, like Qsize/Empty/Full.
type Stats struct {
	Qsize      int
	FileSize   int64
	DeadBytes  int64
	FlushCount int
	LastFlush  time.Time
}

func newQueue(path string, codec Codec, fsys qfs.FS, file qfs.File, opts Options) *Queue {
	q := &Queue{
		path:           path,
		codec:          codec,
		fsys:           fsys,
		file:           file,
		logger:         opts.logger(),
		maxSize:        opts.normalizedMaxSize(),
		flushThreshold: opts.normalizedFlushThreshold(),
	}

	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	q.tasksCond = sync.NewCond(&q.tasksMu)

	return q
}

// isClosed reports whether the queue has been closed.
func (q *Queue) isClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closed
}

// Qsize returns the number of items currently in the queue.
func (q *Queue) Qsize() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return int(q.count)
}

// Len is an alias for Qsize.
func (q *Queue) Len() int {
	return q.Qsize()
}

// Empty reports whether the queue currently holds no items. This is a
// snapshot; it does not prevent a concurrent Put from invalidating it
// before the caller acts on the result.
func (q *Queue) Empty() bool {
	return q.Qsize() == 0
}

// Full reports whether the queue is at its bounded capacity. Always false
// for an unbounded queue (MaxSize == 0).
func (q *Queue) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.maxSize > 0 && int(q.count) >= q.maxSize
}

// Stats returns an observability snapshot.
func (q *Queue) Stats() Stats {
	q.mu.Lock()
	count := q.count
	q.mu.Unlock()

	q.fileMu.Lock()
	defer q.fileMu.Unlock()

	stats := Stats{Qsize: int(count), FlushCount: q.flushCount, LastFlush: q.lastFlush}

	size, err := fileSize(q.file)
	if err != nil {
		return stats
	}

	stats.FileSize = size

	hdr, err := readFileHeader(q.file)
	if err != nil {
		return stats
	}

	stats.DeadBytes = int64(hdr.headOffset) - firstRecord

	return stats
}

// TaskDone decrements the unfinished-task counter. It returns
// [ErrTaskDoneMismatch] if called more times than items were put. When the
// counter reaches zero, waiters in [Queue.Join] are woken.
func (q *Queue) TaskDone() error {
	q.tasksMu.Lock()
	defer q.tasksMu.Unlock()

	if q.unfinished <= 0 {
		return ErrTaskDoneMismatch
	}

	q.unfinished--
	if q.unfinished == 0 {
		q.tasksCond.Broadcast()
	}

	return nil
}

// Join blocks until every item put onto the queue has had a matching
// TaskDone call, until the queue is closed (ErrClosed), or until ctx ends
// the wait. The unfinished-task count is
// in-memory only: it does not survive a restart, and a
// fresh Open always starts at zero regardless of the file's item count.
func (q *Queue) Join(ctx context.Context) error {
	return q.waitTasksDone(ctx)
}
