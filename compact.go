package pqueue

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/calvinalkan/pqueue/internal/qfs"
)

// This file is the compactor: Flush rewrites the file so the
// live region starts right after the header again, reclaiming the dead
// prefix left behind by consumed records. It is amortized: a no-op unless
// head_offset has reached flush_threshold, and the call is paid for
// by whichever goroutine happens to trigger it, not by a background timer.
//
// The swap goes through internal/qfs.AtomicWriter rather than
// github.com/natefinch/atomic directly, because Flush must stay
// crash-injectable via qfs.Chaos (ChaosOpWrite/ChaosOpRename can fire
// mid-compaction). Queue.Copy, which targets a path outside this queue's own
// crash-recovery story, uses natefinch/atomic directly instead.

// Flush compacts the file if head_offset (the header plus the dead prefix of
// consumed-but-not-reclaimed bytes) has reached the configured flush
// threshold. It is always safe to call; below the threshold it returns nil
// having done nothing.
func (q *Queue) Flush() error {
	q.getMu.Lock()
	defer q.getMu.Unlock()

	if q.isClosed() {
		return ErrClosed
	}

	q.fileMu.Lock()
	defer q.fileMu.Unlock()

	if err := q.file.Sync(); err != nil {
		return err
	}

	hdr, err := readFileHeader(q.file)
	if err != nil {
		return err
	}

	if int64(hdr.headOffset) < q.flushThreshold {
		return nil
	}

	size, err := fileSize(q.file)
	if err != nil {
		return err
	}

	liveBytes := size - int64(hdr.headOffset)

	newHeader := fileHeader{count: hdr.count, headOffset: firstRecord}

	reader := io.MultiReader(
		bytes.NewReader(newHeader.encode()),
		io.NewSectionReader(q.file, int64(hdr.headOffset), liveBytes),
	)

	aw := qfs.NewAtomicWriter(q.fsys)
	if err := aw.Write(q.path, reader, 0o644); err != nil {
		return err
	}

	_ = qfs.Unlock(q.file)

	if err := q.file.Close(); err != nil {
		return err
	}

	newFile, err := q.fsys.OpenFile(q.path, os.O_RDWR, 0o644)
	if err != nil {
		return err
	}

	if err := qfs.TryLock(newFile); err != nil {
		_ = newFile.Close()
		return err
	}

	q.file = newFile
	q.flushCount++
	q.lastFlush = time.Now()

	q.logger.Debug("pqueue: compacted", "path", q.path, "count", hdr.count, "reclaimed_bytes", int64(hdr.headOffset)-firstRecord)

	return nil
}
