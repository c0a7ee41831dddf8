package pqueue

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/calvinalkan/pqueue/internal/qfs"
)

// defaultFlushThreshold is the head_offset at or past which Flush stops
// being a no-op, absent an explicit Options.FlushThreshold.
const defaultFlushThreshold = 1 << 20

// Options configures a Queue opened with [Open]. The zero value is valid
// and selects an unbounded queue with the default flush threshold,
// default-handler logging, and the real filesystem.
type Options struct {
	// MaxSize bounds the number of items the queue can hold. Zero (the
	// default) means unbounded.
	MaxSize int

	// FlushThreshold is the head_offset (the 8-byte header plus the dead,
	// consumed-but-not-reclaimed bytes) that must be reached before Flush
	// compacts the file. Zero selects defaultFlushThreshold.
	FlushThreshold int64

	// Logger receives structured diagnostic events. Nil selects
	// slog.Default().
	Logger *slog.Logger

	// FS is the filesystem the queue operates against. Nil selects
	// qfs.NewReal(). Tests substitute a qfs.Chaos to inject faults.
	FS qfs.FS
}

func (o Options) normalizedMaxSize() int {
	if o.MaxSize < 0 {
		return 0
	}

	return o.MaxSize
}

func (o Options) normalizedFlushThreshold() int64 {
	if o.FlushThreshold <= 0 {
		return defaultFlushThreshold
	}

	return o.FlushThreshold
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}

	return o.Logger
}

func (o Options) filesystem() qfs.FS {
	if o.FS == nil {
		return qfs.NewReal()
	}

	return o.FS
}

// Open opens or creates the queue file at path. codec encodes and decodes
// the opaque values passed to Put/Get. A fresh file is initialized with an
// empty header; an existing file is validated and, if it is shorter than
// the header, treated as corrupt.
//
// Open does not replay a write that was interrupted: the header's count and
// head_offset are the source of truth, and a torn trailing write past the
// last accounted-for record is not an error; Open truncates it away, so it
// is invisible to subsequent reads.
func Open(path string, codec Codec, opts Options) (*Queue, error) {
	if codec == nil {
		return nil, fmt.Errorf("pqueue: Open %q: codec must not be nil", path)
	}

	fsys := opts.filesystem()
	logger := opts.logger()

	file, created, err := openOrCreate(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("pqueue: Open %q: %w", path, err)
	}

	if err := qfs.TryLock(file); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("pqueue: Open %q: %w", path, err)
	}

	hdr, err := loadOrInitHeader(file, created)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("pqueue: Open %q: %w", path, err)
	}

	q := newQueue(path, codec, fsys, file, opts)
	q.count = hdr.count

	logger.Info("pqueue: opened", "path", path, "count", hdr.count, "created", created)

	return q, nil
}

// openOrCreate opens path for read-write, creating it if absent, and
// reports whether it was created.
func openOrCreate(fsys qfs.FS, path string) (qfs.File, bool, error) {
	file, err := fsys.OpenFile(path, os.O_RDWR, 0o644)
	if err == nil {
		return file, false, nil
	}

	if !os.IsNotExist(err) {
		return nil, false, err
	}

	file, err = fsys.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, false, err
	}

	return file, true, nil
}

// loadOrInitHeader writes a fresh header for a newly created file, or
// validates and reads the header of an existing one.
func loadOrInitHeader(file qfs.File, created bool) (fileHeader, error) {
	if created {
		if err := initHeader(file); err != nil {
			return fileHeader{}, err
		}

		return fileHeader{count: 0, headOffset: firstRecord}, nil
	}

	size, err := fileSize(file)
	if err != nil {
		return fileHeader{}, err
	}

	if size < headerSize {
		return fileHeader{}, fmt.Errorf("%w: file is %d bytes, shorter than the %d-byte header", ErrCorrupt, size, headerSize)
	}

	hdr, err := readFileHeader(file)
	if err != nil {
		return fileHeader{}, err
	}

	if int64(hdr.headOffset) < firstRecord || int64(hdr.headOffset) > size {
		return fileHeader{}, fmt.Errorf("%w: head_offset %d out of range [%d, %d]", ErrCorrupt, hdr.headOffset, firstRecord, size)
	}

	if err := validateLiveRegion(file, hdr, size); err != nil {
		return fileHeader{}, err
	}

	return hdr, nil
}

// validateLiveRegion walks hdr.count records from head_offset, confirming
// their framing is internally consistent and fits in the file, and refuses
// a file that holds fewer records than the header counts. Bytes past the
// last counted record (an append whose count bump never landed) are
// truncated away and the file is fsynced, so a later Put appends right
// after the counted records.
func validateLiveRegion(file qfs.File, hdr fileHeader, size int64) error {
	offset := int64(hdr.headOffset)

	var seen uint32

	for seen < hdr.count && offset < size {
		next, err := skipRecordAt(file, offset)
		if err != nil {
			return err
		}

		if next > size {
			return fmt.Errorf("%w: record at offset %d overruns file of size %d", ErrCorrupt, offset, size)
		}

		offset = next
		seen++
	}

	if seen != hdr.count {
		return fmt.Errorf("%w: header count %d does not match %d live records found", ErrCorrupt, hdr.count, seen)
	}

	if offset < size {
		if err := file.Truncate(offset); err != nil {
			return err
		}

		return file.Sync()
	}

	return nil
}
