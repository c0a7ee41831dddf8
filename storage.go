package pqueue

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/calvinalkan/pqueue/internal/qfs"
)

// This file is the storage engine: positional reads/writes,
// append, and durable header updates against a single qfs.File. Every
// exported-from-package-internal helper here takes the file handle
// explicitly rather than reaching into *Queue state, so the durability
// ordering can be exercised directly against a qfs.Chaos double in tests
// without going through the full concurrency controller.
//
// Durability rules: every append fsyncs the data before any
// header update; header count is bumped only after the data it accounts
// for is durable; header head_offset is bumped only after the reads it
// accounts for have completed. A crash between these steps is recoverable
// precisely because the ordering, not the count of fsyncs, is
// what's load-bearing.

// initHeader writes a fresh (0, firstRecord) header to f and fsyncs it.
func initHeader(f qfs.File) error {
	h := fileHeader{count: 0, headOffset: firstRecord}

	if _, err := f.WriteAt(h.encode(), 0); err != nil {
		return fmt.Errorf("pqueue: write initial header: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("pqueue: sync initial header: %w", err)
	}

	return nil
}

// readFileHeader reads and decodes the 8-byte header from f.
func readFileHeader(f qfs.File) (fileHeader, error) {
	buf := make([]byte, headerSize)

	if _, err := io.ReadFull(io.NewSectionReader(f, 0, headerSize), buf); err != nil {
		return fileHeader{}, fmt.Errorf("%w: reading header: %v", ErrCorrupt, err) //nolint:errorlint // wrapping classification, not the cause
	}

	return decodeHeader(buf), nil
}

// writeHeaderCount durably updates the count field of the header.
func writeHeaderCount(f qfs.File, n uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, n)

	if _, err := f.WriteAt(buf, countOff); err != nil {
		return fmt.Errorf("pqueue: write header count: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("pqueue: sync header count: %w", err)
	}

	return nil
}

// writeHeaderHead durably updates the head_offset field of the header.
func writeHeaderHead(f qfs.File, off uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, off)

	if _, err := f.WriteAt(buf, headOff); err != nil {
		return fmt.Errorf("pqueue: write header head_offset: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("pqueue: sync header head_offset: %w", err)
	}

	return nil
}

// fileSize returns the current size of f.
func fileSize(f qfs.File) (int64, error) {
	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("pqueue: stat: %w", err)
	}

	return info.Size(), nil
}

// appendRecordDurable writes payload, framed, at the given offset (the
// current file size) and fsyncs it before returning. The header is NOT
// touched here: callers must bump and fsync the count afterwards,
// preserving the "data durable before header" ordering.
func appendRecordDurable(f qfs.File, offset int64, payload []byte) error {
	framed, err := frameRecord(payload)
	if err != nil {
		return err
	}

	if _, err := f.WriteAt(framed, offset); err != nil {
		return fmt.Errorf("pqueue: append record: %w", err)
	}

	if err := f.Sync(); err != nil {
		return fmt.Errorf("pqueue: sync appended record: %w", err)
	}

	return nil
}

// readRecordAt reads one framed record at offset, returning its payload
// and the offset immediately following it.
func readRecordAt(f qfs.File, offset int64) (payload []byte, next int64, err error) {
	lenBuf := make([]byte, lengthPrefixSize)
	if _, err := f.ReadAt(lenBuf, offset); err != nil {
		return nil, 0, fmt.Errorf("%w: truncated record length at offset %d: %v", ErrCorrupt, offset, err) //nolint:errorlint // classification wrap
	}

	length := decodeRecordLength(lenBuf)

	payload = make([]byte, length)
	if length > 0 {
		if _, err := f.ReadAt(payload, offset+lengthPrefixSize); err != nil {
			return nil, 0, fmt.Errorf("%w: truncated record payload at offset %d: %v", ErrCorrupt, offset, err) //nolint:errorlint // classification wrap
		}
	}

	return payload, offset + lengthPrefixSize + int64(length), nil
}

// skipRecordAt reads only a record's length prefix at offset and returns
// the offset immediately following the record, without reading the payload.
// Used by Delete, which discards records without decoding them.
func skipRecordAt(f qfs.File, offset int64) (next int64, err error) {
	lenBuf := make([]byte, lengthPrefixSize)
	if _, err := f.ReadAt(lenBuf, offset); err != nil {
		return 0, fmt.Errorf("%w: truncated record length at offset %d: %v", ErrCorrupt, offset, err) //nolint:errorlint // classification wrap
	}

	length := decodeRecordLength(lenBuf)

	return offset + lengthPrefixSize + int64(length), nil
}
