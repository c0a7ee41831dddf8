package pqueue

import (
	"encoding/binary"
	"fmt"
	"math"
)

// lengthPrefixSize is the size, in bytes, of a record's length prefix.
const lengthPrefixSize = 4

// maxPayloadSize is the largest payload frameRecord will accept: a length
// prefix is a little-endian uint32, so payloads must fit in 2^32-1 bytes.
const maxPayloadSize = math.MaxUint32

// frameRecord prepends a little-endian uint32 length prefix to payload.
//
// Returns [ErrPayloadTooLarge] if payload does not fit in a uint32.
func frameRecord(payload []byte) ([]byte, error) {
	if len(payload) > maxPayloadSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(payload))
	}

	buf := make([]byte, lengthPrefixSize+len(payload))
	binary.LittleEndian.PutUint32(buf[:lengthPrefixSize], uint32(len(payload))) //nolint:gosec // bounds checked above
	copy(buf[lengthPrefixSize:], payload)

	return buf, nil
}

// decodeRecordLength reads a little-endian uint32 length prefix from buf.
// buf must be at least lengthPrefixSize bytes.
func decodeRecordLength(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[:lengthPrefixSize])
}
