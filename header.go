package pqueue

import "encoding/binary"

// File layout constants.
const (
	headerSize  = 8
	countOff    = 0
	headOff     = 4
	firstRecord = headerSize
)

// fileHeader is the 8-byte preamble: count of live records, and the byte
// offset of the first live record.
type fileHeader struct {
	count      uint32
	headOffset uint32
}

// encode serializes h to an 8-byte little-endian buffer.
func (h fileHeader) encode() []byte {
	buf := make([]byte, headerSize)
	binary.LittleEndian.PutUint32(buf[countOff:], h.count)
	binary.LittleEndian.PutUint32(buf[headOff:], h.headOffset)

	return buf
}

// decodeHeader parses an 8-byte buffer into a fileHeader.
func decodeHeader(buf []byte) fileHeader {
	return fileHeader{
		count:      binary.LittleEndian.Uint32(buf[countOff:]),
		headOffset: binary.LittleEndian.Uint32(buf[headOff:]),
	}
}
