package pqueue

import "fmt"

// Codec converts values to and from the opaque byte payloads the queue
// persists. The queue never inspects payload contents; Encode and Decode
// are the caller's pure-function collaborators.
//
// Encode is always called with no queue lock held. Decode is called while
// the consumer lock is held but the file lock may already have been
// released, provided the record bytes have been copied out first.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(b []byte) (any, error)
}

// BytesCodec is the identity codec: values must be []byte, stored and
// returned unchanged. Useful for callers who already have an encoding and
// just want FIFO persistence.
type BytesCodec struct{}

// Encode returns v unchanged if it is a []byte, copied to avoid aliasing
// caller-owned memory.
func (BytesCodec) Encode(v any) ([]byte, error) {
	b, ok := v.([]byte)
	if !ok {
		return nil, fmt.Errorf("pqueue: BytesCodec.Encode: value is %T, want []byte", v)
	}

	out := make([]byte, len(b))
	copy(out, b)

	return out, nil
}

// Decode returns b unchanged as a []byte.
func (BytesCodec) Decode(b []byte) (any, error) {
	return b, nil
}
