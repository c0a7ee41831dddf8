package pqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_BytesCodec_Encode_CopiesRatherThanAliases(t *testing.T) {
	t.Parallel()

	var codec BytesCodec

	original := []byte("hello")

	encoded, err := codec.Encode(original)
	require.NoError(t, err)
	require.Equal(t, original, encoded)

	original[0] = 'H'
	require.Equal(t, "hello", string(encoded), "Encode must not alias caller-owned memory")
}

func Test_BytesCodec_Encode_RejectsNonByteSlice(t *testing.T) {
	t.Parallel()

	var codec BytesCodec

	_, err := codec.Encode("not a byte slice")
	require.Error(t, err)
}

func Test_BytesCodec_Decode_ReturnsBytesUnchanged(t *testing.T) {
	t.Parallel()

	var codec BytesCodec

	b := []byte("payload")

	decoded, err := codec.Decode(b)
	require.NoError(t, err)
	require.Equal(t, b, decoded)
}
