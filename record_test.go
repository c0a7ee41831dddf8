package pqueue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_FrameRecord_RoundTrips_Through_DecodeRecordLength(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		payload []byte
	}{
		{name: "empty", payload: []byte{}},
		{name: "single byte", payload: []byte{0x42}},
		{name: "ascii", payload: []byte("hello, queue")},
		{name: "binary", payload: []byte{0x00, 0xff, 0x01, 0xfe}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			framed, err := frameRecord(testCase.payload)
			require.NoError(t, err)
			require.Len(t, framed, lengthPrefixSize+len(testCase.payload))

			length := decodeRecordLength(framed[:lengthPrefixSize])
			require.Equal(t, uint32(len(testCase.payload)), length)
			require.Equal(t, testCase.payload, framed[lengthPrefixSize:])
		})
	}
}
