package pqueue

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func Test_FileHeader_RoundTrips_Through_Encode_Decode(t *testing.T) {
	t.Parallel()

	testCases := []fileHeader{
		{count: 0, headOffset: firstRecord},
		{count: 1, headOffset: firstRecord},
		{count: 1000, headOffset: 123456},
		{count: 0xffffffff, headOffset: 0xffffffff},
	}

	for _, hdr := range testCases {
		encoded := hdr.encode()
		require.Len(t, encoded, headerSize)

		if diff := cmp.Diff(hdr, decodeHeader(encoded), cmp.AllowUnexported(fileHeader{})); diff != "" {
			t.Errorf("decoded header differs from original (-want +got):\n%s", diff)
		}
	}
}

func Test_FileHeader_Encode_Places_Fields_At_Documented_Offsets(t *testing.T) {
	t.Parallel()

	hdr := fileHeader{count: 1, headOffset: 2}
	encoded := hdr.encode()

	require.Equal(t, []byte{1, 0, 0, 0}, encoded[countOff:countOff+4])
	require.Equal(t, []byte{2, 0, 0, 0}, encoded[headOff:headOff+4])
}
