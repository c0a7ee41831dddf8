package pqueue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/pqueue/internal/qfs"
)

func openTestFile(t *testing.T) qfs.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "queue.pq")

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	return f
}

func Test_InitHeader_Writes_Zero_Count_And_FirstRecord_Offset(t *testing.T) {
	t.Parallel()

	f := openTestFile(t)

	require.NoError(t, initHeader(f))

	hdr, err := readFileHeader(f)
	require.NoError(t, err)
	require.Equal(t, fileHeader{count: 0, headOffset: firstRecord}, hdr)
}

func Test_AppendRecordDurable_Then_ReadRecordAt_RoundTrips(t *testing.T) {
	t.Parallel()

	f := openTestFile(t)
	require.NoError(t, initHeader(f))

	payload := []byte("first record")

	require.NoError(t, appendRecordDurable(f, firstRecord, payload))

	got, next, err := readRecordAt(f, firstRecord)
	require.NoError(t, err)
	require.Equal(t, payload, got)
	require.Equal(t, int64(firstRecord+lengthPrefixSize+len(payload)), next)
}

func Test_SkipRecordAt_Advances_Without_Reading_Payload(t *testing.T) {
	t.Parallel()

	f := openTestFile(t)
	require.NoError(t, initHeader(f))

	require.NoError(t, appendRecordDurable(f, firstRecord, []byte("abc")))

	next, err := skipRecordAt(f, firstRecord)
	require.NoError(t, err)
	require.Equal(t, int64(firstRecord+lengthPrefixSize+3), next)
}

func Test_WriteHeaderCount_And_WriteHeaderHead_Update_Independent_Fields(t *testing.T) {
	t.Parallel()

	f := openTestFile(t)
	require.NoError(t, initHeader(f))

	require.NoError(t, writeHeaderCount(f, 5))
	require.NoError(t, writeHeaderHead(f, 99))

	hdr, err := readFileHeader(f)
	require.NoError(t, err)
	require.Equal(t, fileHeader{count: 5, headOffset: 99}, hdr)
}

func Test_ReadFileHeader_Fails_On_Truncated_File(t *testing.T) {
	t.Parallel()

	f := openTestFile(t)

	_, err := f.WriteAt([]byte{1, 2, 3}, 0)
	require.NoError(t, err)

	_, err = readFileHeader(f)
	require.ErrorIs(t, err, ErrCorrupt)
}

func Test_MultipleRecords_Append_And_Sequential_Read(t *testing.T) {
	t.Parallel()

	f := openTestFile(t)
	require.NoError(t, initHeader(f))

	records := [][]byte{[]byte("one"), []byte("two"), []byte("three")}

	offset := int64(firstRecord)

	for _, r := range records {
		require.NoError(t, appendRecordDurable(f, offset, r))

		size, err := fileSize(f)
		require.NoError(t, err)
		offset = size
	}

	readOffset := int64(firstRecord)

	for _, want := range records {
		got, next, err := readRecordAt(f, readOffset)
		require.NoError(t, err)
		require.Equal(t, want, got)
		readOffset = next
	}
}
