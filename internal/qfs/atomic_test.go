package qfs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_AtomicWriter_Write_CreatesDestinationWithContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dst := filepath.Join(dir, "out.bin")

	w := NewAtomicWriter(NewReal())

	require.NoError(t, w.Write(dst, bytes.NewReader([]byte("payload")), 0o644))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "payload", string(got))
}

func Test_AtomicWriter_Write_LeavesNoTempFileOnSuccess(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dst := filepath.Join(dir, "out.bin")

	w := NewAtomicWriter(NewReal())

	require.NoError(t, w.Write(dst, bytes.NewReader([]byte("x")), 0o644))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "out.bin", entries[0].Name())
}

func Test_AtomicWriter_Write_DoesNotTouchDestinationOnCopyFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dst := filepath.Join(dir, "out.bin")

	require.NoError(t, os.WriteFile(dst, []byte("original"), 0o644))

	chaos := NewChaos(NewReal(), 1, ChaosConfig{FailAfter: map[ChaosOp]int{ChaosOpWrite: 1}})

	w := NewAtomicWriter(chaos)

	err := w.Write(dst, bytes.NewReader([]byte("new content")), 0o644)
	require.Error(t, err)

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "original", string(got), "destination must be untouched when the temp write fails")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "failed write must clean up its temp file")
}

func Test_AtomicWriter_Write_RejectsPathWithNoBaseName(t *testing.T) {
	t.Parallel()

	w := NewAtomicWriter(NewReal())

	err := w.Write("/", bytes.NewReader([]byte("x")), 0o644)
	require.Error(t, err)
}

func Test_RandomSuffix_ProducesDistinctValues(t *testing.T) {
	t.Parallel()

	a, err := randomSuffix()
	require.NoError(t, err)

	b, err := randomSuffix()
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.Len(t, a, 16)
}
