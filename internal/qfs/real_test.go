package qfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Real_OpenFile_CreatesAndWritesAndReads(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.bin")

	r := NewReal()

	f, err := r.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	defer f.Close()

	_, err = f.WriteAt([]byte("hello"), 0)
	require.NoError(t, err)

	buf := make([]byte, 5)
	_, err = f.ReadAt(buf, 0)
	require.NoError(t, err)
	require.Equal(t, "hello", string(buf))
}

func Test_Real_Remove_IsNoopOnMissingFile(t *testing.T) {
	t.Parallel()

	r := NewReal()

	err := r.Remove(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
}

func Test_Real_Rename_MovesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	r := NewReal()

	f, err := r.OpenFile(src, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, r.Rename(src, dst))

	_, err = r.Stat(dst)
	require.NoError(t, err)

	_, err = r.Stat(src)
	require.True(t, os.IsNotExist(err))
}
