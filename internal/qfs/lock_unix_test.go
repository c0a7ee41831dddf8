//go:build unix

package qfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_TryLock_SecondAttemptOnSameFileFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.bin")

	r := NewReal()

	a, err := r.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, TryLock(a))

	b, err := r.OpenFile(path, os.O_RDWR, 0o644)
	require.NoError(t, err)
	defer b.Close()

	err = TryLock(b)
	require.ErrorIs(t, err, ErrAlreadyLocked)
}

func Test_TryLock_SucceedsAgainAfterUnlock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.bin")

	r := NewReal()

	a, err := r.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, TryLock(a))
	require.NoError(t, Unlock(a))

	b, err := r.OpenFile(path, os.O_RDWR, 0o644)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, TryLock(b))
}
