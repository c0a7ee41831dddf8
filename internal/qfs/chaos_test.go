package qfs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Chaos_FailAfter_FailsExactCallDeterministically(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.bin")

	chaos := NewChaos(NewReal(), 1, ChaosConfig{FailAfter: map[ChaosOp]int{ChaosOpWrite: 2}})

	f, err := chaos.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)

	defer f.Close()

	_, err = f.WriteAt([]byte("first"), 0)
	require.NoError(t, err, "1st write must succeed")

	_, err = f.WriteAt([]byte("second"), 5)
	require.Error(t, err, "2nd write must fail")
	require.True(t, IsChaosErr(err))

	_, err = f.WriteAt([]byte("third"), 11)
	require.NoError(t, err, "failures are one-shot, 3rd write must succeed")
}

func Test_Chaos_RateBased_IsDeterministicForAFixedSeed(t *testing.T) {
	t.Parallel()

	run := func(seed int64) []bool {
		chaos := NewChaos(NewReal(), seed, ChaosConfig{WriteFailRate: 0.5})

		path := filepath.Join(t.TempDir(), "f.bin")

		f, err := chaos.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
		require.NoError(t, err)
		defer f.Close()

		var outcomes []bool
		for i := range 20 {
			_, err := f.WriteAt([]byte("x"), int64(i))
			outcomes = append(outcomes, err == nil)
		}

		return outcomes
	}

	require.Equal(t, run(42), run(42))
}

func Test_Chaos_Counts_TracksPerOpCallCount(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "f.bin")

	chaos := NewChaos(NewReal(), 1, ChaosConfig{})

	f, err := chaos.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.WriteAt([]byte("a"), 0)
	require.NoError(t, err)
	_, err = f.WriteAt([]byte("b"), 1)
	require.NoError(t, err)
	require.NoError(t, f.Sync())

	counts := chaos.Counts()
	require.Equal(t, int64(2), counts[ChaosOpWrite])
	require.Equal(t, int64(1), counts[ChaosOpSync])
}

func Test_Chaos_Rename_InjectsFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))

	chaos := NewChaos(NewReal(), 1, ChaosConfig{FailAfter: map[ChaosOp]int{ChaosOpRename: 1}})

	err := chaos.Rename(src, dst)
	require.Error(t, err)
	require.True(t, IsChaosErr(err))

	_, err = os.Stat(src)
	require.NoError(t, err, "injected rename failure must not move the file")
}
