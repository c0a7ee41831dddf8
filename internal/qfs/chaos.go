package qfs

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sync"
	"syscall"
)

// ChaosOp identifies an operation [Chaos] can fail, for use with
// [ChaosConfig.FailAfter].
type ChaosOp string

// Valid ChaosOp values. ChaosOpOpenFile is never failed: [Chaos.OpenFile]
// does not inject faults into the open call itself.
const (
	ChaosOpOpenFile ChaosOp = "openfile"
	ChaosOpWrite    ChaosOp = "file.write"
	ChaosOpSync     ChaosOp = "file.sync"
	ChaosOpClose    ChaosOp = "file.close"
	ChaosOpRename   ChaosOp = "rename"
	ChaosOpStat     ChaosOp = "stat"
)

// ChaosConfig controls fault injection.
//
// Two independent mechanisms are available:
//   - Rate-based (*Rate fields): each matching call independently fails
//     with the given probability. Good for broad fuzz-style coverage.
//   - Deterministic (FailAfter): the Nth call (1-indexed) to the named op
//     fails, every time, regardless of rate. Good for pinning down an exact
//     crash-recovery scenario, like a crash after the data write but before
//     the header count bump.
//
// The zero value disables all fault injection.
type ChaosConfig struct {
	WriteFailRate  float64
	SyncFailRate   float64
	CloseFailRate  float64
	RenameFailRate float64

	// FailAfter maps an op to the 1-indexed call count on which it should
	// fail. A zero or absent entry never deterministically fails.
	FailAfter map[ChaosOp]int
}

// ChaosError marks an error as intentionally injected by [Chaos].
// Use [IsChaosErr] to distinguish injected faults from real OS errors.
type ChaosError struct {
	Err error
}

func (e *ChaosError) Error() string { return "qfs: injected fault: " + e.Err.Error() }
func (e *ChaosError) Unwrap() error { return e.Err }

// IsChaosErr reports whether err was injected by [Chaos].
func IsChaosErr(err error) bool {
	var ce *ChaosError
	return errors.As(err, &ce)
}

// Chaos wraps an [FS] and injects failures for testing crash-recovery
// behavior without a real crash.
type Chaos struct {
	underlying FS
	rng        *rand.Rand
	cfg        ChaosConfig

	mu     sync.Mutex
	counts map[ChaosOp]int64
}

// NewChaos wraps fs with fault injection controlled by cfg. seed makes
// rate-based injection reproducible.
func NewChaos(fs FS, seed int64, cfg ChaosConfig) *Chaos {
	return &Chaos{
		underlying: fs,
		rng:        rand.New(rand.NewSource(seed)),
		cfg:        cfg,
		counts:     make(map[ChaosOp]int64),
	}
}

// shouldFail reports whether op should fail on this call, consuming one
// call count for op regardless of the outcome.
func (c *Chaos) shouldFail(op ChaosOp, rate float64) bool {
	c.mu.Lock()
	c.counts[op]++
	n := c.counts[op]
	c.mu.Unlock()

	if after, ok := c.cfg.FailAfter[op]; ok && after > 0 && n == int64(after) {
		return true
	}

	if rate <= 0 {
		return false
	}

	c.mu.Lock()
	roll := c.rng.Float64()
	c.mu.Unlock()

	return roll < rate
}

func injectedIOErr(op string) error {
	return &ChaosError{Err: &os.PathError{Op: op, Err: syscall.EIO}}
}

// OpenFile mirrors [Real.OpenFile]; injection only affects writes made
// through the returned file, not the open call itself (open-phase faults
// are not part of the durability contract being exercised here).
func (c *Chaos) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	f, err := c.underlying.OpenFile(path, flag, perm)
	if err != nil {
		return nil, err
	}

	return &chaosFile{File: f, chaos: c}, nil
}

// Remove passes through unchanged; deletions are not part of the durability
// contract under test.
func (c *Chaos) Remove(path string) error {
	return c.underlying.Remove(path)
}

// Rename injects [ChaosOpRename] failures before delegating.
func (c *Chaos) Rename(oldpath, newpath string) error {
	if c.shouldFail(ChaosOpRename, c.cfg.RenameFailRate) {
		return &ChaosError{Err: &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EIO}}
	}

	return c.underlying.Rename(oldpath, newpath)
}

// Stat injects [ChaosOpStat] failures before delegating.
func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	if c.shouldFail(ChaosOpStat, 0) {
		return nil, injectedIOErr("stat")
	}

	return c.underlying.Stat(path)
}

var _ FS = (*Chaos)(nil)

// chaosFile wraps a [File], injecting write/sync/close faults.
type chaosFile struct {
	File
	chaos *Chaos
}

func (f *chaosFile) Write(p []byte) (int, error) {
	if f.chaos.shouldFail(ChaosOpWrite, f.chaos.cfg.WriteFailRate) {
		return 0, injectedIOErr("write")
	}

	return f.File.Write(p)
}

func (f *chaosFile) WriteAt(p []byte, off int64) (int, error) {
	if f.chaos.shouldFail(ChaosOpWrite, f.chaos.cfg.WriteFailRate) {
		return 0, injectedIOErr("write")
	}

	return f.File.WriteAt(p, off)
}

func (f *chaosFile) Sync() error {
	if f.chaos.shouldFail(ChaosOpSync, f.chaos.cfg.SyncFailRate) {
		return injectedIOErr("fsync")
	}

	return f.File.Sync()
}

func (f *chaosFile) Close() error {
	if f.chaos.shouldFail(ChaosOpClose, f.chaos.cfg.CloseFailRate) {
		// The real descriptor is still closed to avoid leaking it in tests.
		_ = f.File.Close()
		return injectedIOErr("close")
	}

	return f.File.Close()
}

var _ File = (*chaosFile)(nil)
var _ io.ReaderAt = (*chaosFile)(nil)

// Counts returns a snapshot of how many times each op has been called.
func (c *Chaos) Counts() map[ChaosOp]int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[ChaosOp]int64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}

	return out
}
