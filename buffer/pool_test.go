package buffer_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pagestore/buffer"
	"pagestore/storage"
)

func newFile(t *testing.T, pages int) *storage.File {
	t.Helper()
	dir := t.TempDir()
	name := filepath.Join(dir, "t.bin")
	require.NoError(t, storage.Create(name))
	f, err := storage.Open(name)
	require.NoError(t, err)
	for f.TotalPages < pages {
		require.NoError(t, f.AppendEmptyPage())
	}
	t.Cleanup(func() { f.Close() })
	return f
}

// Scenario 2 (spec.md §8): LRU eviction order over a 3-frame pool backed
// by an 8-page file.
func TestLRUEvictionOrder(t *testing.T) {
	f := newFile(t, 8)
	pool := buffer.New(f, 3, buffer.NewLRU(), nil)

	for _, pg := range []int{1, 2, 3} {
		_, err := pool.Pin(pg)
		require.NoError(t, err)
	}
	for _, pg := range []int{1, 2, 3} {
		require.NoError(t, pool.Unpin(pg))
	}

	_, err := pool.Pin(4) // evicts page 1 (oldest)
	require.NoError(t, err)

	_, err = pool.Pin(2) // hit, now most recent
	require.NoError(t, err)

	_, err = pool.Pin(5) // evicts page 3 (oldest unpinned)
	require.NoError(t, err)

	require.Equal(t, []int{4, 2, 5}, pool.FrameContents())
	require.Equal(t, 5, pool.ReadCount())
	require.Equal(t, 0, pool.WriteCount())
}

func TestFIFOEvictsOldestInsertionRegardlessOfAccess(t *testing.T) {
	f := newFile(t, 8)
	pool := buffer.New(f, 2, buffer.NewFIFO(), nil)

	_, err := pool.Pin(1)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(1))
	_, err = pool.Pin(2)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(2))

	// Touching page 1 again must not save it from FIFO eviction.
	_, err = pool.Pin(1)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(1))

	_, err = pool.Pin(3)
	require.NoError(t, err)

	require.ElementsMatch(t, []int{2, 3}, pool.FrameContents())
}

func TestEvictionFailsWhenAllFramesPinned(t *testing.T) {
	f := newFile(t, 8)
	pool := buffer.New(f, 2, buffer.NewLRU(), nil)

	_, err := pool.Pin(1)
	require.NoError(t, err)
	_, err = pool.Pin(2)
	require.NoError(t, err)

	_, err = pool.Pin(3)
	require.Error(t, err)
}

func TestMarkDirtyFlushesOnEviction(t *testing.T) {
	f := newFile(t, 8)
	pool := buffer.New(f, 1, buffer.NewLRU(), nil)

	h, err := pool.Pin(1)
	require.NoError(t, err)
	h.Data[0] = 0x42
	require.NoError(t, pool.MarkDirty(1))
	require.NoError(t, pool.Unpin(1))

	_, err = pool.Pin(2)
	require.NoError(t, err)
	require.Equal(t, 1, pool.WriteCount())

	buf := make([]byte, storage.PageSize)
	require.NoError(t, f.ReadPage(1, buf))
	require.Equal(t, byte(0x42), buf[0])
}

func TestShutdownFailsWithPinnedPages(t *testing.T) {
	f := newFile(t, 8)
	pool := buffer.New(f, 2, buffer.NewLRU(), nil)

	_, err := pool.Pin(1)
	require.NoError(t, err)

	require.Error(t, pool.Shutdown())
	require.NoError(t, pool.Unpin(1))
	require.NoError(t, pool.Shutdown())
}

func TestCLOCKGivesSecondChance(t *testing.T) {
	f := newFile(t, 8)
	pool := buffer.New(f, 2, buffer.NewCLOCK(), nil)

	_, err := pool.Pin(1)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(1))
	_, err = pool.Pin(2)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(2))

	// Re-pinning page 1 sets its reference bit again, so the first clock
	// sweep should skip it and take page 2 instead.
	_, err = pool.Pin(1)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(1))

	_, err = pool.Pin(3)
	require.NoError(t, err)

	require.ElementsMatch(t, []int{1, 3}, pool.FrameContents())
}

func TestLFUEvictsLeastFrequentlyUsed(t *testing.T) {
	f := newFile(t, 8)
	pool := buffer.New(f, 2, buffer.NewLFU(), nil)

	_, err := pool.Pin(1)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(1))
	_, err = pool.Pin(1)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(1))

	_, err = pool.Pin(2)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(2))

	_, err = pool.Pin(3)
	require.NoError(t, err)

	require.ElementsMatch(t, []int{1, 3}, pool.FrameContents())
}
