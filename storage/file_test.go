package storage_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pagestore/storage"
)

// Scenario 1 (spec.md §8): storage round-trip. Create t.bin, append three
// empty pages, write 0x41s into page 2, close, reopen, read page 2 back and
// assert it matches, and assert the file now has four pages total.
func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "t.bin")

	require.NoError(t, storage.Create(name))

	f, err := storage.Open(name)
	require.NoError(t, err)
	require.Equal(t, 1, f.TotalPages)

	require.NoError(t, f.AppendEmptyPage())
	require.NoError(t, f.AppendEmptyPage())
	require.NoError(t, f.AppendEmptyPage())
	require.Equal(t, 4, f.TotalPages)

	want := bytes.Repeat([]byte{0x41}, storage.PageSize)
	require.NoError(t, f.WritePage(2, want))
	require.NoError(t, f.Close())

	f2, err := storage.Open(name)
	require.NoError(t, err)
	defer f2.Close()

	require.Equal(t, 4, f2.TotalPages)

	got := make([]byte, storage.PageSize)
	require.NoError(t, f2.ReadPage(2, got))
	require.True(t, bytes.Equal(want, got))
}

func TestCreateRejectsExisting(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "t.bin")
	require.NoError(t, storage.Create(name))
	require.Error(t, storage.Create(name))
}

func TestOpenMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	_, err := storage.Open(filepath.Join(dir, "missing.bin"))
	require.Error(t, err)
}

func TestReadWriteOutOfBounds(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "t.bin")
	require.NoError(t, storage.Create(name))
	f, err := storage.Open(name)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, storage.PageSize)
	require.Error(t, f.ReadPage(1, buf))
	require.Error(t, f.WritePage(-1, buf))
}

func TestEnsureCapacityIsNoopWhenSatisfied(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "t.bin")
	require.NoError(t, storage.Create(name))
	f, err := storage.Open(name)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.EnsureCapacity(1))
	require.Equal(t, 1, f.TotalPages)

	require.NoError(t, f.EnsureCapacity(5))
	require.Equal(t, 5, f.TotalPages)

	info, err := os.Stat(name)
	require.NoError(t, err)
	require.Equal(t, int64(5*storage.PageSize), info.Size())
}

func TestDestroyRemovesFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "t.bin")
	require.NoError(t, storage.Create(name))
	require.NoError(t, storage.Destroy(name))

	_, err := os.Stat(name)
	require.True(t, os.IsNotExist(err))
}
