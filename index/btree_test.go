package index_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pagestore/dberr"
	"pagestore/index"
	"pagestore/record"
)

func newIndex(t *testing.T) *index.Tree {
	t.Helper()
	name := filepath.Join(t.TempDir(), "idx.bin")
	require.NoError(t, index.CreateIndex(name, record.Int, 2))
	tree, err := index.OpenIndex(name)
	require.NoError(t, err)
	t.Cleanup(func() { tree.Close() })
	return tree
}

// Scenario 5 (spec.md §8): index insert/find/delete.
func TestIndexInsertFindDelete(t *testing.T) {
	tree := newIndex(t)

	require.NoError(t, tree.Insert(10, record.RID{Page: 1, Slot: 0}))
	require.NoError(t, tree.Insert(20, record.RID{Page: 1, Slot: 1}))
	require.NoError(t, tree.Insert(30, record.RID{Page: 2, Slot: 0}))

	rid, err := tree.Find(20)
	require.NoError(t, err)
	require.Equal(t, record.RID{Page: 1, Slot: 1}, rid)

	require.NoError(t, tree.Delete(10))
	_, err = tree.Find(10)
	require.ErrorIs(t, err, dberr.ErrKeyNotFound)

	require.Equal(t, 2, tree.NumEntries())
}

// Scenario 6 (spec.md §8): ordered scan.
func TestIndexOrderedScanYieldsAscendingKeys(t *testing.T) {
	tree := newIndex(t)

	inserts := map[int32]record.RID{
		50: {Page: 5, Slot: 0},
		20: {Page: 2, Slot: 0},
		40: {Page: 4, Slot: 0},
		10: {Page: 1, Slot: 0},
		30: {Page: 3, Slot: 0},
	}
	for _, key := range []int32{50, 20, 40, 10, 30} {
		require.NoError(t, tree.Insert(key, inserts[key]))
	}

	scan, err := tree.OpenScan()
	require.NoError(t, err)

	want := []int32{10, 20, 30, 40, 50}
	for _, key := range want {
		rid, err := scan.Next()
		require.NoError(t, err)
		require.Equal(t, inserts[key], rid)
	}

	_, err = scan.Next()
	require.ErrorIs(t, err, dberr.ErrNoMoreEntries)
}

func TestCreateIndexRejectsNonIntKey(t *testing.T) {
	name := filepath.Join(t.TempDir(), "idx.bin")
	err := index.CreateIndex(name, record.String, 2)
	require.ErrorIs(t, err, dberr.ErrUnknownDatatype)
}
