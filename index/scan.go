package index

import (
	"fmt"
	"sort"

	"pagestore/dberr"
	"pagestore/record"
)

// Scan is a cursor over a tree's keys in ascending order.
type Scan struct {
	tree *Tree
	keys []int32
	pos  int
}

// OpenScan collects every key currently in the tree, sorts them ascending,
// and returns a cursor over that snapshot of keys. Keys inserted later are
// not visited; Next looks each snapshot key up again with Find, so a key
// deleted after OpenScan makes Next return ErrKeyNotFound.
func (t *Tree) OpenScan() (*Scan, error) {
	var keys []int32
	for p := 1; p <= t.lastPage; p++ {
		n, err := t.readNode(p)
		if err != nil {
			return nil, err
		}
		if n.Value1 != emptyKey {
			keys = append(keys, n.Value1)
		}
		if n.Value2 != emptyKey {
			keys = append(keys, n.Value2)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return &Scan{tree: t, keys: keys}, nil
}

// Next returns the RID of the next key in ascending order, or
// ErrNoMoreEntries once the snapshot is exhausted.
func (s *Scan) Next() (record.RID, error) {
	if s.pos >= len(s.keys) {
		return record.RID{}, fmt.Errorf("scan: %w", dberr.ErrNoMoreEntries)
	}
	key := s.keys[s.pos]
	s.pos++
	return s.tree.Find(key)
}

// Close releases the scan's snapshot.
func (s *Scan) Close() error {
	s.keys = nil
	return nil
}
