package record

import (
	"fmt"

	"pagestore/dberr"
	"pagestore/expr"
)

// Scan is a cursor over a table's slots, filtered by an optional predicate.
// Unlike the original's startScan/next (spec.md §9), it never reopens its
// table under a different name and never mutates the table's tuple count —
// it only reads the table passed to StartScan. It does not gate on the
// tombstone byte either: a deleted slot's stale bytes are still handed to
// the predicate, matching the original next()'s behaviour of evaluating the
// condition directly against whatever bytes follow the skipped tombstone
// byte. Deleted rows can therefore resurface in a scan; this is accepted,
// documented behaviour (spec.md §4.3), not a bug to fix here.
type Scan struct {
	table *Table
	pred  expr.Expr
	page  int
	slot  int
	done  bool
}

// StartScan returns a cursor over table's slots. A nil pred matches every
// slot, occupied or not.
func (t *Table) StartScan(pred expr.Expr) (*Scan, error) {
	return &Scan{table: t, pred: pred, page: 1, slot: 0}, nil
}

// Next advances the cursor to the next slot satisfying the predicate and
// returns its tuple, or ErrNoMoreTuples once every page has been examined.
func (s *Scan) Next() (*Tuple, error) {
	if s.done {
		return nil, fmt.Errorf("scan: %w", dberr.ErrNoMoreTuples)
	}

	t := s.table
	for s.page < t.file.TotalPages {
		handle, err := t.pool.Pin(s.page)
		if err != nil {
			return nil, err
		}

		for ; s.slot < t.slotsPerPage; s.slot++ {
			off := slotOffset(s.slot, t.recordSize)
			slotBytes := handle.Data[off : off+t.recordSize]

			if s.pred != nil {
				v, err := expr.Eval(slotBytes, t.schema, s.pred)
				if err != nil {
					t.pool.Unpin(s.page)
					return nil, err
				}
				if !v.BoolVal {
					continue
				}
			}

			data := make([]byte, t.recordSize)
			copy(data, slotBytes)
			id := RID{Page: s.page, Slot: s.slot}
			s.slot++
			if err := t.pool.Unpin(s.page); err != nil {
				return nil, err
			}
			return &Tuple{ID: id, Data: data}, nil
		}

		if err := t.pool.Unpin(s.page); err != nil {
			return nil, err
		}
		s.page++
		s.slot = 0
	}

	s.done = true
	return nil, fmt.Errorf("scan: %w", dberr.ErrNoMoreTuples)
}

// Close releases the scan. It holds no resources of its own beyond the
// cursor state, so Close is a no-op kept for symmetry with other layers'
// open/close lifecycles.
func (s *Scan) Close() error { return nil }
