package index

import (
	"encoding/binary"
	"fmt"

	"pagestore/buffer"
	"pagestore/dberr"
	"pagestore/record"
	"pagestore/storage"
)

const (
	headerOrderOffset    = 0
	headerLastPageOffset = 4

	// indexBufferFrames and the FIFO policy match the original index
	// manager's openBtree, which calls initBufferPool(bm, idxId, 10,
	// RS_FIFO, NULL) — ten frames, first-in-first-out.
	indexBufferFrames = 10
)

// Tree is an open index file: a one-page header (key order, highest
// occupied node page) followed by node pages. It is not safe for
// concurrent use.
type Tree struct {
	file     *storage.File
	pool     *buffer.Pool
	order    int
	lastPage int
	keyType  record.DataType
}

// CreateIndex writes a fresh, single-page index file. keyType must be
// record.Int — this tree only orders integer keys (spec.md Non-goals
// exclude non-integer keys), matching the original's checkDataType guard
// in createBtree.
func CreateIndex(name string, keyType record.DataType, order int) error {
	if keyType != record.Int {
		return fmt.Errorf("create index %s: %w", name, dberr.ErrUnknownDatatype)
	}
	if err := storage.Create(name); err != nil {
		return err
	}
	file, err := storage.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	buf := make([]byte, storage.PageSize)
	binary.NativeEndian.PutUint32(buf[headerOrderOffset:], uint32(order))
	binary.NativeEndian.PutUint32(buf[headerLastPageOffset:], 0)
	return file.WritePage(0, buf)
}

// OpenIndex opens an existing index file and stands up its buffer pool.
func OpenIndex(name string) (*Tree, error) {
	file, err := storage.Open(name)
	if err != nil {
		return nil, err
	}
	pool := buffer.New(file, indexBufferFrames, buffer.NewFIFO(), nil)

	handle, err := pool.Pin(0)
	if err != nil {
		file.Close()
		return nil, err
	}
	order := int(binary.NativeEndian.Uint32(handle.Data[headerOrderOffset:]))
	lastPage := int(binary.NativeEndian.Uint32(handle.Data[headerLastPageOffset:]))
	if err := pool.Unpin(0); err != nil {
		file.Close()
		return nil, err
	}

	return &Tree{file: file, pool: pool, order: order, lastPage: lastPage, keyType: record.Int}, nil
}

// Close shuts down the tree's buffer pool and file.
func (t *Tree) Close() error {
	if err := t.pool.Shutdown(); err != nil {
		return err
	}
	return t.file.Close()
}

// DeleteIndex removes an index file from disk. The tree must not be open.
func DeleteIndex(name string) error { return storage.Destroy(name) }

// NumNodes returns the number of occupied node pages.
func (t *Tree) NumNodes() int { return t.lastPage }

// NumEntries counts every non-empty key across all node pages.
func (t *Tree) NumEntries() int {
	count := 0
	for p := 1; p <= t.lastPage; p++ {
		n, err := t.readNode(p)
		if err != nil {
			continue
		}
		if n.Value1 != emptyKey {
			count++
		}
		if n.Value2 != emptyKey {
			count++
		}
	}
	return count
}

// KeyType returns the tree's key type — always record.Int.
func (t *Tree) KeyType() record.DataType { return t.keyType }

func (t *Tree) readNode(page int) (node, error) {
	handle, err := t.pool.Pin(page)
	if err != nil {
		return node{}, err
	}
	defer t.pool.Unpin(page)
	return decodeNode(handle.Data), nil
}

func (t *Tree) writeNode(page int, n node) error {
	handle, err := t.pool.Pin(page)
	if err != nil {
		return err
	}
	encodeNode(handle.Data, n)
	if err := t.pool.MarkDirty(page); err != nil {
		t.pool.Unpin(page)
		return err
	}
	return t.pool.Unpin(page)
}

func (t *Tree) persistHeader() error {
	handle, err := t.pool.Pin(0)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(handle.Data[headerLastPageOffset:], uint32(t.lastPage))
	if err := t.pool.MarkDirty(0); err != nil {
		t.pool.Unpin(0)
		return err
	}
	return t.pool.Unpin(0)
}

// Find returns the RID of the first entry carrying key, scanning node
// pages in ascending order, or ErrKeyNotFound if no entry carries that
// key. If key was inserted more than once, the entry found first in page
// order is returned, not necessarily the most recent insertion.
func (t *Tree) Find(key int32) (record.RID, error) {
	for p := 1; p <= t.lastPage; p++ {
		n, err := t.readNode(p)
		if err != nil {
			return record.RID{}, err
		}
		if n.Value1 == key {
			return toRID(n.Left), nil
		}
		if n.Value2 == key {
			return toRID(n.Mid), nil
		}
	}
	return record.RID{}, fmt.Errorf("find key %d: %w", key, dberr.ErrKeyNotFound)
}

// Insert adds (key, rid). Each node page holds at most two keys; once the
// highest-numbered page is full, insertion allocates a new page rather
// than splitting — the original's linked-list-of-pairs behaviour
// (spec.md §9), preserved bug-compatibly rather than "fixed" into a real
// B-tree.
func (t *Tree) Insert(key int32, rid record.RID) error {
	r := fromRID(rid)

	if t.lastPage == 0 {
		if err := t.file.EnsureCapacity(2); err != nil {
			return err
		}
		n := node{Mother: 0, Leaf: 1, Left: r, Value1: key, Mid: emptyRID, Value2: emptyKey, Right: emptyRID}
		if err := t.writeNode(1, n); err != nil {
			return err
		}
		t.lastPage = 1
		return t.persistHeader()
	}

	cur, err := t.readNode(t.lastPage)
	if err != nil {
		return err
	}

	if cur.Value2 != emptyKey {
		newPage := t.lastPage + 1
		if err := t.file.EnsureCapacity(newPage + 1); err != nil {
			return err
		}
		n := node{Mother: 0, Leaf: 1, Left: r, Value1: key, Mid: emptyRID, Value2: emptyKey, Right: emptyRID}
		if err := t.writeNode(newPage, n); err != nil {
			return err
		}
		t.lastPage = newPage
		return t.persistHeader()
	}

	cur.Value2 = key
	cur.Mid = r
	if err := t.writeNode(t.lastPage, cur); err != nil {
		return err
	}
	return t.persistHeader()
}

// Delete removes key's entry. If key lived on the highest-numbered page,
// that page's remaining slot (if any) shifts down and the page is freed
// once empty. Otherwise the highest-numbered page's last occupied entry
// is relocated into the vacated slot, keeping node pages dense.
func (t *Tree) Delete(key int32) error {
	foundPage, slotNum, err := t.locate(key)
	if err != nil {
		return err
	}

	if foundPage == t.lastPage {
		return t.deleteFromLastPage(slotNum)
	}

	lastNode, err := t.readNode(t.lastPage)
	if err != nil {
		return err
	}

	var movedKey int32
	var movedRID ridRaw
	lastPageEmptied := false
	if lastNode.Value2 != emptyKey {
		movedKey, movedRID = lastNode.Value2, lastNode.Mid
		lastNode.Value2, lastNode.Mid = emptyKey, emptyRID
	} else {
		movedKey, movedRID = lastNode.Value1, lastNode.Left
		lastNode.Value1, lastNode.Left = emptyKey, emptyRID
		lastPageEmptied = true
	}
	if !lastPageEmptied {
		if err := t.writeNode(t.lastPage, lastNode); err != nil {
			return err
		}
	}

	target, err := t.readNode(foundPage)
	if err != nil {
		return err
	}
	if slotNum == 1 {
		target.Value1, target.Left = movedKey, movedRID
	} else {
		target.Value2, target.Mid = movedKey, movedRID
	}
	if err := t.writeNode(foundPage, target); err != nil {
		return err
	}

	if lastPageEmptied {
		t.lastPage--
	}
	return t.persistHeader()
}

func (t *Tree) deleteFromLastPage(slotNum int) error {
	n, err := t.readNode(t.lastPage)
	if err != nil {
		return err
	}

	if slotNum == 1 {
		if n.Value2 != emptyKey {
			n.Value1, n.Left = n.Value2, n.Mid
			n.Value2, n.Mid = emptyKey, emptyRID
			if err := t.writeNode(t.lastPage, n); err != nil {
				return err
			}
		} else {
			t.lastPage--
		}
	} else {
		n.Value2, n.Mid = emptyKey, emptyRID
		if err := t.writeNode(t.lastPage, n); err != nil {
			return err
		}
	}
	return t.persistHeader()
}

func (t *Tree) locate(key int32) (page int, slotNum int, err error) {
	for p := 1; p <= t.lastPage; p++ {
		n, err := t.readNode(p)
		if err != nil {
			return 0, 0, err
		}
		if n.Value1 == key {
			return p, 1, nil
		}
		if n.Value2 == key {
			return p, 2, nil
		}
	}
	return 0, 0, fmt.Errorf("delete key %d: %w", key, dberr.ErrKeyNotFound)
}
