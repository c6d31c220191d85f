// Package index implements the deliberately limited B-tree of spec.md
// §4.4: an ordered int32-key to record.RID map backed by one node per
// page, each node holding at most two keys, with no node splitting.
package index

import (
	"bytes"
	"encoding/binary"

	"pagestore/record"
)

const emptyKey = -1

type ridRaw struct {
	Page int32
	Slot int32
}

func toRID(r ridRaw) record.RID  { return record.RID{Page: int(r.Page), Slot: int(r.Slot)} }
func fromRID(r record.RID) ridRaw { return ridRaw{Page: int32(r.Page), Slot: int32(r.Slot)} }

var emptyRID = ridRaw{Page: emptyKey, Slot: emptyKey}

// node is one B-tree node's fixed on-disk layout: up to two (key, RID)
// pairs plus a parent pointer and a leaf flag. Leaf and Right exist for
// shape-compatibility with a tree that has internal nodes; this package
// never allocates one (the tree never splits), so Leaf is always 1 and
// Right is always empty, but the fields are kept so the on-disk layout
// matches what a node-splitting extension would also need to write.
type node struct {
	Mother int32
	Leaf   int32
	Left   ridRaw
	Value1 int32
	Mid    ridRaw
	Value2 int32
	Right  ridRaw
}

// nodeLayoutGap preserves the source's suspicious offset: a node is
// written starting at 1 + sizeof(Node) bytes into its page, not right
// after the single leading flag byte. spec.md §9 says to replicate this
// byte-for-byte rather than normalize it to offset 1.
var nodeLayoutGap = binary.Size(node{})

func nodeRegionOffset() int { return 1 + nodeLayoutGap }

// Byte 0 of a node page is the page's is-full flag (1 once both key slots
// are occupied, 0 otherwise), independent of the node struct's own Leaf
// field. encodeNode derives it from Value2 on every write; decodeNode does
// not surface it since every caller already recomputes fullness from
// Value2 when it needs to decide whether to start a new page.

func encodeNode(page []byte, n node) {
	var buf bytes.Buffer
	buf.Grow(nodeLayoutGap)
	binary.Write(&buf, binary.NativeEndian, n) //nolint:errcheck // fixed-size struct, Write cannot fail
	off := nodeRegionOffset()
	copy(page[off:off+nodeLayoutGap], buf.Bytes())
	if n.Value2 != emptyKey {
		page[0] = 1
	} else {
		page[0] = 0
	}
}

func decodeNode(page []byte) node {
	off := nodeRegionOffset()
	var n node
	binary.Read(bytes.NewReader(page[off:off+nodeLayoutGap]), binary.NativeEndian, &n) //nolint:errcheck
	return n
}
