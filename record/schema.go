// Package record implements tuple schemas, slotted data pages, and
// predicate-driven table scans on top of a buffer.Pool.
package record

import (
	"fmt"

	"pagestore/dberr"
	"pagestore/expr"
)

// DataType is the type tag of a schema attribute. It is expr.DataType so
// predicates built from record attributes type-check against constants
// without a conversion step.
type DataType = expr.DataType

const (
	Int    = expr.Int
	Float  = expr.Float
	Bool   = expr.Bool
	String = expr.String
)

// AttrNameMaxLength bounds an attribute name's on-disk storage: a fixed
// 15-byte, NUL-padded field in the table header page, matching the
// original record manager's ATTR_NAME_MAX_LENGTH.
const AttrNameMaxLength = 15

// Attribute is one column of a schema: a name, a type, and — for String —
// the fixed byte length every value of that attribute occupies. Length is
// ignored for Int/Float/Bool, whose sizes are fixed by their type.
type Attribute struct {
	Name   string
	Type   DataType
	Length int
}

// Schema is an ordered, fixed-width tuple layout. It implements
// expr.Schema so predicates can be evaluated directly against encoded
// tuple bytes.
type Schema struct {
	Attributes []Attribute

	offsets []int
	sizes   []int
}

// NewSchema builds a Schema from attrs, precomputing each attribute's
// fixed-width size and its byte offset within an encoded tuple. Offset 0
// is reserved for the tombstone byte; attribute 0 starts at offset 1.
func NewSchema(attrs []Attribute) *Schema {
	s := &Schema{Attributes: attrs}
	s.offsets = make([]int, len(attrs))
	s.sizes = make([]int, len(attrs))

	offset := 1
	for i, a := range attrs {
		size := attributeSize(a)
		s.offsets[i] = offset
		s.sizes[i] = size
		offset += size
	}
	return s
}

func attributeSize(a Attribute) int {
	switch a.Type {
	case Int:
		return 4
	case Float:
		return 4
	case Bool:
		return 1
	case String:
		return a.Length
	default:
		return 0
	}
}

// NumAttrs implements expr.Schema.
func (s *Schema) NumAttrs() int { return len(s.Attributes) }

// AttrType implements expr.Schema.
func (s *Schema) AttrType(i int) DataType { return s.Attributes[i].Type }

// AttrOffset implements expr.Schema. It is also record.AttributeOffset's
// implementation, exposed because spec.md names the offset formula
// without saying whether it is part of the public API; the original's
// getAttributeOffset computed the same "1 + sum of preceding sizes" value.
func (s *Schema) AttrOffset(i int) int { return s.offsets[i] }

// AttrLength implements expr.Schema: the on-disk byte width of attribute
// i (the declared Length for String, the fixed primitive width otherwise).
func (s *Schema) AttrLength(i int) int { return s.sizes[i] }

// RecordSize returns the total encoded size of a tuple under this schema:
// one tombstone byte plus the sum of every attribute's width.
func RecordSize(s *Schema) int {
	total := 1
	for _, sz := range s.sizes {
		total += sz
	}
	return total
}

// AttributeOffset returns the byte offset of attribute i within an
// encoded tuple, or an error if i is out of range.
func AttributeOffset(s *Schema, i int) (int, error) {
	if i < 0 || i >= len(s.Attributes) {
		return 0, fmt.Errorf("attribute %d: %w", i, dberr.ErrInvalidParameter)
	}
	return s.offsets[i], nil
}
