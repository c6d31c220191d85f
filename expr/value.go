// Package expr implements the predicate system that record.Scan evaluates
// against tuples: typed values, attribute references, comparisons, and
// boolean connectives.
package expr

import "fmt"

// DataType identifies the wire encoding of an attribute value or a
// constant. It mirrors the four primitive types the original record
// manager's schemas support, numbered to match the on-disk type codes
// the original table header page uses (spec.md §6): 0=INT, 1=STRING,
// 2=FLOAT, 3=BOOL.
type DataType int

const (
	Int DataType = iota
	String
	Float
	Bool
)

func (t DataType) String() string {
	switch t {
	case Int:
		return "INT"
	case Float:
		return "FLOAT"
	case Bool:
		return "BOOL"
	case String:
		return "STRING"
	default:
		return fmt.Sprintf("DataType(%d)", int(t))
	}
}

// Value is a tagged union holding one typed scalar: the result of
// evaluating a Const or AttrRef, or of a Comparison/BoolExpr.
type Value struct {
	Type      DataType
	IntVal    int32
	FloatVal  float32
	BoolVal   bool
	StringVal string
}

// IntValue constructs an Int-typed value.
func IntValue(v int32) Value { return Value{Type: Int, IntVal: v} }

// FloatValue constructs a Float-typed value.
func FloatValue(v float32) Value { return Value{Type: Float, FloatVal: v} }

// BoolValue constructs a Bool-typed value.
func BoolValue(v bool) Value { return Value{Type: Bool, BoolVal: v} }

// StringValue constructs a String-typed value.
func StringValue(v string) Value { return Value{Type: String, StringVal: v} }
