package expr

import (
	"encoding/binary"
	"fmt"

	"pagestore/dberr"
)

// DecodeAttr reads the attribute at index i out of tuple's raw bytes
// according to schema's layout. Integers, floats, and bools are decoded
// host-endian, matching the original record manager's in-memory-copy
// encoding (spec.md §9's "serialization endianness" note); this is NOT the
// dataTypes[1]-coercion bug the original's getAttr carried — every
// attribute is decoded using its own declared type.
func DecodeAttr(tuple []byte, s Schema, i int) (Value, error) {
	if i < 0 || i >= s.NumAttrs() {
		return Value{}, fmt.Errorf("attribute %d: %w", i, dberr.ErrInvalidParameter)
	}
	off := s.AttrOffset(i)
	length := s.AttrLength(i)
	typ := s.AttrType(i)

	switch typ {
	case Int:
		return IntValue(int32(binary.NativeEndian.Uint32(tuple[off : off+4]))), nil
	case Float:
		bits := binary.NativeEndian.Uint32(tuple[off : off+4])
		return FloatValue(float32FromBits(bits)), nil
	case Bool:
		return BoolValue(tuple[off] != 0), nil
	case String:
		end := off + length
		raw := tuple[off:end]
		n := 0
		for n < len(raw) && raw[n] != 0 {
			n++
		}
		return StringValue(string(raw[:n])), nil
	default:
		return Value{}, fmt.Errorf("decode attribute %d: %w", i, dberr.ErrUnknownDatatype)
	}
}

// EncodeAttr writes v into tuple at the position schema says attribute i
// occupies. v.Type must match the schema's declared type for i.
func EncodeAttr(tuple []byte, s Schema, i int, v Value) error {
	if i < 0 || i >= s.NumAttrs() {
		return fmt.Errorf("attribute %d: %w", i, dberr.ErrInvalidParameter)
	}
	off := s.AttrOffset(i)
	length := s.AttrLength(i)
	typ := s.AttrType(i)

	if v.Type != typ {
		return fmt.Errorf("set attribute %d: %w", i, dberr.ErrCompareValueOfDifferentDatatype)
	}

	switch typ {
	case Int:
		binary.NativeEndian.PutUint32(tuple[off:off+4], uint32(v.IntVal))
	case Float:
		binary.NativeEndian.PutUint32(tuple[off:off+4], float32Bits(v.FloatVal))
	case Bool:
		if v.BoolVal {
			tuple[off] = 1
		} else {
			tuple[off] = 0
		}
	case String:
		end := off + length
		for j := range tuple[off:end] {
			tuple[off+j] = 0
		}
		copy(tuple[off:end], v.StringVal)
	default:
		return fmt.Errorf("set attribute %d: %w", i, dberr.ErrUnknownDatatype)
	}
	return nil
}

// Eval evaluates e against tuple's raw bytes, decoding attribute
// references via schema. It returns a Bool-typed Value for predicate use,
// or whatever typed Value a bare AttrRef/Const evaluates to.
func Eval(tuple []byte, schema Schema, e Expr) (Value, error) {
	switch n := e.(type) {
	case AttrRef:
		return DecodeAttr(tuple, schema, n.Idx)
	case Const:
		return n.Value, nil
	case Comparison:
		return evalComparison(tuple, schema, n)
	case BoolExpr:
		return evalBoolExpr(tuple, schema, n)
	default:
		return Value{}, fmt.Errorf("eval: %w", dberr.ErrInvalidParameter)
	}
}

func evalComparison(tuple []byte, schema Schema, c Comparison) (Value, error) {
	l, err := Eval(tuple, schema, c.Left)
	if err != nil {
		return Value{}, err
	}
	r, err := Eval(tuple, schema, c.Right)
	if err != nil {
		return Value{}, err
	}
	if l.Type != r.Type {
		return Value{}, fmt.Errorf("compare: %w", dberr.ErrCompareValueOfDifferentDatatype)
	}

	var cmp int
	switch l.Type {
	case Int:
		cmp = compareInt(l.IntVal, r.IntVal)
	case Float:
		cmp = compareFloat(l.FloatVal, r.FloatVal)
	case Bool:
		cmp = compareBool(l.BoolVal, r.BoolVal)
	case String:
		cmp = compareString(l.StringVal, r.StringVal)
	default:
		return Value{}, fmt.Errorf("compare: %w", dberr.ErrUnknownDatatype)
	}

	var result bool
	switch c.Op {
	case Eq:
		result = cmp == 0
	case Neq:
		result = cmp != 0
	case Lt:
		result = cmp < 0
	case Gt:
		result = cmp > 0
	case Lte:
		result = cmp <= 0
	case Gte:
		result = cmp >= 0
	default:
		return Value{}, fmt.Errorf("compare: %w", dberr.ErrInvalidParameter)
	}
	return BoolValue(result), nil
}

func evalBoolExpr(tuple []byte, schema Schema, b BoolExpr) (Value, error) {
	switch b.Op {
	case Not:
		if len(b.Args) != 1 {
			return Value{}, fmt.Errorf("not: %w", dberr.ErrInvalidParameter)
		}
		v, err := Eval(tuple, schema, b.Args[0])
		if err != nil {
			return Value{}, err
		}
		return BoolValue(!v.BoolVal), nil
	case And:
		for _, a := range b.Args {
			v, err := Eval(tuple, schema, a)
			if err != nil {
				return Value{}, err
			}
			if !v.BoolVal {
				return BoolValue(false), nil
			}
		}
		return BoolValue(true), nil
	case Or:
		for _, a := range b.Args {
			v, err := Eval(tuple, schema, a)
			if err != nil {
				return Value{}, err
			}
			if v.BoolVal {
				return BoolValue(true), nil
			}
		}
		return BoolValue(false), nil
	default:
		return Value{}, fmt.Errorf("bool expr: %w", dberr.ErrInvalidParameter)
	}
}

func compareInt(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a && b:
		return -1
	default:
		return 1
	}
}

func compareString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
