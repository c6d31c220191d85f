package record

import "pagestore/expr"

// GetAttr decodes attribute i out of t's encoded bytes according to
// schema. Unlike the original's getAttr, it never coerces attribute 1's
// declared type to INT — that was a bug in the source (spec.md §9) and is
// not reproduced here.
func GetAttr(t *Tuple, schema *Schema, i int) (*expr.Value, error) {
	v, err := expr.DecodeAttr(t.Data, schema, i)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SetAttr encodes v into attribute i of t's bytes according to schema.
func SetAttr(t *Tuple, schema *Schema, i int, v *expr.Value) error {
	return expr.EncodeAttr(t.Data, schema, i, *v)
}
