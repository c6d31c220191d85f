package expr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"pagestore/expr"
)

// testSchema is a minimal expr.Schema for two attributes: an Int at offset
// 1 (after a 1-byte tombstone) and a 4-byte String immediately after.
type testSchema struct{}

func (testSchema) NumAttrs() int             { return 2 }
func (testSchema) AttrType(i int) expr.DataType {
	if i == 0 {
		return expr.Int
	}
	return expr.String
}
func (testSchema) AttrOffset(i int) int {
	if i == 0 {
		return 1
	}
	return 5
}
func (testSchema) AttrLength(i int) int {
	if i == 0 {
		return 4
	}
	return 4
}

func encodeTuple(t *testing.T, a int32, b string) []byte {
	t.Helper()
	buf := make([]byte, 9)
	buf[0] = '+'
	require.NoError(t, expr.EncodeAttr(buf, testSchema{}, 0, expr.IntValue(a)))
	require.NoError(t, expr.EncodeAttr(buf, testSchema{}, 1, expr.StringValue(b)))
	return buf
}

func TestDecodeAttrRoundTrip(t *testing.T) {
	buf := encodeTuple(t, 42, "abcd")

	v, err := expr.DecodeAttr(buf, testSchema{}, 0)
	require.NoError(t, err)
	require.Equal(t, int32(42), v.IntVal)

	v, err = expr.DecodeAttr(buf, testSchema{}, 1)
	require.NoError(t, err)
	require.Equal(t, "abcd", v.StringVal)
}

func TestEvalComparisonAndBoolExpr(t *testing.T) {
	buf := encodeTuple(t, 2, "bbbb")

	pred := expr.Comparison{
		Op:    expr.Eq,
		Left:  expr.AttrRef{Idx: 0},
		Right: expr.Const{Value: expr.IntValue(2)},
	}
	v, err := expr.Eval(buf, testSchema{}, pred)
	require.NoError(t, err)
	require.True(t, v.BoolVal)

	and := expr.BoolExpr{Op: expr.And, Args: []expr.Expr{
		pred,
		expr.Comparison{Op: expr.Neq, Left: expr.AttrRef{Idx: 1}, Right: expr.Const{Value: expr.StringValue("aaaa")}},
	}}
	v, err = expr.Eval(buf, testSchema{}, and)
	require.NoError(t, err)
	require.True(t, v.BoolVal)
}

func TestEvalComparisonMismatchedTypesFails(t *testing.T) {
	buf := encodeTuple(t, 2, "bbbb")
	pred := expr.Comparison{
		Op:    expr.Eq,
		Left:  expr.AttrRef{Idx: 0},
		Right: expr.Const{Value: expr.StringValue("2")},
	}
	_, err := expr.Eval(buf, testSchema{}, pred)
	require.Error(t, err)
}
