package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pagestore/expr"
)

type staticSchema struct {
	types   []expr.DataType
	lengths []int
}

func (s staticSchema) NumAttrs() int              { return len(s.types) }
func (s staticSchema) AttrType(i int) expr.DataType { return s.types[i] }
func (s staticSchema) AttrLength(i int) int       { return s.lengths[i] }
func (s staticSchema) AttrOffset(i int) int {
	off := 1
	for j := 0; j < i; j++ {
		off += s.lengths[j]
	}
	return off
}

// exprCmd exercises the expression evaluator standalone, without going
// through the record manager, standing in for the original test_expr
// harness.
func exprCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expr",
		Short: "Exercise the predicate expression evaluator",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema := staticSchema{types: []expr.DataType{expr.Int}, lengths: []int{4}}
			tuple := make([]byte, 5)
			tuple[0] = '+'
			v := expr.IntValue(7)
			if err := expr.EncodeAttr(tuple, schema, 0, v); err != nil {
				return err
			}

			pred := expr.Comparison{Op: expr.Gt, Left: expr.AttrRef{Idx: 0}, Right: expr.Const{Value: expr.IntValue(5)}}
			result, err := expr.Eval(tuple, schema, pred)
			if err != nil {
				return err
			}

			fmt.Printf("expr: 7 > 5 is %v\n", result.BoolVal)
			return nil
		},
	}
}
