package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pagestore/expr"
	"pagestore/record"
)

// assign3Cmd drives the record manager through spec.md §8 scenario 4:
// insert three rows, then run a predicate scan. It does not read back,
// delete, or re-read a record by RID.
func assign3Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign3",
		Short: "Exercise the record manager (inserts and predicate scan)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cleanup, err := scratchDir()
			if err != nil {
				return err
			}
			defer cleanup()

			name := filepath.Join(dir, uuid.NewString()+".tbl")
			schema := record.NewSchema([]record.Attribute{
				{Name: "a", Type: record.Int},
				{Name: "b", Type: record.String, Length: 4},
			})
			if err := record.CreateTable(name, schema); err != nil {
				return err
			}

			tbl, err := record.OpenTable(name)
			if err != nil {
				return err
			}
			defer tbl.Close()

			for _, row := range []struct {
				a int32
				b string
			}{{1, "aaaa"}, {2, "bbbb"}, {3, "cccc"}} {
				tup := record.NewTuple(schema)
				a := expr.IntValue(row.a)
				b := expr.StringValue(row.b)
				if err := record.SetAttr(tup, schema, 0, &a); err != nil {
					return err
				}
				if err := record.SetAttr(tup, schema, 1, &b); err != nil {
					return err
				}
				if err := tbl.Insert(tup); err != nil {
					return err
				}
			}

			pred := expr.Comparison{Op: expr.Eq, Left: expr.AttrRef{Idx: 0}, Right: expr.Const{Value: expr.IntValue(2)}}
			scan, err := tbl.StartScan(pred)
			if err != nil {
				return err
			}
			tup, err := scan.Next()
			if err != nil {
				return err
			}
			got, err := record.GetAttr(tup, schema, 1)
			if err != nil {
				return err
			}

			fmt.Printf("assign3: scan matched b=%q, tuples=%d\n", got.StringVal, tbl.NumTuples())
			return nil
		},
	}
}
