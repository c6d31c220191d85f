// Command dbtool drives each storage-engine layer end to end against a
// scratch file, standing in for the original assignment harnesses
// (test_assign1..4, test_expr) as cobra subcommands of one binary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "dbtool",
		Short: "Exercises the storage, buffer, record, index, and expression layers",
	}
	root.AddCommand(assign1Cmd(), assign2Cmd(), assign3Cmd(), assign4Cmd(), exprCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func scratchDir() (string, func(), error) {
	dir, err := os.MkdirTemp("", "dbtool-*")
	if err != nil {
		return "", nil, err
	}
	return dir, func() { os.RemoveAll(dir) }, nil
}
