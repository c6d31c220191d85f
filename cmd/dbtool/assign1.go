package main

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pagestore/storage"
)

// assign1Cmd drives the storage manager through spec.md §8 scenario 1:
// create, append three pages, write a page, close, reopen, and verify.
func assign1Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign1",
		Short: "Exercise the storage manager (page file round-trip)",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, cleanup, err := scratchDir()
			if err != nil {
				return err
			}
			defer cleanup()

			name := filepath.Join(dir, uuid.NewString()+".bin")
			if err := storage.Create(name); err != nil {
				return err
			}

			f, err := storage.Open(name)
			if err != nil {
				return err
			}
			defer f.Close()

			for i := 0; i < 3; i++ {
				if err := f.AppendEmptyPage(); err != nil {
					return err
				}
			}

			want := bytes.Repeat([]byte{0x41}, storage.PageSize)
			if err := f.WritePage(2, want); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			f2, err := storage.Open(name)
			if err != nil {
				return err
			}
			defer f2.Close()

			got := make([]byte, storage.PageSize)
			if err := f2.ReadPage(2, got); err != nil {
				return err
			}
			if !bytes.Equal(want, got) {
				return fmt.Errorf("page 2 round-trip mismatch")
			}
			if f2.TotalPages != 4 {
				return fmt.Errorf("expected 4 total pages, got %d", f2.TotalPages)
			}

			fmt.Println("assign1: OK")
			return nil
		},
	}
}
