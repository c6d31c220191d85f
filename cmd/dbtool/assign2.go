package main

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pagestore/buffer"
	"pagestore/storage"
)

// assign2Cmd drives the buffer manager through spec.md §8 scenario 2: an
// LRU eviction order example over a 3-frame pool.
func assign2Cmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assign2",
		Short: "Exercise the buffer manager (LRU eviction order)",
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
			if err := f.EnsureCapacity(8); err != nil {
				return err
			}

			pool := buffer.New(f, 3, buffer.NewLRU(), nil)
			for _, pg := range []int{1, 2, 3} {
				if _, err := pool.Pin(pg); err != nil {
					return err
				}
			}
			for _, pg := range []int{1, 2, 3} {
				if err := pool.Unpin(pg); err != nil {
					return err
				}
			}
			if _, err := pool.Pin(4); err != nil {
				return err
			}
			if _, err := pool.Pin(2); err != nil {
				return err
			}
			if _, err := pool.Pin(5); err != nil {
				return err
			}

			fmt.Printf("assign2: frames=%v readIO=%d writeIO=%d\n",
				pool.FrameContents(), pool.ReadCount(), pool.WriteCount())
			return nil
		},
	}
}
