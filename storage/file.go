// Package storage turns a host file into an array of fixed-size pages.
// It is the lowest layer of the engine: the buffer manager does the page
// reads and writes of open tables and indexes, while the record and index
// packages call it directly to create files and to grow them. Every
// operation is synchronous and blocking.
package storage

import (
	"fmt"
	"os"

	"pagestore/dberr"
)

// PageSize is the fixed size, in bytes, of every page in every file this
// package manages.
const PageSize = 4096

// File is an open page file: an ordered sequence of PageSize-byte pages
// addressed by a zero-based index. It caches TotalPages from the file size
// at open time and is not safe for concurrent use — callers coordinate
// access (normally a single buffer.Pool per File).
type File struct {
	name       string
	f          *os.File
	TotalPages int
	curPage    int
}

// Create makes a fresh, single-page, zero-filled page file at name. It
// fails if the file already exists.
func Create(name string) error {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, dberr.ErrFileNotFound)
	}
	defer f.Close()

	buf := make([]byte, PageSize)
	if _, err := f.Write(buf); err != nil {
		return fmt.Errorf("create %s: %w", name, dberr.ErrWriteFailed)
	}
	return nil
}

// Open opens an existing page file and computes its page count from the
// file size, rounding up for a (never-expected, but tolerated) partial
// trailing page.
func Open(name string) (*File, error) {
	info, err := os.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, dberr.ErrFileNotFound)
	}

	f, err := os.OpenFile(name, os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, dberr.ErrFileNotFound)
	}

	total := int((info.Size() + PageSize - 1) / PageSize)
	return &File{name: name, f: f, TotalPages: total, curPage: 0}, nil
}

// Close releases the underlying OS file handle.
func (fl *File) Close() error {
	if fl == nil || fl.f == nil {
		return fmt.Errorf("close: %w", dberr.ErrFileHandleNotInit)
	}
	if err := fl.f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", fl.name, dberr.ErrFileCloseFailed)
	}
	fl.f = nil
	return nil
}

// Destroy removes the named page file from disk.
func Destroy(name string) error {
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("destroy %s: %w", name, dberr.ErrFileNotFound)
	}
	return nil
}

// Name returns the host path backing this file.
func (fl *File) Name() string { return fl.name }

// Pos returns the current cursor position — a hint only, not authoritative
// for random access via ReadPage/WritePage.
func (fl *File) Pos() int { return fl.curPage }

func (fl *File) validate(pageNum int, buf []byte) error {
	if fl == nil || fl.f == nil {
		return fmt.Errorf("validate: %w", dberr.ErrFileHandleNotInit)
	}
	if buf == nil {
		return fmt.Errorf("validate: %w", dberr.ErrWriteFailed)
	}
	if pageNum < 0 || pageNum >= fl.TotalPages {
		return fmt.Errorf("page %d: %w", pageNum, dberr.ErrReadNonExistingPage)
	}
	return nil
}

// ReadPage reads exactly PageSize bytes at page pageNum into buf, which
// must be at least PageSize bytes long. pageNum must be within
// [0, TotalPages).
func (fl *File) ReadPage(pageNum int, buf []byte) error {
	if err := fl.validate(pageNum, buf); err != nil {
		return err
	}
	n, err := fl.f.ReadAt(buf[:PageSize], int64(pageNum)*PageSize)
	if err != nil || n != PageSize {
		return fmt.Errorf("read page %d: %w", pageNum, dberr.ErrReadNonExistingPage)
	}
	fl.curPage = pageNum
	return nil
}

// WritePage writes exactly PageSize bytes from buf to page pageNum.
// pageNum must be within [0, TotalPages).
func (fl *File) WritePage(pageNum int, buf []byte) error {
	if fl == nil || fl.f == nil {
		return fmt.Errorf("write: %w", dberr.ErrFileHandleNotInit)
	}
	if buf == nil {
		return fmt.Errorf("write: %w", dberr.ErrFileHandleNotInit)
	}
	if pageNum < 0 || pageNum >= fl.TotalPages {
		return fmt.Errorf("page %d: %w", pageNum, dberr.ErrReadNonExistingPage)
	}
	n, err := fl.f.WriteAt(buf[:PageSize], int64(pageNum)*PageSize)
	if err != nil || n != PageSize {
		return fmt.Errorf("write page %d: %w", pageNum, dberr.ErrWriteFailed)
	}
	fl.curPage = pageNum
	return nil
}

// AppendEmptyPage appends one zero-filled page to the end of the file and
// increments TotalPages.
func (fl *File) AppendEmptyPage() error {
	if fl == nil || fl.f == nil {
		return fmt.Errorf("append: %w", dberr.ErrFileHandleNotInit)
	}
	buf := make([]byte, PageSize)
	if _, err := fl.f.WriteAt(buf, int64(fl.TotalPages)*PageSize); err != nil {
		return fmt.Errorf("append: %w", dberr.ErrWriteFailed)
	}
	fl.TotalPages++
	return nil
}

// EnsureCapacity appends zero pages, in a single write, until the file has
// at least n pages. It is a no-op if the file already has enough.
func (fl *File) EnsureCapacity(n int) error {
	if fl == nil || fl.f == nil {
		return fmt.Errorf("ensure capacity: %w", dberr.ErrFileHandleNotInit)
	}
	if n <= 0 {
		return nil
	}
	if fl.TotalPages >= n {
		return nil
	}

	needed := n - fl.TotalPages
	buf := make([]byte, needed*PageSize)
	if _, err := fl.f.WriteAt(buf, int64(fl.TotalPages)*PageSize); err != nil {
		return fmt.Errorf("ensure capacity: %w", dberr.ErrWriteFailed)
	}
	fl.TotalPages = n
	return nil
}

// ReadFirst reads page 0.
func (fl *File) ReadFirst(buf []byte) error { return fl.ReadPage(0, buf) }

// ReadLast reads the final page of the file.
func (fl *File) ReadLast(buf []byte) error { return fl.ReadPage(fl.TotalPages-1, buf) }

// ReadPrevious reads the page immediately before the current cursor.
func (fl *File) ReadPrevious(buf []byte) error {
	if fl.curPage <= 0 {
		return fmt.Errorf("read previous: %w", dberr.ErrReadNonExistingPage)
	}
	return fl.ReadPage(fl.curPage-1, buf)
}

// ReadCurrent re-reads the page at the current cursor.
func (fl *File) ReadCurrent(buf []byte) error { return fl.ReadPage(fl.curPage, buf) }

// ReadNext reads the page immediately after the current cursor.
func (fl *File) ReadNext(buf []byte) error { return fl.ReadPage(fl.curPage+1, buf) }

// WriteCurrent writes to the page at the current cursor.
func (fl *File) WriteCurrent(buf []byte) error { return fl.WritePage(fl.curPage, buf) }
