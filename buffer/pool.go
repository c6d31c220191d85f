// Package buffer implements a bounded, in-memory page cache in front of a
// storage.File: pin/unpin bookkeeping, dirty tracking, and pluggable
// replacement policies (FIFO, LRU, CLOCK, LFU).
package buffer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pagestore/dberr"
	"pagestore/storage"
)

var errAllPinned = errors.New("all frames pinned, cannot evict")

// NoPage is the sentinel page number reported by FrameContents for an
// unused frame slot.
const NoPage = -1

// frame is one slot of the pool's fixed-size frame table.
type frame struct {
	pageNum      int
	data         []byte
	pinCount     int
	dirty        bool
	insertOrder  int64 // FIFO
	lastAccessed int64 // LRU, LFU
	accessCount  int64 // LFU
	refBit       bool  // CLOCK
}

// PageHandle is a pinned view of one page's bytes. Callers must Unpin it
// via Pool.Unpin when done.
type PageHandle struct {
	PageNum int
	Data    []byte
}

// Pool is a bounded page cache over a single storage.File. It is not safe
// for concurrent use — spec.md §5 scopes this engine to a single
// cooperative thread of control.
type Pool struct {
	file   *storage.File
	policy Policy
	logger *zap.Logger

	frames []*frame
	index  map[int]int // pageNum -> slot

	insertCounter int64
	timer         int64
	clockHand     int

	readCount  int
	writeCount int
}

// New creates a pool of the given frame capacity over file, using policy
// for eviction. A nil logger is treated as a no-op logger.
func New(file *storage.File, capacity int, policy Policy, logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		file:   file,
		policy: policy,
		logger: logger,
		frames: make([]*frame, capacity),
		index:  make(map[int]int, capacity),
	}
}

// Pin loads pageNum into the pool if necessary and returns a handle to
// its bytes with its pin count incremented.
func (p *Pool) Pin(pageNum int) (*PageHandle, error) {
	if slot, ok := p.index[pageNum]; ok {
		f := p.frames[slot]
		f.pinCount++
		p.policy.onAccess(p, slot)
		p.logger.Debug("pin hit", zap.Int("page", pageNum), zap.String("policy", p.policy.Name()))
		return &PageHandle{PageNum: pageNum, Data: f.data}, nil
	}

	data := make([]byte, storage.PageSize)
	if err := p.file.ReadPage(pageNum, data); err != nil {
		return nil, fmt.Errorf("pin page %d: %w", pageNum, err)
	}
	p.readCount++

	slot, err := p.freeSlot()
	if err != nil {
		return nil, err
	}

	p.frames[slot] = &frame{pageNum: pageNum, data: data, pinCount: 1}
	p.index[pageNum] = slot
	p.policy.onLoad(p, slot)

	p.logger.Debug("pin miss", zap.Int("page", pageNum), zap.String("policy", p.policy.Name()))
	return &PageHandle{PageNum: pageNum, Data: data}, nil
}

// freeSlot returns an empty slot, evicting a victim chosen by the policy
// if the pool is full.
func (p *Pool) freeSlot() (int, error) {
	for i, f := range p.frames {
		if f == nil {
			return i, nil
		}
	}

	slot, err := p.policy.victim(p)
	if err != nil {
		return -1, fmt.Errorf("evict: %w", dberr.ErrGenericBuffer)
	}

	victim := p.frames[slot]
	if victim.dirty {
		if err := p.file.WritePage(victim.pageNum, victim.data); err != nil {
			return -1, fmt.Errorf("evict page %d: %w", victim.pageNum, dberr.ErrWriteFailed)
		}
		p.writeCount++
	}
	p.logger.Debug("evict", zap.Int("page", victim.pageNum), zap.Bool("dirty", victim.dirty),
		zap.String("policy", p.policy.Name()))

	delete(p.index, victim.pageNum)
	return slot, nil
}

// Unpin decrements pageNum's pin count. Pinning is reference-counted: a
// page pinned twice needs two unpins before it becomes evictable.
func (p *Pool) Unpin(pageNum int) error {
	slot, ok := p.index[pageNum]
	if !ok {
		return fmt.Errorf("unpin page %d: %w", pageNum, dberr.ErrGenericBuffer)
	}
	f := p.frames[slot]
	if f.pinCount <= 0 {
		return fmt.Errorf("unpin page %d: not pinned: %w", pageNum, dberr.ErrGenericBuffer)
	}
	f.pinCount--
	return nil
}

// MarkDirty flags pageNum's frame as needing write-back before eviction.
func (p *Pool) MarkDirty(pageNum int) error {
	slot, ok := p.index[pageNum]
	if !ok {
		return fmt.Errorf("mark dirty page %d: %w", pageNum, dberr.ErrGenericBuffer)
	}
	p.frames[slot].dirty = true
	return nil
}

// Force writes pageNum to disk unconditionally, regardless of its dirty
// flag, and clears the flag.
func (p *Pool) Force(pageNum int) error {
	slot, ok := p.index[pageNum]
	if !ok {
		return fmt.Errorf("force page %d: %w", pageNum, dberr.ErrGenericBuffer)
	}
	f := p.frames[slot]
	if err := p.file.WritePage(pageNum, f.data); err != nil {
		return fmt.Errorf("force page %d: %w", pageNum, dberr.ErrWriteFailed)
	}
	p.writeCount++
	f.dirty = false
	return nil
}

// FlushAll writes every dirty, occupied frame to disk. Pinned dirty
// frames are written too — flushing does not require unpinning first.
func (p *Pool) FlushAll() error {
	for _, f := range p.frames {
		if f == nil || !f.dirty {
			continue
		}
		if err := p.file.WritePage(f.pageNum, f.data); err != nil {
			return fmt.Errorf("flush page %d: %w", f.pageNum, dberr.ErrWriteFailed)
		}
		p.writeCount++
		f.dirty = false
	}
	return nil
}

// Shutdown flushes all dirty pages and releases the pool. It fails with
// dberr.ErrPinnedPagesInBuffer if any frame is still pinned.
func (p *Pool) Shutdown() error {
	if err := p.FlushAll(); err != nil {
		return err
	}
	for _, f := range p.frames {
		if f != nil && f.pinCount > 0 {
			return fmt.Errorf("shutdown: %w", dberr.ErrPinnedPagesInBuffer)
		}
	}
	p.frames = make([]*frame, len(p.frames))
	p.index = make(map[int]int)
	return nil
}

// FrameContents returns the page number held by each frame slot, in slot
// order, using NoPage for unused slots.
func (p *Pool) FrameContents() []int {
	out := make([]int, len(p.frames))
	for i, f := range p.frames {
		if f == nil {
			out[i] = NoPage
		} else {
			out[i] = f.pageNum
		}
	}
	return out
}

// DirtyFlags returns each frame slot's dirty flag, in slot order.
func (p *Pool) DirtyFlags() []bool {
	out := make([]bool, len(p.frames))
	for i, f := range p.frames {
		out[i] = f != nil && f.dirty
	}
	return out
}

// FixCounts returns each frame slot's pin count, in slot order.
func (p *Pool) FixCounts() []int {
	out := make([]int, len(p.frames))
	for i, f := range p.frames {
		if f != nil {
			out[i] = f.pinCount
		}
	}
	return out
}

// ReadCount returns the number of pages read from disk since the pool
// was created.
func (p *Pool) ReadCount() int { return p.readCount }

// WriteCount returns the number of pages written to disk since the pool
// was created.
func (p *Pool) WriteCount() int { return p.writeCount }
