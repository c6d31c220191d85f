package record

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"

	"pagestore/buffer"
	"pagestore/dberr"
	"pagestore/storage"
)

const (
	headerTupleCountOffset     = 0
	headerFreePageIndexOffset  = 4
	headerNumAttrOffset        = 8
	headerKeySizeOffset        = 12 // schemas carry no key attributes, so this stays 0
	headerAttrsOffset          = 16
	headerAttrEntrySize        = AttrNameMaxLength + 4 + 4 // name + type + length
	defaultBufferFrames        = 100
)

// SchemaCache lets OpenTable skip re-decoding a table's header page when a
// schema for the same file was already decoded. catalog.SchemaCache
// implements it; record does not import catalog so the dependency only
// runs one way.
type SchemaCache interface {
	Get(key string) (*Schema, bool)
	Set(key string, s *Schema)
}

type tableOptions struct {
	frames int
	policy buffer.Policy
	logger *zap.Logger
	cache  SchemaCache
}

// Option configures OpenTable.
type Option func(*tableOptions)

// WithFrames sets the table's buffer pool size. The original record
// manager hardcodes MAX_BUFFER_SIZE=100; that is this package's default.
func WithFrames(n int) Option { return func(o *tableOptions) { o.frames = n } }

// WithPolicy sets the table's buffer pool replacement policy. The
// original record manager always uses LRU; that is this package's
// default.
func WithPolicy(p buffer.Policy) Option { return func(o *tableOptions) { o.policy = p } }

// WithLogger attaches structured logging to the table's buffer pool.
func WithLogger(l *zap.Logger) Option { return func(o *tableOptions) { o.logger = l } }

// WithSchemaCache consults cache before decoding the header page, and
// populates it after a cache miss.
func WithSchemaCache(cache SchemaCache) Option { return func(o *tableOptions) { o.cache = cache } }

// Table is an open heap file: a header page (schema, tuple count, next
// free page) followed by data pages of fixed-size slots. It is not safe
// for concurrent use.
type Table struct {
	name          string
	file          *storage.File
	pool          *buffer.Pool
	schema        *Schema
	tupleCount    int
	freePageIndex int
	recordSize    int
	slotsPerPage  int
	cache         SchemaCache
}

// CreateTable writes a fresh, single-page table file encoding schema in
// its header. It does not open the table for use.
func CreateTable(name string, schema *Schema) error {
	if err := storage.Create(name); err != nil {
		return err
	}
	file, err := storage.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	buf := make([]byte, storage.PageSize)
	binary.NativeEndian.PutUint32(buf[headerTupleCountOffset:], 0)
	binary.NativeEndian.PutUint32(buf[headerFreePageIndexOffset:], 1)
	binary.NativeEndian.PutUint32(buf[headerNumAttrOffset:], uint32(len(schema.Attributes)))

	off := headerAttrsOffset
	for _, a := range schema.Attributes {
		nameBytes := []byte(a.Name)
		if len(nameBytes) > AttrNameMaxLength {
			nameBytes = nameBytes[:AttrNameMaxLength]
		}
		copy(buf[off:off+AttrNameMaxLength], nameBytes)
		binary.NativeEndian.PutUint32(buf[off+AttrNameMaxLength:], uint32(a.Type))
		binary.NativeEndian.PutUint32(buf[off+AttrNameMaxLength+4:], uint32(a.Length))
		off += headerAttrEntrySize
	}

	return file.WritePage(0, buf)
}

// OpenTable opens an existing table file, decoding its schema (from
// cache, if one is configured and holds an entry for this file) and
// standing up a buffer pool over its pages.
func OpenTable(name string, opts ...Option) (*Table, error) {
	o := tableOptions{frames: defaultBufferFrames, policy: buffer.NewLRU()}
	for _, opt := range opts {
		opt(&o)
	}

	file, err := storage.Open(name)
	if err != nil {
		return nil, err
	}

	pool := buffer.New(file, o.frames, o.policy, o.logger)

	handle, err := pool.Pin(0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("open table %s: %w", name, err)
	}
	header := handle.Data

	tupleCount := int(binary.NativeEndian.Uint32(header[headerTupleCountOffset:]))
	freePageIndex := int(binary.NativeEndian.Uint32(header[headerFreePageIndexOffset:]))

	var schema *Schema
	if o.cache != nil {
		if cached, ok := o.cache.Get(name); ok {
			schema = cached
		}
	}
	if schema == nil {
		schema = decodeSchema(header)
		if o.cache != nil {
			o.cache.Set(name, schema)
		}
	}

	if err := pool.Unpin(0); err != nil {
		file.Close()
		return nil, err
	}

	recordSize := RecordSize(schema)
	return &Table{
		name:          name,
		file:          file,
		pool:          pool,
		schema:        schema,
		tupleCount:    tupleCount,
		freePageIndex: freePageIndex,
		recordSize:    recordSize,
		slotsPerPage:  storage.PageSize / recordSize,
		cache:         o.cache,
	}, nil
}

func decodeSchema(header []byte) *Schema {
	numAttr := int(binary.NativeEndian.Uint32(header[headerNumAttrOffset:]))
	attrs := make([]Attribute, numAttr)

	off := headerAttrsOffset
	for i := 0; i < numAttr; i++ {
		nameBytes := header[off : off+AttrNameMaxLength]
		n := 0
		for n < len(nameBytes) && nameBytes[n] != 0 {
			n++
		}
		typ := DataType(binary.NativeEndian.Uint32(header[off+AttrNameMaxLength:]))
		length := int(binary.NativeEndian.Uint32(header[off+AttrNameMaxLength+4:]))
		attrs[i] = Attribute{Name: string(nameBytes[:n]), Type: typ, Length: length}
		off += headerAttrEntrySize
	}
	return NewSchema(attrs)
}

// Close shuts down the table's buffer pool (flushing dirty pages) and
// closes its file.
func (t *Table) Close() error {
	if err := t.pool.Shutdown(); err != nil {
		return err
	}
	return t.file.Close()
}

// DeleteTable removes a table's file from disk. The table must not be
// open.
func DeleteTable(name string) error { return storage.Destroy(name) }

// Schema returns the table's decoded schema.
func (t *Table) Schema() *Schema { return t.schema }

// NumTuples returns the table's cached tuple count.
func (t *Table) NumTuples() int { return t.tupleCount }

func (t *Table) persistHeader() error {
	handle, err := t.pool.Pin(0)
	if err != nil {
		return err
	}
	binary.NativeEndian.PutUint32(handle.Data[headerTupleCountOffset:], uint32(t.tupleCount))
	binary.NativeEndian.PutUint32(handle.Data[headerFreePageIndexOffset:], uint32(t.freePageIndex))
	if err := t.pool.MarkDirty(0); err != nil {
		t.pool.Unpin(0)
		return err
	}
	return t.pool.Unpin(0)
}

func slotOffset(slot, recordSize int) int { return slot * recordSize }

func locateEmptySlot(page []byte, recordSize, slotsPerPage int) int {
	for slot := 0; slot < slotsPerPage; slot++ {
		off := slotOffset(slot, recordSize)
		if page[off] != tombstoneOccupied {
			return slot
		}
	}
	return -1
}

// Insert writes t into the first available slot starting at the table's
// free-page cursor, advancing that cursor across pages as needed. It
// records the assigned RID in t.ID.
func (t *Table) Insert(tup *Tuple) error {
	page := t.freePageIndex
	if page < 1 {
		page = 1
	}

	for {
		if page >= t.file.TotalPages {
			if err := t.file.EnsureCapacity(page + 1); err != nil {
				return err
			}
		}

		handle, err := t.pool.Pin(page)
		if err != nil {
			return err
		}

		slot := locateEmptySlot(handle.Data, t.recordSize, t.slotsPerPage)
		if slot < 0 {
			if err := t.pool.Unpin(page); err != nil {
				return err
			}
			page++
			continue
		}

		off := slotOffset(slot, t.recordSize)
		tup.Data[0] = tombstoneOccupied
		copy(handle.Data[off:off+t.recordSize], tup.Data)

		if err := t.pool.MarkDirty(page); err != nil {
			t.pool.Unpin(page)
			return err
		}
		if err := t.pool.Unpin(page); err != nil {
			return err
		}

		tup.ID = RID{Page: page, Slot: slot}
		t.freePageIndex = page
		t.tupleCount++
		return t.persistHeader()
	}
}

func (t *Table) validateRID(id RID) error {
	if id.Page < 1 || id.Page >= t.file.TotalPages {
		return fmt.Errorf("rid %+v: %w", id, dberr.ErrNoTupleWithGivenRID)
	}
	if id.Slot < 0 || id.Slot >= t.slotsPerPage {
		return fmt.Errorf("rid %+v: %w", id, dberr.ErrNoTupleWithGivenRID)
	}
	return nil
}

// Get returns the tuple stored at id, or ErrNoTupleWithGivenRID if the
// slot's tombstone marks it empty.
func (t *Table) Get(id RID) (*Tuple, error) {
	if err := t.validateRID(id); err != nil {
		return nil, err
	}

	handle, err := t.pool.Pin(id.Page)
	if err != nil {
		return nil, err
	}
	defer t.pool.Unpin(id.Page)

	off := slotOffset(id.Slot, t.recordSize)
	slotBytes := handle.Data[off : off+t.recordSize]
	if slotBytes[0] != tombstoneOccupied {
		return nil, fmt.Errorf("get %+v: %w", id, dberr.ErrNoTupleWithGivenRID)
	}

	data := make([]byte, t.recordSize)
	copy(data, slotBytes)
	return &Tuple{ID: id, Data: data}, nil
}

// Update overwrites the tuple at t.ID with tup's bytes in place. It does
// not change the table's tuple count.
func (t *Table) Update(tup *Tuple) error {
	if err := t.validateRID(tup.ID); err != nil {
		return err
	}

	handle, err := t.pool.Pin(tup.ID.Page)
	if err != nil {
		return err
	}

	off := slotOffset(tup.ID.Slot, t.recordSize)
	tup.Data[0] = tombstoneOccupied
	copy(handle.Data[off:off+t.recordSize], tup.Data)

	if err := t.pool.MarkDirty(tup.ID.Page); err != nil {
		t.pool.Unpin(tup.ID.Page)
		return err
	}
	return t.pool.Unpin(tup.ID.Page)
}

// Delete marks id's slot empty by writing the deleted tombstone, and
// moves the table's free-page cursor back to id.Page so future inserts
// reuse the freed slot.
func (t *Table) Delete(id RID) error {
	if err := t.validateRID(id); err != nil {
		return err
	}

	handle, err := t.pool.Pin(id.Page)
	if err != nil {
		return err
	}

	off := slotOffset(id.Slot, t.recordSize)
	handle.Data[off] = tombstoneDeleted

	if err := t.pool.MarkDirty(id.Page); err != nil {
		t.pool.Unpin(id.Page)
		return err
	}
	if err := t.pool.Unpin(id.Page); err != nil {
		return err
	}

	t.freePageIndex = id.Page
	t.tupleCount--
	return t.persistHeader()
}
