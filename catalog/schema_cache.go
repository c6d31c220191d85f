// Package catalog caches decoded table schemas so repeated OpenTable
// calls against the same file skip re-parsing its header page.
package catalog

import (
	"github.com/dgraph-io/ristretto/v2"

	"pagestore/record"
)

// defaultCost is the notional "weight" of every cached schema. Schemas
// are small and roughly uniform in size, so a flat cost keeps the cache's
// cost-based eviction simple without measuring each schema's encoded
// size.
const defaultCost = 1

// SchemaCache is a bounded, cost-aware cache of decoded schemas keyed by
// table file path. It implements record.SchemaCache, so record.OpenTable
// can consult it without importing this package.
type SchemaCache struct {
	cache *ristretto.Cache[string, *record.Schema]
}

// NewSchemaCache builds a cache admitting up to maxItems schemas, sized
// per ristretto's usual counters/buffer-items/max-cost ratios.
func NewSchemaCache(maxItems int64) (*SchemaCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, *record.Schema]{
		NumCounters: maxItems * 10,
		MaxCost:     maxItems,
		BufferItems: int64(64),
		// Count only defaultCost per entry; ristretto's per-item
		// bookkeeping cost would otherwise exceed MaxCost on its own.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &SchemaCache{cache: c}, nil
}

// Get returns the cached schema for key, if present.
func (c *SchemaCache) Get(key string) (*record.Schema, bool) {
	return c.cache.Get(key)
}

// Set caches schema under key.
func (c *SchemaCache) Set(key string, schema *record.Schema) {
	c.cache.Set(key, schema, defaultCost)
}

// Invalidate removes key's cached schema, if any. record.DeleteTable
// callers should invalidate the deleted table's path.
func (c *SchemaCache) Invalidate(key string) {
	c.cache.Del(key)
}

// Close releases the cache's background goroutines.
func (c *SchemaCache) Close() {
	c.cache.Close()
}
