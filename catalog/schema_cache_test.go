package catalog_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pagestore/catalog"
	"pagestore/record"
)

func TestOpenTablePopulatesSchemaCache(t *testing.T) {
	name := filepath.Join(t.TempDir(), "t.tbl")
	schema := record.NewSchema([]record.Attribute{{Name: "a", Type: record.Int}})
	require.NoError(t, record.CreateTable(name, schema))

	cache, err := catalog.NewSchemaCache(16)
	require.NoError(t, err)
	defer cache.Close()

	tbl, err := record.OpenTable(name, record.WithSchemaCache(cache))
	require.NoError(t, err)
	defer tbl.Close()

	time.Sleep(10 * time.Millisecond) // ristretto admits asynchronously
	cached, ok := cache.Get(name)
	require.True(t, ok)
	require.Equal(t, 1, cached.NumAttrs())
}
