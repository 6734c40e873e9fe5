package cache_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/klutchshots/klutch/pkg/cache"
)

func TestCacheOperation_Clean(t *testing.T) {
	store := cache.NewFileStore(t.TempDir())
	op := cache.NewCacheOperation(store)

	msg, err := op.Clean()
	require.NoError(t, err)
	assert.Equal(t, "No files were removed from the cache.", msg)

	store.Put("https://example.com/1", make([]byte, 2048))
	msg, err = op.Clean()
	require.NoError(t, err)
	assert.Contains(t, msg, "Removed 1 entry")
	assert.Contains(t, msg, "2.0 kB")
}

func TestCacheOperation_GetInfo(t *testing.T) {
	store := cache.NewFileStore(t.TempDir())
	store.Put("https://example.com/1", []byte("abc"))
	op := cache.NewCacheOperation(store)

	msg, err := op.GetInfo()
	require.NoError(t, err)
	assert.Contains(t, msg, "Entries:      1")
	assert.Contains(t, msg, "3 B")
	assert.Contains(t, msg, store.Directory())
	assert.Equal(t, store.Directory(), op.GetDirectory())
}

func TestCacheOperation_ExportImport(t *testing.T) {
	ctx := context.Background()
	store := cache.NewFileStore(filepath.Join(t.TempDir(), "c"))
	store.Put("https://example.com/1", []byte("abc"))
	op := cache.NewCacheOperation(store)

	archivePath := filepath.Join(t.TempDir(), "out.tar.gz")
	msg, err := op.Export(ctx, archivePath)
	require.NoError(t, err)
	assert.Contains(t, msg, archivePath)

	msg, err = op.Import(ctx, archivePath)
	require.NoError(t, err)
	assert.Contains(t, msg, "Imported 1 cache entry")
}
