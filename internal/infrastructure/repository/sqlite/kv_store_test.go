package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/clothify/storefront-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*KVStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store", "test.db")
	store, err := NewKVStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestGet_MissingKey(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestSetGetRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.KeyCatalogCache, `[{"id":"M1"}]`))

	value, err := store.Get(ctx, domain.KeyCatalogCache)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"M1"}]`, value)
}

func TestSet_OverwritesExistingValue(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "first"))
	require.NoError(t, store.Set(ctx, "k", "second"))

	value, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", "v"))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	// Deleting an absent key is a defined no-op.
	assert.NoError(t, store.Delete(ctx, "k"))
}

func TestKeysAreIndependent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, domain.KeyCatalogCache, "catalog"))
	require.NoError(t, store.Set(ctx, domain.KeyCartSnapshot, "cart"))
	require.NoError(t, store.Delete(ctx, domain.KeyCatalogCache))

	value, err := store.Get(ctx, domain.KeyCartSnapshot)
	require.NoError(t, err)
	assert.Equal(t, "cart", value)
}

func TestValuesSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	store, err := NewKVStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", "durable"))
	require.NoError(t, store.Close())

	reopened, err := NewKVStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "durable", value)
}
