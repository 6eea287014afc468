package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewStoreWithPath(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestLookupMissing(t *testing.T) {
	store := newTestStore(t)

	entry, err := store.Lookup(context.Background(), "no-such-key")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestInsertAndLookup(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "key-1", []byte(`{"summary":{}}`)))

	entry, err := store.Lookup(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "key-1", entry.Key)
	assert.JSONEq(t, `{"summary":{}}`, string(entry.Result))
}

func TestLookupReturnsNewestRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.InsertAt(ctx, "key", []byte(`{"v":1}`), base))
	require.NoError(t, store.InsertAt(ctx, "key", []byte(`{"v":2}`), base.Add(time.Hour)))

	entry, err := store.Lookup(ctx, "key")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.JSONEq(t, `{"v":2}`, string(entry.Result))
}

func TestInsertIsStaleBlind(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	// A stale row stays in place; a new insert simply shadows it.
	require.NoError(t, store.InsertAt(ctx, "key", []byte(`{"v":"stale"}`), old))
	require.NoError(t, store.Insert(ctx, "key", []byte(`{"v":"fresh"}`)))

	entry, err := store.Lookup(ctx, "key")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.JSONEq(t, `{"v":"fresh"}`, string(entry.Result))
}

func TestEntryFreshness(t *testing.T) {
	created := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour

	entry := &Entry{CreatedAt: created}

	assert.True(t, entry.Fresh(created.Add(time.Minute), ttl))
	assert.True(t, entry.Fresh(created.Add(ttl-time.Second), ttl))
	// Exactly at the boundary counts as stale.
	assert.False(t, entry.Fresh(created.Add(ttl), ttl))
	assert.False(t, entry.Fresh(created.Add(ttl+time.Second), ttl))
}

func TestStorePersistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	store, err := NewStoreWithPath(dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Insert(ctx, "key", []byte(`{"v":1}`)))
	require.NoError(t, store.Close())

	reopened, err := NewStoreWithPath(dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	entry, err := reopened.Lookup(ctx, "key")
	require.NoError(t, err)
	require.NotNil(t, entry)
}
