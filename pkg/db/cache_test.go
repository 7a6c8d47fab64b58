package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CacheSet("k", "v", time.Now().Unix()+60))
	v, ok, err := store.CacheGet("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestCacheGetMissing(t *testing.T) {
	store := newTestStore(t)
	_, ok, err := store.CacheGet("nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	store := newTestStore(t)

	// Already expired: reads act as if the key is gone even though the row
	// still sits in the table.
	require.NoError(t, store.CacheSet("expired", "v", time.Now().Unix()-10))
	_, ok, err := store.CacheGet("expired")
	require.NoError(t, err)
	assert.False(t, ok)

	// Zero deadline never expires.
	require.NoError(t, store.CacheSet("forever", "v", 0))
	v, ok, err := store.CacheGet("forever")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestCacheLastWriteWins(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CacheSet("k", "one", 0))
	require.NoError(t, store.CacheSet("k", "two", 0))

	v, ok, err := store.CacheGet("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", v)
}

func TestCacheSweep(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.CacheSet("expired", "v", time.Now().Unix()-10))
	require.NoError(t, store.CacheSet("live", "v", time.Now().Unix()+60))
	require.NoError(t, store.CacheSet("forever", "v", 0))

	removed, err := store.CacheSweep()
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok, err := store.CacheGet("live")
	require.NoError(t, err)
	assert.True(t, ok)
	_, ok, err = store.CacheGet("forever")
	require.NoError(t, err)
	assert.True(t, ok)
}
