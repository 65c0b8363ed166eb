package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T, ttl time.Duration) *ResponseCache {
	t.Helper()
	c, err := Open(Config{InMemory: true, TTL: ttl})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheMiss(t *testing.T) {
	c := openTestCache(t, 0)
	_, ok := c.Get("posts:page=1")
	assert.False(t, ok)
}

func TestCacheSetGet(t *testing.T) {
	c := openTestCache(t, 0)
	require.NoError(t, c.Set("posts:page=1", []byte(`{"posts":[]}`)))

	got, ok := c.Get("posts:page=1")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"posts":[]}`), got)

	_, ok = c.Get("posts:page=2")
	assert.False(t, ok)
}

func TestCacheOverwrite(t *testing.T) {
	c := openTestCache(t, 0)
	require.NoError(t, c.Set("k", []byte("one")))
	require.NoError(t, c.Set("k", []byte("two")))

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), got)
}

func TestCacheEntriesExpire(t *testing.T) {
	c := openTestCache(t, 50*time.Millisecond)
	require.NoError(t, c.Set("k", []byte("short-lived")))

	_, ok := c.Get("k")
	require.True(t, ok)

	time.Sleep(120 * time.Millisecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
}
