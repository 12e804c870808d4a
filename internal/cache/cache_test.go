package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, Key("loan", "1000"), Key("loan", "1000"))
	assert.NotEqual(t, Key("loan", "1000"), Key("loan", "1001"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
	assert.Contains(t, Key("x"), "fincalc:")
}

func TestMemoryCacheGetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v"))
	val, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", val)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v"))

	now = now.Add(30 * time.Second)
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok, "entry should survive within its ttl")

	now = now.Add(time.Minute)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok, "entry should expire after its ttl")
	assert.Equal(t, 0, c.Len())
}

func TestRedisCacheImplementsRepository(t *testing.T) {
	var _ Repository = (*RedisCache)(nil)
	var _ Repository = (*MemoryCache)(nil)

	c := NewRedisCache(nil, "127.0.0.1:0", "", 0, time.Minute)
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, ok := c.Get(ctx, "anything")
	assert.False(t, ok, "unreachable server should report a miss")
}
