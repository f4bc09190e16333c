package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unburyme/domain"
)

func TestCacheKey(t *testing.T) {
	a := domain.Loan{Principal: 100000, AnnualInterestRatePercent: 6, TermYears: 30}
	b := domain.Loan{Principal: 100000, AnnualInterestRatePercent: 6, TermYears: 15}

	assert.Equal(t, CacheKey("loan", a), CacheKey("loan", a))
	assert.NotEqual(t, CacheKey("loan", a), CacheKey("loan", b))
	assert.NotEqual(t, CacheKey("loan", a), CacheKey("schedule", a))
	assert.Regexp(t, `^loan:[0-9a-f]+$`, CacheKey("loan", a))
}

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v1"))
	require.NoError(t, c.Set(ctx, "k", "v2"))

	got, ok := c.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "v2", got)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(2, time.Minute)

	require.NoError(t, c.Set(ctx, "a", "1"))
	require.NoError(t, c.Set(ctx, "b", "2"))
	_, _ = c.Get(ctx, "a")
	require.NoError(t, c.Set(ctx, "c", "3"))

	_, ok := c.Get(ctx, "b")
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get(ctx, "a")
	assert.True(t, ok)
	_, ok = c.Get(ctx, "c")
	assert.True(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(10, time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "a", "1"))
	require.NoError(t, c.Set(ctx, "b", "2"))

	now = now.Add(30 * time.Second)
	require.NoError(t, c.Set(ctx, "c", "3"))

	now = now.Add(45 * time.Second)
	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)

	assert.Equal(t, 1, c.CleanExpired())
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get(ctx, "c")
	assert.True(t, ok)
	assert.Equal(t, "3", got)
}

func TestNoopCache(t *testing.T) {
	ctx := context.Background()
	var c CacheRepository = NoopCache{}

	require.NoError(t, c.Set(ctx, "k", "v"))
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisCache_Integration(t *testing.T) {
	addr := os.Getenv("UNBURYME_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("UNBURYME_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c := NewRedisCache(addr, time.Minute)
	t.Cleanup(func() { c.Close() })
	require.NoError(t, c.Ping(ctx))

	key := CacheKey("test", domain.Loan{Principal: 1, AnnualInterestRatePercent: 1, TermYears: 1})
	require.NoError(t, c.Set(ctx, key, "payload"))

	got, ok := c.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, "payload", got)
}
