package cache_test

import (
	"testing"
	"time"

	"planeteye/backend/internal/cache"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newTestRedis(t *testing.T) *cache.RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)

	c := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         mr.Addr(),
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	t.Cleanup(func() { c.Close() })
	return c
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := cache.NewMemoryCache()

	require.NoError(t, c.Set("k", payload{Name: "alpha", Count: 3}, time.Minute))

	var got payload
	require.NoError(t, c.Get("k", &got))
	assert.Equal(t, payload{Name: "alpha", Count: 3}, got)

	exists, err := c.Exists("k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, c.Delete("k"))
	assert.ErrorIs(t, c.Get("k", &got), cache.ErrCacheMiss)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := cache.NewMemoryCache()

	require.NoError(t, c.Set("k", "v", 10*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	var got string
	assert.ErrorIs(t, c.Get("k", &got), cache.ErrCacheMiss)

	exists, err := c.Exists("k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRedisCache_SetGetDelete(t *testing.T) {
	c := newTestRedis(t)

	require.NoError(t, c.Set("k", payload{Name: "beta", Count: 7}, time.Minute))

	var got payload
	require.NoError(t, c.Get("k", &got))
	assert.Equal(t, payload{Name: "beta", Count: 7}, got)

	require.NoError(t, c.Delete("k"))
	assert.ErrorIs(t, c.Get("k", &got), cache.ErrCacheMiss)
}

func TestRedisCache_Health(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.NewRedisCache(&cache.CacheConfig{Addr: mr.Addr(), DialTimeout: time.Second})
	defer c.Close()

	assert.NoError(t, c.Health())

	mr.Close()
	assert.ErrorIs(t, c.Health(), cache.ErrCacheDown)
}

func TestMultiLevelCache_MemoryOnly(t *testing.T) {
	c := cache.NewMultiLevelCache(nil)

	require.NoError(t, c.Set("k", "v", time.Minute))

	var got string
	require.NoError(t, c.Get("k", &got))
	assert.Equal(t, "v", got)

	assert.ErrorIs(t, c.Get("missing", &got), cache.ErrCacheMiss)
	assert.NoError(t, c.Health())
}

func TestMultiLevelCache_ReadThrough(t *testing.T) {
	redisCache := newTestRedis(t)
	c := cache.NewMultiLevelCache(redisCache)

	// Populate L2 directly; the first multilevel read falls through and
	// promotes the value to L1.
	require.NoError(t, redisCache.Set("k", payload{Name: "gamma", Count: 1}, time.Minute))

	var got payload
	require.NoError(t, c.Get("k", &got))
	assert.Equal(t, "gamma", got.Name)

	// A delete on L2 alone leaves the promoted L1 copy serving reads.
	require.NoError(t, redisCache.Delete("k"))
	require.NoError(t, c.Get("k", &got))

	// A delete through the multilevel cache clears both.
	require.NoError(t, c.Delete("k"))
	assert.ErrorIs(t, c.Get("k", &got), cache.ErrCacheMiss)
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := cache.NewCircuitBreaker(&cache.CircuitBreakerConfig{
		MaxFailures:      2,
		Timeout:          time.Hour,
		HalfOpenMaxCalls: 1,
	})
	failing := func() error { return assert.AnError }

	assert.Error(t, cb.Execute(failing))
	assert.Equal(t, cache.CircuitBreakerClosed, cb.GetState())

	assert.Error(t, cb.Execute(failing))
	assert.Equal(t, cache.CircuitBreakerOpen, cb.GetState())

	// The open breaker short-circuits without invoking the function.
	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, cache.ErrCircuitBreakerOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	cb := cache.NewCircuitBreaker(&cache.CircuitBreakerConfig{
		MaxFailures:      1,
		Timeout:          10 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	})

	assert.Error(t, cb.Execute(func() error { return assert.AnError }))
	assert.Equal(t, cache.CircuitBreakerOpen, cb.GetState())

	time.Sleep(20 * time.Millisecond)

	// The first success moves the breaker to half-open; reaching the
	// half-open call quota closes it again.
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, cache.CircuitBreakerHalfOpen, cb.GetState())

	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, cache.CircuitBreakerClosed, cb.GetState())
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := cache.NewCircuitBreaker(&cache.CircuitBreakerConfig{
		MaxFailures:      2,
		Timeout:          time.Hour,
		HalfOpenMaxCalls: 1,
	})

	assert.Error(t, cb.Execute(func() error { return assert.AnError }))
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Error(t, cb.Execute(func() error { return assert.AnError }))

	// Interleaved successes keep the breaker closed.
	assert.Equal(t, cache.CircuitBreakerClosed, cb.GetState())
}
