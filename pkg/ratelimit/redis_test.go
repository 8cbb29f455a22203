package ratelimit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLimiter(t *testing.T, limits map[string]Limit) (*RedisLimiter, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisLimiter(client, limits), mr
}

func TestRedisLimiter_EnforcesWindow(t *testing.T) {
	limiter, _ := setupRedisLimiter(t, map[string]Limit{
		EndpointAuth:    {Requests: 3, Window: time.Minute},
		EndpointDefault: {Requests: 100, Window: time.Minute},
	})

	for i := 0; i < 3; i++ {
		allowed, _, err := limiter.Allow("user:a", EndpointAuth)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, retryAfter, err := limiter.Allow("user:a", EndpointAuth)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestRedisLimiter_WindowExpires(t *testing.T) {
	limiter, mr := setupRedisLimiter(t, map[string]Limit{
		EndpointAuth:    {Requests: 1, Window: time.Minute},
		EndpointDefault: {Requests: 100, Window: time.Minute},
	})

	allowed, _, _ := limiter.Allow("user:a", EndpointAuth)
	assert.True(t, allowed)
	allowed, _, _ = limiter.Allow("user:a", EndpointAuth)
	assert.False(t, allowed)

	mr.FastForward(61 * time.Second)

	allowed, _, err := limiter.Allow("user:a", EndpointAuth)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter_FailsOpen(t *testing.T) {
	limiter, mr := setupRedisLimiter(t, nil)
	mr.Close()

	allowed, _, err := limiter.Allow("user:a", EndpointAuth)
	assert.Error(t, err)
	assert.True(t, allowed)
}
