package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_EnforcesWindow(t *testing.T) {
	current := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(map[string]Limit{
		EndpointAuth:    {Requests: 2, Window: time.Minute},
		EndpointDefault: {Requests: 100, Window: time.Minute},
	})
	limiter.now = func() time.Time { return current }

	allowed, _, err := limiter.Allow("user:a", EndpointAuth)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, _, err = limiter.Allow("user:a", EndpointAuth)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, retryAfter, err := limiter.Allow("user:a", EndpointAuth)
	require.NoError(t, err)
	assert.False(t, allowed)
	// Measured against the injected clock, not the wall clock
	assert.Equal(t, time.Minute, retryAfter)

	current = current.Add(20 * time.Second)
	allowed, retryAfter, err = limiter.Allow("user:a", EndpointAuth)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 40*time.Second, retryAfter)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	current := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(map[string]Limit{
		EndpointAuth:    {Requests: 1, Window: time.Minute},
		EndpointDefault: {Requests: 100, Window: time.Minute},
	})
	limiter.now = func() time.Time { return current }

	allowed, _, _ := limiter.Allow("user:a", EndpointAuth)
	assert.True(t, allowed)

	allowed, _, _ = limiter.Allow("user:a", EndpointAuth)
	assert.False(t, allowed)

	current = current.Add(61 * time.Second)
	allowed, _, _ = limiter.Allow("user:a", EndpointAuth)
	assert.True(t, allowed)
}

func TestMemoryLimiter_IsolatesClientsAndEndpoints(t *testing.T) {
	limiter := NewMemoryLimiter(map[string]Limit{
		EndpointAuth:    {Requests: 1, Window: time.Minute},
		EndpointDefault: {Requests: 1, Window: time.Minute},
	})

	allowed, _, _ := limiter.Allow("user:a", EndpointAuth)
	assert.True(t, allowed)
	allowed, _, _ = limiter.Allow("user:a", EndpointAuth)
	assert.False(t, allowed)

	// Different client, same endpoint
	allowed, _, _ = limiter.Allow("user:b", EndpointAuth)
	assert.True(t, allowed)

	// Same client, different endpoint
	allowed, _, _ = limiter.Allow("user:a", EndpointDefault)
	assert.True(t, allowed)
}

func TestLimitFor_FallsBackToDefault(t *testing.T) {
	limiter := NewMemoryLimiter(nil)

	assert.Equal(t, DefaultLimits()[EndpointAuth], limiter.LimitFor(EndpointAuth))
	assert.Equal(t, DefaultLimits()[EndpointDefault], limiter.LimitFor("unknown"))
}
