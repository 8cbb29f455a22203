package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter shared across instances. INCR plus
// a window-length EXPIRE on first hit; the TTL of the key is the retry-after.
type RedisLimiter struct {
	client *redis.Client
	limits map[string]Limit
	prefix string
}

func NewRedisLimiter(client *redis.Client, limits map[string]Limit) *RedisLimiter {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &RedisLimiter{
		client: client,
		limits: limits,
		prefix: "ratelimit:",
	}
}

func (l *RedisLimiter) Allow(clientID, endpoint string) (bool, time.Duration, error) {
	limit := limitFor(l.limits, endpoint)
	key := fmt.Sprintf("%s%s:%s", l.prefix, endpoint, clientID)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		// Fail open: a broken limiter must not take the API down
		return true, 0, err
	}

	if count == 1 {
		if err := l.client.Expire(ctx, key, limit.Window).Err(); err != nil {
			return true, 0, err
		}
	}

	if count > int64(limit.Requests) {
		ttl, err := l.client.TTL(ctx, key).Result()
		if err != nil || ttl < 0 {
			ttl = limit.Window
		}
		return false, ttl, nil
	}

	return true, 0, nil
}

func (l *RedisLimiter) LimitFor(endpoint string) Limit {
	return limitFor(l.limits, endpoint)
}
