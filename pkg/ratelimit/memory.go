package ratelimit

import (
	"sync"
	"time"
)

type memoryWindow struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed-window limiter. Windows are pruned
// lazily on access.
type MemoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	limits  map[string]Limit
	now     func() time.Time
}

func NewMemoryLimiter(limits map[string]Limit) *MemoryLimiter {
	if limits == nil {
		limits = DefaultLimits()
	}
	return &MemoryLimiter{
		windows: make(map[string]*memoryWindow),
		limits:  limits,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(clientID, endpoint string) (bool, time.Duration, error) {
	limit := limitFor(l.limits, endpoint)
	key := endpoint + ":" + clientID
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = &memoryWindow{count: 1, resetAt: now.Add(limit.Window)}
		return true, 0, nil
	}

	if w.count >= limit.Requests {
		return false, w.resetAt.Sub(now), nil
	}

	w.count++
	return true, 0, nil
}

func (l *MemoryLimiter) LimitFor(endpoint string) Limit {
	return limitFor(l.limits, endpoint)
}
