package ratelimit

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
)

// Memory is a single-process sliding window, for local runs and tests.
type Memory struct {
	mu       sync.Mutex
	admitted []time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewMemory(limit int, window time.Duration) *Memory {
	return &Memory{limit: limit, window: window, now: time.Now}
}

func (l *Memory) Allow(_ context.Context, caller domain.Caller) error {
	if !caller.IsAnonymous() {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)
	valid := l.admitted[:0]
	for _, t := range l.admitted {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}
	l.admitted = valid
	if len(valid) >= l.limit {
		return domain.ErrRateLimitExceeded
	}
	l.admitted = append(l.admitted, now)
	return nil
}
