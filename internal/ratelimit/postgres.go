package ratelimit

import (
	"context"
	"time"

	"storefront/internal/domain"
)

// AnonymousCounter counts guest orders created after since.
type AnonymousCounter interface {
	CountAnonymousSince(ctx context.Context, since time.Time) (int, error)
}

// OrderCount limits by counting guest orders already stored in the window.
// It keeps no state of its own; the order insert is the record.
type OrderCount struct {
	counter AnonymousCounter
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewOrderCount(counter AnonymousCounter, limit int, window time.Duration) *OrderCount {
	return &OrderCount{counter: counter, limit: limit, window: window, now: time.Now}
}

func (l *OrderCount) Allow(ctx context.Context, caller domain.Caller) error {
	if !caller.IsAnonymous() {
		return nil
	}
	n, err := l.counter.CountAnonymousSince(ctx, l.now().Add(-l.window))
	if err != nil {
		return &domain.StorageError{Op: "count anonymous orders", Err: err}
	}
	if n >= l.limit {
		return domain.ErrRateLimitExceeded
	}
	return nil
}
