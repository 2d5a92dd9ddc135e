// Package ratelimit bounds anonymous order creation. All guests share one
// bucket over a rolling window; authenticated and elevated callers are never
// limited. Two requests racing at the boundary may both be admitted.
package ratelimit

import (
	"context"

	"storefront/internal/domain"
)

// Limiter returns domain.ErrRateLimitExceeded when caller may not create
// another order right now.
type Limiter interface {
	Allow(ctx context.Context, caller domain.Caller) error
}

// Unlimited admits every caller. Used when the limit is disabled.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, domain.Caller) error { return nil }
