package ratelimit

import (
	"context"
	"time"
)

// Window allows at most Limit hits per key within Duration. A zero Limit
// disables the check.
type Window struct {
	Limit    int
	Duration time.Duration
}

type RateLimiter interface {
	// Allow records one hit for key and reports whether it stays within w.
	Allow(ctx context.Context, key string, w Window) (bool, error)
	// Hits returns how many hits key has inside the trailing window.
	Hits(ctx context.Context, key string, window time.Duration) (int64, error)
	Reset(ctx context.Context, key string) error
}
