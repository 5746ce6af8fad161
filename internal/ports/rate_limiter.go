package ports

import "context"

// Contract for per-identity request throttling.
type RateLimiter interface {
	// Allow reports whether one more request from identity fits the current window.
	Allow(ctx context.Context, identity string) (bool, error)
}
