// Package ratelimit throttles find-match requests per owner using a Redis
// fixed window counter (INCR + EXPIRE).
package ratelimit

import (
	"context"
	"fmt"
	"swap-match-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisLimiter allows Limit requests per identity within each Window.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow increments the identity's counter and reports whether it is within the limit.
// A counter without an expiry gets one, so a failed EXPIRE is retried on the next hit.
//
// On Redis errors it fails open (returns true with the error) so that a Redis
// outage does not block matching.
func (l *RedisLimiter) Allow(ctx context.Context, identity string) (bool, error) {
	key := l.prefix + identity

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		obs.Logger(ctx).Warn("rate limit check failed, allowing request", zap.String("key", key), zap.Error(err))
		return true, fmt.Errorf("rate limit: incr %s: %w", key, err)
	}

	// TTL is negative when the key has no expiry.
	if ttl.Val() < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			obs.Logger(ctx).Warn("rate limit expire failed", zap.String("key", key), zap.Error(err))
		}
	}

	return incr.Val() <= int64(l.limit), nil
}

func (l *RedisLimiter) Ping(ctx context.Context) error {
	if err := l.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("rate limit: ping redis: %w", err)
	}
	return nil
}
