package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = time.Minute
)

// LoginLimiter throttles authentication attempts with a fixed-window counter
// in Redis. Key format: login_attempts:<username>@<remote_addr>
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client with
// default limits (10 attempts per minute per key).
func NewLoginLimiter(client *redis.Client) *LoginLimiter {
	return &LoginLimiter{client: client, maxAttempts: defaultMaxAttempts, window: defaultWindow}
}

// WithLimits overrides the attempt budget and window. Zero or negative values
// keep the defaults.
func (l *LoginLimiter) WithLimits(maxAttempts int64, window time.Duration) *LoginLimiter {
	if maxAttempts > 0 {
		l.maxAttempts = maxAttempts
	}
	if window > 0 {
		l.window = window
	}
	return l
}

// Allow records one attempt for key and reports whether it fits the current
// window. The increment and the expiry travel in one transaction, and the
// expiry is re-armed (NX) on every attempt: a counter can never survive
// without a TTL, so a dropped connection cannot strand a key that throttles
// the caller forever.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.key(key)

	var attempts *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		attempts = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("count login attempt: %w", err)
	}

	return attempts.Val() <= l.maxAttempts, nil
}

func (l *LoginLimiter) key(key string) string {
	return fmt.Sprintf("login_attempts:%s", key)
}
