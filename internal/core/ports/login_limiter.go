package ports

import "context"

// LoginLimiter throttles repeated authentication attempts for a caller key
// (username plus client address). Allow reports whether another attempt may
// proceed inside the current window.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
