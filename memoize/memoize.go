// Package memoize caches the result of an expensive operation keyed by its
// argument. The wrapper is a plain higher-order function; no code generation
// or struct embedding is involved.
package memoize

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hoardcache/hoard/cache"
)

// Func is an operation whose result can be memoized.
type Func[A, R any] func(ctx context.Context, arg A) (R, error)

// KeyFunc derives the cache key for an argument.
type KeyFunc[A any] func(arg A) string

// Option configures Wrap.
type Option func(*config)

type config struct {
	ttl          time.Duration
	ttlSet       bool
	singleFlight bool
}

// WithTTL overrides the cache's default TTL for memoized results.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		c.ttl = d
		c.ttlSet = true
	}
}

// WithSingleFlight deduplicates concurrent calls that share a key: while one
// invocation is in flight, further callers wait for its result instead of
// invoking the operation again. Without this option two concurrent calls
// with the same key both invoke the operation, since the cache is only
// consulted before the operation starts.
func WithSingleFlight() Option {
	return func(c *config) {
		c.singleFlight = true
	}
}

// Wrap returns a function with the same shape as fn that consults c before
// invoking it. On a hit the cached result is returned and fn never runs. On
// a miss fn runs and its result is stored under keyFn(arg) for the next
// call.
//
// Errors from fn propagate unchanged and are never cached, so a failed call
// leaves the key absent and the next call retries. The cache holds no lock
// while fn runs.
func Wrap[A, R any](c *cache.Cache[R], keyFn KeyFunc[A], fn Func[A, R], opts ...Option) Func[A, R] {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	var group singleflight.Group

	call := func(ctx context.Context, key string, arg A) (R, error) {
		v, err := fn(ctx, arg)
		if err != nil {
			var zero R
			return zero, err
		}
		// A rejected store (for example an empty key) must not fail the
		// call; the result is simply not cached.
		if cfg.ttlSet {
			_ = c.SetWithTTL(ctx, key, v, cfg.ttl)
		} else {
			_ = c.Set(ctx, key, v)
		}
		return v, nil
	}

	return func(ctx context.Context, arg A) (R, error) {
		key := keyFn(arg)
		if v, ok := c.Get(ctx, key); ok {
			return v, nil
		}
		if !cfg.singleFlight {
			return call(ctx, key, arg)
		}
		v, err, _ := group.Do(key, func() (any, error) {
			return call(ctx, key, arg)
		})
		if err != nil {
			var zero R
			return zero, err
		}
		return v.(R), nil
	}
}
