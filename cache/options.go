package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Cache.
type Option[T any] func(*Cache[T])

// WithMaxSize sets the maximum number of entries the cache can hold. A
// negative value is ignored; zero makes the cache store nothing, which is
// only useful for tombstone-style writes.
func WithMaxSize[T any](n int) Option[T] {
	return func(c *Cache[T]) {
		if n >= 0 {
			c.maxSize = n
		}
	}
}

// WithDefaultTTL sets the TTL applied by Set. A negative value is ignored.
func WithDefaultTTL[T any](d time.Duration) Option[T] {
	return func(c *Cache[T]) {
		if d >= 0 {
			c.ttl = d
		}
	}
}

// WithSweepInterval sets the interval at which expired entries are removed.
// A zero or negative duration disables the background sweeper; expired
// entries are then only removed lazily on access.
func WithSweepInterval[T any](d time.Duration) Option[T] {
	return func(c *Cache[T]) {
		c.sweepInterval = d
	}
}

// WithClock replaces the time source used for TTL checks and access
// timestamps. Intended for tests.
func WithClock[T any](clk Clock) Option[T] {
	return func(c *Cache[T]) {
		if clk != nil {
			c.clock = clk
		}
	}
}

// WithoutStats disables statistics bookkeeping. Stats still works afterwards
// and returns the zero value.
func WithoutStats[T any]() Option[T] {
	return func(c *Cache[T]) {
		c.statsEnabled = false
	}
}

// WithTracing enables OpenTelemetry spans around cache operations.
func WithTracing[T any]() Option[T] {
	return func(c *Cache[T]) {
		c.traceEnabled = true
	}
}

// WithMetrics enables Prometheus metrics collection using the provided
// registerer. The cache id is attached as a constant label so several caches
// can share one registry.
func WithMetrics[T any](reg prometheus.Registerer) Option[T] {
	return func(c *Cache[T]) {
		c.prom = newCollectors(reg, c.id)
	}
}
