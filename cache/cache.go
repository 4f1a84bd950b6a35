package cache

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/hoardcache/hoard/cache")

// ErrEmptyKey is returned by Set when the key is the empty string.
var ErrEmptyKey = errors.New("cache: key must not be empty")

// defaultSweepInterval is the default period for removing expired entries.
// It is intentionally independent of any individual TTL: the sweep only
// exists to bound memory for keys that are written and never read again.
const defaultSweepInterval = time.Minute

const (
	defaultTTL     = 5 * time.Minute
	defaultMaxSize = 1000
)

// Cache is a bounded, TTL-aware key/value store with LRU eviction.
//
// T represents the type of values stored in the cache. All operations are
// safe for concurrent use; each cache holds its own lock so unrelated
// caches never contend.
type Cache[T any] struct {
	mu      sync.RWMutex
	entries map[string]*entry[T]
	order   *list.List // front = most recently used

	id            string
	maxSize       int
	ttl           time.Duration
	sweepInterval time.Duration
	clock         Clock
	statsEnabled  bool
	destroyed     bool
	stats         Stats

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	prom         *collectors
	traceEnabled bool
}

type entry[T any] struct {
	key            string
	value          T
	expiresAt      time.Time
	accessCount    uint64
	lastAccessedAt time.Time
	element        *list.Element
}

// New returns a new Cache.
//
// Unless configured otherwise, the cache holds at most 1000 entries, applies
// a default TTL of five minutes and sweeps expired entries once a minute in
// a background goroutine. Call Destroy to stop the sweeper.
func New[T any](opts ...Option[T]) *Cache[T] {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache[T]{
		entries:       make(map[string]*entry[T]),
		order:         list.New(),
		id:            uuid.NewString(),
		maxSize:       defaultMaxSize,
		ttl:           defaultTTL,
		sweepInterval: defaultSweepInterval,
		clock:         systemClock{},
		statsEnabled:  true,
		ctx:           ctx,
		cancel:        cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sweepInterval > 0 {
		c.wg.Add(1)
		go c.sweeper()
	}
	return c
}

// ID returns the unique identifier assigned to this cache instance. The
// cache does not know the name it was registered under, so the id is what
// ties metrics and traces back to a concrete instance.
func (c *Cache[T]) ID() string { return c.id }

// MaxSize returns the configured capacity.
func (c *Cache[T]) MaxSize() int { return c.maxSize }

// DefaultTTL returns the TTL applied by Set.
func (c *Cache[T]) DefaultTTL() time.Duration { return c.ttl }

// Set stores value under key using the cache's default TTL.
func (c *Cache[T]) Set(ctx context.Context, key string, value T) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores value under key for the given TTL.
//
// A zero TTL creates the entry already expired: the next Get is a guaranteed
// miss. A negative TTL is clamped to zero. When the key is new and the cache
// is full, the least recently used entry is evicted first.
func (c *Cache[T]) SetWithTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, span := c.startSpan(ctx, "Cache.Set")
	if span != nil {
		defer span.End()
	}
	if ttl < 0 {
		ttl = 0
	}
	now := c.clock.Now()
	exp := now.Add(ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return nil
	}
	if c.statsEnabled {
		c.stats.Sets++
	}
	c.prom.incSet()
	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = exp
		e.lastAccessedAt = now
		c.order.MoveToFront(e.element)
		return nil
	}
	if c.maxSize == 0 {
		return nil
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}
	e := &entry[T]{key: key, value: value, expiresAt: exp, lastAccessedAt: now}
	e.element = c.order.PushFront(e)
	c.entries[key] = e
	return nil
}

// Get retrieves the value for key. The boolean reports whether a live entry
// was found. An expired entry is removed on discovery and reported as a miss.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool) {
	_, span := c.startSpan(ctx, "Cache.Get")
	if span != nil {
		defer span.End()
	}
	now := c.clock.Now()

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		if c.statsEnabled {
			c.stats.Misses++
		}
		c.mu.Unlock()
		c.prom.incMiss()
		c.setResult(span, "miss")
		var zero T
		return zero, false
	}
	if !now.Before(e.expiresAt) {
		// lazy expiry: counts as both a miss and a delete
		c.removeLocked(e)
		if c.statsEnabled {
			c.stats.Misses++
			c.stats.Deletes++
		}
		c.mu.Unlock()
		c.prom.incMiss()
		c.setResult(span, "expired")
		var zero T
		return zero, false
	}
	e.accessCount++
	e.lastAccessedAt = now
	c.order.MoveToFront(e.element)
	if c.statsEnabled {
		c.stats.Hits++
	}
	v := e.value
	c.mu.Unlock()
	c.prom.incHit()
	c.setResult(span, "hit")
	return v, true
}

// Has reports whether a live entry exists for key. Unlike Get it is a
// structural probe: it does not touch access metadata and does not count as
// a hit or a miss, so probing never skews the hit rate. An expired entry
// discovered by Has is still removed.
func (c *Cache[T]) Has(ctx context.Context, key string) bool {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if !now.Before(e.expiresAt) {
		c.removeLocked(e)
		if c.statsEnabled {
			c.stats.Deletes++
		}
		return false
	}
	return true
}

// Delete removes key from the cache. It returns true if an entry was removed.
func (c *Cache[T]) Delete(ctx context.Context, key string) bool {
	_, span := c.startSpan(ctx, "Cache.Delete")
	if span != nil {
		defer span.End()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.removeLocked(e)
	if c.statsEnabled {
		c.stats.Deletes++
	}
	c.prom.incDelete()
	return true
}

// Clear removes every entry. The removed entries count toward the delete
// statistic.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string]*entry[T])
	c.order.Init()
	if c.statsEnabled {
		c.stats.Deletes += uint64(n)
	}
}

// Size returns the current number of entries, including any that have
// expired but have not yet been removed by access or sweep.
func (c *Cache[T]) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Keys returns a snapshot of the keys currently present. The slice is not
// kept in sync with later mutations.
func (c *Cache[T]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// Stats returns a snapshot of the cache statistics. When statistics are
// disabled it returns the zero Stats rather than failing.
func (c *Cache[T]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.statsEnabled {
		return Stats{}
	}
	s := c.stats
	s.Size = len(c.entries)
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}

// Destroy stops the background sweeper and drops every entry. It is
// synchronous and idempotent: once it returns no further sweep runs, and the
// cache behaves as an empty, miss-only store. Set becomes a no-op.
func (c *Cache[T]) Destroy() {
	c.cancel()
	c.wg.Wait()
	c.mu.Lock()
	c.destroyed = true
	c.entries = make(map[string]*entry[T])
	c.order.Init()
	c.mu.Unlock()
}

// evictOldest removes the LRU victim: the back of the order list. Entries
// that share a lastAccessedAt keep their relative recency order, so the
// choice is deterministic. Must be called with the lock held.
func (c *Cache[T]) evictOldest() {
	tail := c.order.Back()
	if tail == nil {
		return
	}
	c.removeLocked(tail.Value.(*entry[T]))
	if c.statsEnabled {
		c.stats.Evictions++
	}
	c.prom.incEviction()
}

// Must be called with the lock held.
func (c *Cache[T]) removeLocked(e *entry[T]) {
	c.order.Remove(e.element)
	delete(c.entries, e.key)
}

// sweeper periodically removes expired entries so that keys which are set
// and never read again do not pile up until process exit.
func (c *Cache[T]) sweeper() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Cache[T]) sweep() {
	now := c.clock.Now()
	c.mu.Lock()
	for _, e := range c.entries {
		if !now.Before(e.expiresAt) {
			c.removeLocked(e)
			if c.statsEnabled {
				c.stats.Deletes++
			}
			c.prom.incDelete()
		}
	}
	c.mu.Unlock()
}

func (c *Cache[T]) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !c.traceEnabled {
		return ctx, nil
	}
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(attribute.String("hoard.cache.id", c.id))
	return ctx, span
}

func (c *Cache[T]) setResult(span trace.Span, result string) {
	if span != nil {
		span.SetAttributes(attribute.String("hoard.cache.result", result))
	}
}
