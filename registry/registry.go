package registry

import (
	"errors"
	"sync"
	"time"

	"github.com/hoardcache/hoard/cache"
)

// Invalid configuration is the only error surface of the engine: everything
// else degrades to a miss so that caching is never the reason a caller fails.
var (
	ErrEmptyName      = errors.New("registry: cache name must not be empty")
	ErrInvalidMaxSize = errors.New("registry: max size must not be negative")
	ErrInvalidTTL     = errors.New("registry: ttl must not be negative")
)

// Defaults applied by CreateCache when the corresponding Options field is
// left at its zero value.
const (
	DefaultTTL           = 5 * time.Minute
	DefaultMaxSize       = 1000
	DefaultSweepInterval = time.Minute
)

// Options configures a cache created through a Registry. Zero values mean
// defaults. Statistics are collected unless explicitly disabled.
type Options struct {
	// TTL is the default time-to-live applied by Set.
	TTL time.Duration
	// MaxSize bounds the number of entries; the least recently used entry
	// is evicted when the bound is hit.
	MaxSize int
	// DisableStats turns off hit/miss bookkeeping for this cache.
	DisableStats bool
	// SweepInterval controls the background expiry sweep. Negative values
	// disable the sweeper.
	SweepInterval time.Duration
}

// Registry manages named caches that share a value type. It is an explicit
// value rather than package-level state so tests can run independent
// registries side by side. The registry lock is distinct from every cache's
// own lock, so creating or looking up caches never contends with cache
// operations.
type Registry[T any] struct {
	mu     sync.RWMutex
	caches map[string]*cache.Cache[T]
}

// New returns an empty Registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{caches: make(map[string]*cache.Cache[T])}
}

// CreateCache returns the cache registered under name, creating it when
// absent. Creation is idempotent: when the name already exists the existing
// instance is returned and opts is ignored entirely, it is not merged. Live
// reconfiguration of an existing cache is deliberately unsupported.
func (r *Registry[T]) CreateCache(name string, opts Options) (*cache.Cache[T], error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if opts.MaxSize < 0 {
		return nil, ErrInvalidMaxSize
	}
	if opts.TTL < 0 {
		return nil, ErrInvalidTTL
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.caches[name]; ok {
		return c, nil
	}

	ttl := opts.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	maxSize := opts.MaxSize
	if maxSize == 0 {
		maxSize = DefaultMaxSize
	}
	sweep := opts.SweepInterval
	if sweep == 0 {
		sweep = DefaultSweepInterval
	}

	copts := []cache.Option[T]{
		cache.WithDefaultTTL[T](ttl),
		cache.WithMaxSize[T](maxSize),
		cache.WithSweepInterval[T](sweep),
	}
	if opts.DisableStats {
		copts = append(copts, cache.WithoutStats[T]())
	}
	c := cache.New[T](copts...)
	r.caches[name] = c
	return c, nil
}

// GetCache returns the cache registered under name, if any.
func (r *Registry[T]) GetCache(name string) (*cache.Cache[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caches[name]
	return c, ok
}

// DestroyCache destroys the named cache and removes it from the registry.
// It returns false when the name is unknown.
func (r *Registry[T]) DestroyCache(name string) bool {
	r.mu.Lock()
	c, ok := r.caches[name]
	if ok {
		delete(r.caches, name)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	c.Destroy()
	return true
}

// AllStats returns a statistics snapshot for every registered cache, keyed
// by cache name.
func (r *Registry[T]) AllStats() map[string]cache.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]cache.Stats, len(r.caches))
	for name, c := range r.caches {
		out[name] = c.Stats()
	}
	return out
}

// ClearAll removes every entry from every registered cache. The caches
// themselves stay registered and usable.
func (r *Registry[T]) ClearAll() {
	r.mu.RLock()
	caches := make([]*cache.Cache[T], 0, len(r.caches))
	for _, c := range r.caches {
		caches = append(caches, c)
	}
	r.mu.RUnlock()
	for _, c := range caches {
		c.Clear()
	}
}

// DestroyAll destroys every registered cache and empties the registry.
func (r *Registry[T]) DestroyAll() {
	r.mu.Lock()
	caches := make([]*cache.Cache[T], 0, len(r.caches))
	for _, c := range r.caches {
		caches = append(caches, c)
	}
	r.caches = make(map[string]*cache.Cache[T])
	r.mu.Unlock()
	for _, c := range caches {
		c.Destroy()
	}
}
