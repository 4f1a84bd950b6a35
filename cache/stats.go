package cache

// Stats reports usage counters for a cache. All counters are cumulative for
// the lifetime of the cache instance; Size and HitRate are derived at
// snapshot time.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Sets      uint64
	Deletes   uint64
	Evictions uint64
	Size      int
	// HitRate is Hits/(Hits+Misses), or 0 when no lookups happened yet.
	HitRate float64
}
