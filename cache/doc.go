// Package cache implements a bounded in-memory key/value store with per-entry
// TTL expiration and least-recently-used eviction. Expired entries are removed
// lazily on access and by a background sweeper goroutine whose interval can be
// customized through options when creating the cache.
package cache
