// Package registry manages multiple independently configured named caches.
// Creation is idempotent and lookups never fail with an error; absence is
// reported through boolean returns.
package registry
