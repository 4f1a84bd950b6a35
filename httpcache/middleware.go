// Package httpcache adapts a cache to an http.Handler chain: a request whose
// key is already cached is answered directly, and responses produced
// downstream are captured so the next identical request hits the cache.
package httpcache

import (
	"bytes"
	"net/http"
	"time"

	"github.com/hoardcache/hoard/cache"
)

// Response is the cached form of an HTTP response. Status and content type
// travel with the body so a replayed hit is indistinguishable from the
// original answer.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// KeyFunc derives the cache key for a request. Returning the empty string
// bypasses caching for that request.
type KeyFunc func(r *http.Request) string

// DefaultKey keys a response by method and request URI.
func DefaultKey(r *http.Request) string {
	return r.Method + " " + r.URL.RequestURI()
}

// Middleware returns a middleware that serves cached responses for keys
// produced by keyFn and stores successful (2xx) downstream responses for
// ttl. A non-positive ttl falls back to the cache's default TTL. A nil keyFn
// uses DefaultKey.
//
// Cache faults never fail a request: a store rejection is ignored and the
// response already written to the client stands.
func Middleware(c *cache.Cache[Response], keyFn KeyFunc, ttl time.Duration) func(http.Handler) http.Handler {
	if keyFn == nil {
		keyFn = DefaultKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFn(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if resp, ok := c.Get(r.Context(), key); ok {
				if resp.ContentType != "" {
					w.Header().Set("Content-Type", resp.ContentType)
				}
				w.WriteHeader(resp.StatusCode)
				_, _ = w.Write(resp.Body)
				return
			}

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			status := rec.status()
			if status < 200 || status >= 300 {
				return
			}
			resp := Response{
				StatusCode:  status,
				ContentType: w.Header().Get("Content-Type"),
				Body:        rec.body.Bytes(),
			}
			if ttl > 0 {
				_ = c.SetWithTTL(r.Context(), key, resp, ttl)
			} else {
				_ = c.Set(r.Context(), key, resp)
			}
		})
	}
}

// recorder passes writes through to the client while keeping a copy of the
// body and the status code for the cache.
type recorder struct {
	http.ResponseWriter
	code  int
	wrote bool
	body  bytes.Buffer
}

func (r *recorder) WriteHeader(code int) {
	if r.wrote {
		return
	}
	r.wrote = true
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *recorder) Write(b []byte) (int, error) {
	if !r.wrote {
		r.WriteHeader(http.StatusOK)
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *recorder) status() int {
	if !r.wrote {
		return http.StatusOK
	}
	return r.code
}
