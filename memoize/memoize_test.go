package memoize

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hoardcache/hoard/cache"
)

func newTestCache() *cache.Cache[string] {
	return cache.New[string](cache.WithSweepInterval[string](0))
}

func TestWrapCachesResult(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	defer c.Destroy()

	var calls int32
	lookup := Wrap(c,
		func(id int) string { return "user:" + strconv.Itoa(id) },
		func(ctx context.Context, id int) (string, error) {
			atomic.AddInt32(&calls, 1)
			return "user-" + strconv.Itoa(id), nil
		},
	)

	for i := 0; i < 3; i++ {
		v, err := lookup(ctx, 42)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "user-42" {
			t.Fatalf("expected user-42, got %q", v)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one underlying call, got %d", got)
	}

	if v, err := lookup(ctx, 7); err != nil || v != "user-7" {
		t.Fatalf("expected fresh result for new key, got %q, %v", v, err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected second call for distinct key, got %d", got)
	}
}

func TestWrapNoNegativeCaching(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	defer c.Destroy()

	var calls int32
	boom := errors.New("backend down")
	lookup := Wrap(c,
		func(id int) string { return strconv.Itoa(id) },
		func(ctx context.Context, id int) (string, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return "", boom
			}
			return "ok", nil
		},
	)

	if _, err := lookup(ctx, 1); !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
	v, err := lookup(ctx, 1)
	if err != nil {
		t.Fatalf("expected retry after failure, got %v", err)
	}
	if v != "ok" {
		t.Fatalf("expected ok, got %q", v)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected failure not to be cached, calls=%d", got)
	}
}

func TestWrapWithTTL(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	defer c.Destroy()

	var calls int32
	counted := Wrap(c,
		func(k string) string { return k },
		func(ctx context.Context, k string) (string, error) {
			atomic.AddInt32(&calls, 1)
			return "v", nil
		},
		WithTTL(0), // tombstone TTL: every call recomputes
	)

	for i := 0; i < 3; i++ {
		if _, err := counted(ctx, "k"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected zero TTL to disable reuse, calls=%d", got)
	}
}

func TestWrapSingleFlight(t *testing.T) {
	ctx := context.Background()
	c := newTestCache()
	defer c.Destroy()

	var calls int32
	release := make(chan struct{})
	lookup := Wrap(c,
		func(k string) string { return k },
		func(ctx context.Context, k string) (string, error) {
			atomic.AddInt32(&calls, 1)
			<-release
			return "v", nil
		},
		WithSingleFlight(),
	)

	const callers = 10
	var wg sync.WaitGroup
	results := make([]string, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := lookup(ctx, "hot")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results[i] = v
		}(i)
	}

	// let every caller reach the wrapper before the flight completes
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected one in-flight call shared by all callers, got %d", got)
	}
	for i, v := range results {
		if v != "v" {
			t.Fatalf("caller %d got %q", i, v)
		}
	}
}
