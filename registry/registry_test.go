package registry

import (
	"context"
	"testing"
	"time"

	"github.com/hoardcache/hoard/cache"
)

func TestCreateCacheIdempotent(t *testing.T) {
	r := New[string]()
	defer r.DestroyAll()

	first, err := r.CreateCache("users", Options{MaxSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := r.CreateCache("users", Options{MaxSize: 999})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatal("expected the same instance for the same name")
	}
	if got := second.MaxSize(); got != 10 {
		t.Fatalf("expected options of the first call to win, max size = %d", got)
	}
}

func TestCreateCacheDefaults(t *testing.T) {
	r := New[string]()
	defer r.DestroyAll()

	c, err := r.CreateCache("sessions", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.MaxSize(); got != DefaultMaxSize {
		t.Fatalf("expected default max size %d, got %d", DefaultMaxSize, got)
	}
	if got := c.DefaultTTL(); got != DefaultTTL {
		t.Fatalf("expected default ttl %v, got %v", DefaultTTL, got)
	}
}

func TestCreateCacheValidation(t *testing.T) {
	r := New[string]()
	defer r.DestroyAll()

	if _, err := r.CreateCache("", Options{}); err != ErrEmptyName {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := r.CreateCache("x", Options{MaxSize: -1}); err != ErrInvalidMaxSize {
		t.Fatalf("expected ErrInvalidMaxSize, got %v", err)
	}
	if _, err := r.CreateCache("x", Options{TTL: -time.Second}); err != ErrInvalidTTL {
		t.Fatalf("expected ErrInvalidTTL, got %v", err)
	}
	if _, ok := r.GetCache("x"); ok {
		t.Fatal("expected no cache registered after rejected configuration")
	}
}

func TestGetCache(t *testing.T) {
	r := New[string]()
	defer r.DestroyAll()

	if _, ok := r.GetCache("nope"); ok {
		t.Fatal("expected absence for unknown name")
	}
	created, err := r.CreateCache("users", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, ok := r.GetCache("users")
	if !ok || got != created {
		t.Fatal("expected GetCache to return the created instance")
	}
}

func TestDestroyCache(t *testing.T) {
	ctx := context.Background()
	r := New[string]()
	defer r.DestroyAll()

	c, err := r.CreateCache("users", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !r.DestroyCache("users") {
		t.Fatal("expected DestroyCache to report removal")
	}
	if r.DestroyCache("users") {
		t.Fatal("expected DestroyCache of unknown name to report false")
	}
	if _, ok := r.GetCache("users"); ok {
		t.Fatal("expected destroyed cache to be unregistered")
	}
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("expected destroyed cache to be miss-only")
	}
}

func TestAllStats(t *testing.T) {
	ctx := context.Background()
	r := New[string]()
	defer r.DestroyAll()

	users, _ := r.CreateCache("users", Options{})
	perms, _ := r.CreateCache("permissions", Options{})
	_ = users.Set(ctx, "u1", "alice")
	users.Get(ctx, "u1")
	perms.Get(ctx, "missing")

	stats := r.AllStats()
	if len(stats) != 2 {
		t.Fatalf("expected stats for 2 caches, got %d", len(stats))
	}
	if s := stats["users"]; s.Hits != 1 || s.Sets != 1 {
		t.Fatalf("unexpected users stats: %+v", s)
	}
	if s := stats["permissions"]; s.Misses != 1 {
		t.Fatalf("unexpected permissions stats: %+v", s)
	}
}

func TestClearAll(t *testing.T) {
	ctx := context.Background()
	r := New[string]()
	defer r.DestroyAll()

	a, _ := r.CreateCache("a", Options{})
	b, _ := r.CreateCache("b", Options{})
	_ = a.Set(ctx, "k", "v")
	_ = b.Set(ctx, "k", "v")

	r.ClearAll()
	if a.Size() != 0 || b.Size() != 0 {
		t.Fatal("expected every cache to be empty after ClearAll")
	}
	if _, ok := r.GetCache("a"); !ok {
		t.Fatal("expected caches to stay registered after ClearAll")
	}
}

func TestDestroyAll(t *testing.T) {
	r := New[string]()
	_, _ = r.CreateCache("a", Options{})
	_, _ = r.CreateCache("b", Options{})

	r.DestroyAll()
	if got := len(r.AllStats()); got != 0 {
		t.Fatalf("expected empty registry after DestroyAll, got %d caches", got)
	}
}

func TestDisableStatsOption(t *testing.T) {
	ctx := context.Background()
	r := New[string]()
	defer r.DestroyAll()

	c, err := r.CreateCache("quiet", Options{DisableStats: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = c.Set(ctx, "k", "v")
	c.Get(ctx, "k")
	if s := c.Stats(); s != (cache.Stats{}) {
		t.Fatalf("expected all-zero stats when disabled, got %+v", s)
	}
}
