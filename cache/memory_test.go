package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestMemoryCacheHitMiss(t *testing.T) {
	c := NewMemory[string](WithTTL(time.Minute))

	if _, ok := c.Get("u1:shelter"); ok {
		t.Fatal("expected cache miss")
	}

	c.Set("u1:shelter", "s1")
	got, ok := c.Get("u1:shelter")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got != "s1" {
		t.Fatalf("got %q", got)
	}
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	clock := newClock()
	c := NewMemory[bool](WithTTL(time.Minute), WithClock(clock.Now))

	c.Set("k", true)
	clock.Advance(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not removed, len=%d", c.Len())
	}
}

func TestMemoryCacheDisabled(t *testing.T) {
	c := NewMemory[int](WithTTL(0))
	c.Set("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Fatal("zero TTL must disable caching")
	}
}

func TestMemoryCacheInvalidatePrefix(t *testing.T) {
	c := NewMemory[int](WithTTL(time.Minute))
	c.Set("u1:Animal:owned", 1)
	c.Set("u1:User:owned", 2)
	c.Set("u10:User:owned", 3)
	c.Set("u2:User:owned", 4)

	if n := c.InvalidatePrefix("u1:"); n != 2 {
		t.Fatalf("expected 2 invalidated, got %d", n)
	}
	if _, ok := c.Get("u10:User:owned"); !ok {
		t.Fatal("prefix must respect the separator")
	}
	if _, ok := c.Get("u2:User:owned"); !ok {
		t.Fatal("other users must survive")
	}
}

func TestMemoryCacheMaxSize(t *testing.T) {
	clock := newClock()
	c := NewMemory[int](WithTTL(time.Minute), WithMaxSize(2), WithClock(clock.Now))

	c.Set("a", 1)
	clock.Advance(time.Second)
	c.Set("b", 2)
	clock.Advance(time.Second)
	c.Set("c", 3)

	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if _, ok := c.Get("a"); ok {
		t.Fatal("oldest entry should be evicted")
	}

	c.Set("b", 20)
	if c.Len() != 2 {
		t.Fatalf("overwrite must not evict, len=%d", c.Len())
	}
}

func TestMemoryCacheObserver(t *testing.T) {
	var hits, misses int
	c := NewMemory[int](WithName("shelter"), WithObserver(func(name string, hit bool) {
		if name != "shelter" {
			t.Errorf("unexpected cache name %q", name)
		}
		if hit {
			hits++
		} else {
			misses++
		}
	}))

	c.Get("k")
	c.Set("k", 1)
	c.Get("k")
	c.Get("k")

	if hits != 2 || misses != 1 {
		t.Fatalf("hits=%d misses=%d", hits, misses)
	}
}

func TestMemoryCachePurge(t *testing.T) {
	c := NewMemory[int]()
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}
