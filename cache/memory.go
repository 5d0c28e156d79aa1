// Package cache provides the TTL caches behind the content resolver and
// the authorization requirement checks.
package cache

import (
	"strings"
	"sync"
	"time"
)

// Observer is told about every Get outcome. name identifies the cache.
type Observer func(name string, hit bool)

// Memory is an in-memory TTL cache with a bounded entry count. Keys are
// structured strings ("user:kind:..."); invalidation works on key prefixes.
type Memory[V any] struct {
	mu       sync.RWMutex
	entries  map[string]*entry[V]
	name     string
	ttl      time.Duration
	maxSize  int
	observer Observer
	now      func() time.Time
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type settings struct {
	name     string
	ttl      time.Duration
	maxSize  int
	observer Observer
	now      func() time.Time
}

// Option configures a Memory cache.
type Option func(*settings)

// WithName labels the cache for observers.
func WithName(name string) Option {
	return func(s *settings) { s.name = name }
}

// WithTTL sets the cache entry time-to-live. A non-positive TTL disables
// caching: every Get misses.
func WithTTL(ttl time.Duration) Option {
	return func(s *settings) { s.ttl = ttl }
}

// WithMaxSize sets the maximum number of cache entries.
func WithMaxSize(n int) Option {
	return func(s *settings) { s.maxSize = n }
}

// WithObserver registers a hit/miss observer.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// NewMemory creates a new in-memory cache.
func NewMemory[V any](opts ...Option) *Memory[V] {
	s := settings{
		ttl:     5 * time.Minute,
		maxSize: 10000,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return &Memory[V]{
		entries:  make(map[string]*entry[V]),
		name:     s.name,
		ttl:      s.ttl,
		maxSize:  s.maxSize,
		observer: s.observer,
		now:      s.now,
	}
}

// Get returns a cached value.
func (m *Memory[V]) Get(key string) (V, bool) {
	v, ok := m.get(key)
	if m.observer != nil {
		m.observer(m.name, ok)
	}
	return v, ok
}

func (m *Memory[V]) get(key string) (V, bool) {
	var zero V
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Set stores a value in the cache.
func (m *Memory[V]) Set(key string, value V) {
	if m.ttl <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// Evict if at capacity.
	if _, exists := m.entries[key]; !exists && len(m.entries) >= m.maxSize {
		m.evictExpired()
		if len(m.entries) >= m.maxSize {
			m.evictOne()
		}
	}

	m.entries[key] = &entry[V]{
		value:     value,
		expiresAt: m.now().Add(m.ttl),
	}
}

// Delete removes one key.
func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// InvalidatePrefix removes every key starting with prefix and returns how
// many were dropped.
func (m *Memory[V]) InvalidatePrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
			n++
		}
	}
	return n
}

// Purge removes every entry.
func (m *Memory[V]) Purge() {
	m.mu.Lock()
	m.entries = make(map[string]*entry[V])
	m.mu.Unlock()
}

// Len returns the number of stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// evictExpired removes all expired entries. Must hold write lock.
func (m *Memory[V]) evictExpired() {
	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
}

// evictOne removes the entry closest to expiry. Must hold write lock.
func (m *Memory[V]) evictOne() {
	var (
		oldest string
		at     time.Time
		found  bool
	)
	for k, e := range m.entries {
		if !found || e.expiresAt.Before(at) {
			oldest, at, found = k, e.expiresAt, true
		}
	}
	if found {
		delete(m.entries, oldest)
	}
}
