package resolver

import (
	"context"
	"sync"
)

type memoKey struct{}

// memo holds per-request resolutions so one logical request sees one
// consistent set of fragments even if the shared caches expire mid-flight.
type memo struct {
	mu     sync.Mutex
	values map[string]any
}

// WithRequestScope returns a context carrying a fresh per-request memo.
// Calling it on a context that already carries one is a no-op.
func WithRequestScope(ctx context.Context) context.Context {
	if _, ok := ctx.Value(memoKey{}).(*memo); ok {
		return ctx
	}
	return context.WithValue(ctx, memoKey{}, &memo{values: make(map[string]any)})
}

// memoFrom returns the request memo or nil. All methods accept a nil memo.
func memoFrom(ctx context.Context) *memo {
	m, _ := ctx.Value(memoKey{}).(*memo)
	return m
}

func (m *memo) get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *memo) set(key string, v any) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.values[key] = v
	m.mu.Unlock()
}
