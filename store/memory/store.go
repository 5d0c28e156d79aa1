// Package memory provides an in-memory document store that evaluates the
// same filter documents the MongoDB backend receives. It is intended for
// testing and development.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

var errMissingID = errors.New("fieldauth/memory: document has no _id")

// Store is a thread-safe in-memory document store.
type Store struct {
	mu   sync.RWMutex
	docs map[entity.Kind][]bson.M

	finds  atomic.Int64
	counts atomic.Int64
}

// New creates an empty store.
func New() *Store {
	return &Store{docs: make(map[entity.Kind][]bson.M)}
}

// Migrate is a no-op for the memory store.
func (s *Store) Migrate(_ context.Context) error { return nil }

// Ping is a no-op for the memory store.
func (s *Store) Ping(_ context.Context) error { return nil }

// Close is a no-op for the memory store.
func (s *Store) Close() error { return nil }

// Finds returns how many Find calls the store has served.
func (s *Store) Finds() int64 { return s.finds.Load() }

// Counts returns how many Count calls the store has served.
func (s *Store) Counts() int64 { return s.counts.Load() }

// Insert stores documents, replacing any with the same _id.
func (s *Store) Insert(_ context.Context, kind entity.Kind, docs ...any) error {
	parsed := make([]bson.M, 0, len(docs))
	for _, d := range docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			return fmt.Errorf("fieldauth/memory: insert %s: %w", kind, err)
		}
		var m bson.M
		if err := bson.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("fieldauth/memory: insert %s: %w", kind, err)
		}
		if _, ok := m["_id"]; !ok {
			return errMissingID
		}
		parsed = append(parsed, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range parsed {
		s.upsert(kind, m)
	}
	return nil
}

func (s *Store) upsert(kind entity.Kind, m bson.M) {
	list := s.docs[kind]
	for i, existing := range list {
		if equalValues(existing["_id"], m["_id"]) {
			list[i] = m
			return
		}
	}
	s.docs[kind] = append(list, m)
}

// Find implements store.Store.
func (s *Store) Find(_ context.Context, kind entity.Kind, filter bson.M, opts *store.FindOptions) ([]bson.Raw, error) {
	s.finds.Add(1)
	matched, err := s.match(kind, filter)
	if err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &store.FindOptions{}
	}

	if len(opts.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return less(matched[i], matched[j], opts.Sort)
		})
	}
	if opts.Skip > 0 {
		if opts.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	out := make([]bson.Raw, 0, len(matched))
	for _, m := range matched {
		raw, err := bson.Marshal(project(m, opts.Projection))
		if err != nil {
			return nil, fmt.Errorf("fieldauth/memory: find %s: %w", kind, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

// Count implements store.Store.
func (s *Store) Count(_ context.Context, kind entity.Kind, filter bson.M) (int64, error) {
	s.counts.Add(1)
	matched, err := s.match(kind, filter)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

// Distinct implements store.Store.
func (s *Store) Distinct(_ context.Context, kind entity.Kind, field string, filter bson.M) ([]string, error) {
	matched, err := s.match(kind, filter)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	add := func(v any) {
		str, ok := v.(string)
		if !ok {
			return
		}
		if _, dup := seen[str]; dup {
			return
		}
		seen[str] = struct{}{}
		out = append(out, str)
	}
	for _, m := range matched {
		v, ok := lookup(m, field)
		if !ok {
			continue
		}
		if items, isArr := asSlice(v); isArr {
			for _, it := range items {
				add(it)
			}
			continue
		}
		add(v)
	}
	return out, nil
}

// match returns a snapshot of the documents matching filter in insertion
// order.
func (s *Store) match(kind entity.Kind, filter bson.M) ([]bson.M, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []bson.M
	for _, m := range s.docs[kind] {
		ok, err := matches(m, filter)
		if err != nil {
			return nil, fmt.Errorf("fieldauth/memory: %s: %w", kind, err)
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func project(m bson.M, fields []string) bson.M {
	if len(fields) == 0 {
		return m
	}
	out := bson.M{"_id": m["_id"]}
	for _, f := range fields {
		if v, ok := m[f]; ok {
			out[f] = v
		}
	}
	return out
}

func less(a, b bson.M, order bson.D) bool {
	for _, e := range order {
		av, _ := lookup(a, e.Key)
		bv, _ := lookup(b, e.Key)
		c := compareAny(av, bv)
		if c == 0 {
			continue
		}
		if dir, ok := toFloat(e.Value); ok && dir < 0 {
			return c > 0
		}
		return c < 0
	}
	return false
}
