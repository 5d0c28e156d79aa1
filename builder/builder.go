// Package builder assembles DTOs from stored records and a censored field
// list. Each relation with requested fields is resolved with one batched
// query over the distinct foreign ids of the whole page.
package builder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelterhub/fieldauth/dto"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/fields"
	"github.com/shelterhub/fieldauth/lookup"
	"github.com/shelterhub/fieldauth/query"
)

// Registry builds DTOs of every kind.
type Registry struct {
	queries *query.Factory
	flags   func(entity.Kind) query.AuthorizationFlags
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithRelationFlags sets the authorization flags related rows of each kind
// are fetched under. Without it related rows are addressed by key only.
func WithRelationFlags(flags func(entity.Kind) query.AuthorizationFlags) Option {
	return func(r *Registry) { r.flags = flags }
}

// New creates a builder registry resolving relations through queries.
func New(queries *query.Factory, opts ...Option) *Registry {
	r := &Registry{queries: queries, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Build executes q and assembles its rows into DTOs shaped by q.Fields.
// The result is a slice of DTO pointers of q's kind, e.g. []*dto.Animal.
func (r *Registry) Build(ctx context.Context, q *query.Query) (any, error) {
	switch q.Kind() {
	case entity.KindUser:
		return run(ctx, q, r.Users)
	case entity.KindShelter:
		return run(ctx, q, r.Shelters)
	case entity.KindAnimal:
		return run(ctx, q, r.Animals)
	case entity.KindBreed:
		return run(ctx, q, r.Breeds)
	case entity.KindAnimalType:
		return run(ctx, q, r.AnimalTypes)
	case entity.KindFile:
		return run(ctx, q, r.Files)
	case entity.KindAdoptionApplication:
		return run(ctx, q, r.AdoptionApplications)
	case entity.KindConversation:
		return run(ctx, q, r.Conversations)
	case entity.KindMessage:
		return run(ctx, q, r.Messages)
	case entity.KindReport:
		return run(ctx, q, r.Reports)
	default:
		return nil, fmt.Errorf("fieldauth/builder: unknown kind %q", q.Kind())
	}
}

func run[T, D any](ctx context.Context, q *query.Query, build func(context.Context, []T, []string) ([]*D, error)) (any, error) {
	rows, err := query.Collect[T](ctx, q)
	if err != nil {
		return nil, err
	}
	out, err := build(ctx, rows, q.Fields)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// plan is a field list split against one kind's schema.
type plan struct {
	natives map[string]struct{}
	nested  map[string][]string
}

func planFor(kind entity.Kind, paths []string) plan {
	s := entity.MustSchema(kind)
	natives, nested := fields.Split(s, fields.ExpandWildcard(s, paths))
	p := plan{natives: make(map[string]struct{}, len(natives)), nested: nested}
	for _, n := range natives {
		p.natives[n] = struct{}{}
	}
	return p
}

func (p plan) has(name string) bool {
	_, ok := p.natives[name]
	return ok
}

func set[T any](p plan, name string, dst *T, v T) {
	if p.has(name) {
		*dst = v
	}
}

func timeOf(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// foreignIDs returns the distinct non-empty keys of rows.
func foreignIDs[T any](rows []T, key func(T) []string) []string {
	var all []string
	for _, row := range rows {
		all = append(all, key(row)...)
	}
	return lookup.Union(all)
}

// related fetches the rows of l's kind shaped by paths and builds them,
// returning DTOs indexed by row id. No query is issued without ids.
func related[T, D any](ctx context.Context, r *Registry, l lookup.Lookup, ids []string, paths []string,
	id func(T) string, build func(context.Context, []T, []string) ([]*D, error)) (map[string]*D, error) {
	rows, err := fetch[T](ctx, r, l, ids, paths)
	if err != nil {
		return nil, err
	}
	return indexByID(ctx, rows, paths, id, build)
}

// fetch collects the rows of l's kind projected to paths under the kind's
// relation flags.
func fetch[T any](ctx context.Context, r *Registry, l lookup.Lookup, ids []string, paths []string) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := l.Enrich(r.queries)
	q.Fields = paths
	if r.flags != nil {
		q.Flags = r.flags(l.Kind())
	}
	rows, err := query.Collect[T](ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fieldauth/builder: fetch %s: %w", l.Kind(), err)
	}
	r.logger.Debug("fetched relation batch",
		slog.String("kind", string(l.Kind())),
		slog.String("flags", q.Flags.String()),
		slog.Int("ids", len(ids)),
		slog.Int("rows", len(rows)),
	)
	return rows, nil
}

// indexByID builds rows shaped by paths and keys the DTOs by row id.
func indexByID[T, D any](ctx context.Context, rows []T, paths []string,
	id func(T) string, build func(context.Context, []T, []string) ([]*D, error)) (map[string]*D, error) {
	out := make(map[string]*D, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	built, err := build(ctx, rows, paths)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		out[id(row)] = built[i]
	}
	return out, nil
}

// pickAll maps ids through index, skipping missing entries.
func pickAll[D any](index map[string]*D, ids []string) []*D {
	if len(ids) == 0 {
		return nil
	}
	out := make([]*D, 0, len(ids))
	for _, id := range ids {
		if d, ok := index[id]; ok {
			out = append(out, d)
		}
	}
	return out
}

func one(id string) []string {
	if id == "" {
		return nil
	}
	return []string{id}
}

// Empty returns an empty DTO slice of kind's type.
func Empty(kind entity.Kind) (any, bool) {
	switch kind {
	case entity.KindUser:
		return []*dto.User{}, true
	case entity.KindShelter:
		return []*dto.Shelter{}, true
	case entity.KindAnimal:
		return []*dto.Animal{}, true
	case entity.KindBreed:
		return []*dto.Breed{}, true
	case entity.KindAnimalType:
		return []*dto.AnimalType{}, true
	case entity.KindFile:
		return []*dto.File{}, true
	case entity.KindAdoptionApplication:
		return []*dto.AdoptionApplication{}, true
	case entity.KindConversation:
		return []*dto.Conversation{}, true
	case entity.KindMessage:
		return []*dto.Message{}, true
	case entity.KindReport:
		return []*dto.Report{}, true
	default:
		return nil, false
	}
}
