// Package query turns lookups into executable store queries. A Query holds
// the typed criteria, paging, sort, the censored DTO field list and the
// authorization flags, and always executes in the same order: filters,
// authorization fragment, sort with an _id tiebreak, paging, projection.
package query

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/fields"
	"github.com/shelterhub/fieldauth/plugin"
	"github.com/shelterhub/fieldauth/policy"
	"github.com/shelterhub/fieldauth/store"
)

// FragmentSource builds the ownership and affiliation filter fragments.
// A nil fragment means the kind has no such notion.
type FragmentSource interface {
	OwnedFilter(ctx context.Context, kind entity.Kind) (bson.M, error)
	AffiliatedFilter(ctx context.Context, kind entity.Kind) (bson.M, error)
}

// PermissionChecker answers role-only permission checks for the caller.
type PermissionChecker interface {
	Authorize(ctx context.Context, permissions ...string) bool
}

// Factory constructs queries bound to one store and fragment source.
type Factory struct {
	store       store.Store
	fragments   FragmentSource
	permissions PermissionChecker
	plugins     *plugin.Registry
	logger      *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) FactoryOption {
	return func(f *Factory) { f.logger = l }
}

// WithPlugins sets the plugin registry notified after each store call.
func WithPlugins(r *plugin.Registry) FactoryOption {
	return func(f *Factory) { f.plugins = r }
}

// WithPermissionChecker sets the checker behind FlagPermission.
func WithPermissionChecker(p PermissionChecker) FactoryOption {
	return func(f *Factory) { f.permissions = p }
}

// NewFactory creates a query factory.
func NewFactory(s store.Store, fragments FragmentSource, opts ...FactoryOption) *Factory {
	f := &Factory{
		store:     s,
		fragments: fragments,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetPermissionChecker wires the permission checker after construction.
// The authorization service depends on the factory, so the engine closes
// the loop here.
func (f *Factory) SetPermissionChecker(p PermissionChecker) { f.permissions = p }

// Query returns a fresh query over kind. It panics on an unknown kind.
func (f *Factory) Query(kind entity.Kind, c Criteria) *Query {
	return &Query{
		kind:     kind,
		schema:   entity.MustSchema(kind),
		factory:  f,
		Criteria: c,
	}
}

// Query is an executable, authorization-aware query over one kind.
type Query struct {
	kind    entity.Kind
	schema  *entity.Schema
	factory *Factory
	extra   []string

	Criteria Criteria
	// Search is matched case-insensitively against the kind's searchable
	// fields.
	Search         string
	Offset         int
	PageSize       int
	SortBy         []string
	SortDescending bool
	// Fields is the censored DTO field list. Empty projects everything.
	Fields []string
	Flags  AuthorizationFlags
}

// Kind returns the queried kind.
func (q *Query) Kind() entity.Kind { return q.kind }

// Project always includes the given storage fields in the projection.
func (q *Query) Project(storage ...string) *Query {
	q.extra = append(q.extra, storage...)
	return q
}

// ApplyFilters builds the base filter from criteria and search text.
func (q *Query) ApplyFilters() bson.M {
	f := bson.M{}
	if q.Criteria != nil {
		f = q.Criteria.Criteria()
	}
	text := strings.TrimSpace(q.Search)
	if text == "" || len(q.schema.Searchable) == 0 {
		return f
	}
	pattern := regexp.QuoteMeta(text)
	or := make(bson.A, 0, len(q.schema.Searchable))
	for _, field := range q.schema.Searchable {
		or = append(or, bson.M{field: bson.M{"$regex": pattern, "$options": "i"}})
	}
	return And(f, bson.M{"$or": or})
}

// ApplyAuthorization narrows filter to the rows the flags admit. Holders
// of the browse permission pass through when FlagPermission is set.
// Otherwise the enabled owned and affiliated fragments are ORed together
// and ANDed onto filter. With no fragment the filter passes unrestricted.
func (q *Query) ApplyAuthorization(ctx context.Context, filter bson.M) (bson.M, error) {
	if q.Flags.Has(FlagPermission) && q.factory.permissions != nil &&
		q.factory.permissions.Authorize(ctx, policy.BrowsePermission(q.kind)) {
		return filter, nil
	}

	var scoped bson.A
	if q.Flags.Has(FlagAffiliation) {
		frag, err := q.factory.fragments.AffiliatedFilter(ctx, q.kind)
		if err != nil {
			return nil, err
		}
		if frag != nil {
			scoped = append(scoped, frag)
		}
	}
	if q.Flags.Has(FlagOwner) {
		frag, err := q.factory.fragments.OwnedFilter(ctx, q.kind)
		if err != nil {
			return nil, err
		}
		if frag != nil {
			scoped = append(scoped, frag)
		}
	}

	switch len(scoped) {
	case 0:
		return filter, nil
	case 1:
		return And(filter, scoped[0].(bson.M)), nil
	default:
		return And(filter, bson.M{"$or": scoped}), nil
	}
}

// FieldNamesOf maps DTO field paths to storage projection fields. The id
// is always included; a relation path projects the parent's foreign key.
func (q *Query) FieldNamesOf(paths []string) []string {
	out := []string{"_id"}
	for _, p := range paths {
		root := fields.Root(p)
		if root == p && q.schema.HasProperty(p) {
			out = append(out, entity.StorageName(p))
			continue
		}
		if rel, ok := q.schema.Relation(root); ok && rel.CarriesKey() {
			out = append(out, rel.KeyStorage())
		}
	}
	return fields.Dedupe(out)
}

// Sort returns the sort document with the trailing _id tiebreak.
func (q *Query) Sort() bson.D {
	dir := 1
	if q.SortDescending {
		dir = -1
	}
	var d bson.D
	seen := make(map[string]struct{})
	for _, p := range fields.PrepareFieldsList(q.SortBy) {
		if strings.Contains(p, fields.Separator) || !q.schema.HasProperty(p) {
			continue
		}
		key := entity.StorageName(p)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		d = append(d, bson.E{Key: key, Value: dir})
	}
	if _, ok := seen["_id"]; !ok {
		d = append(d, bson.E{Key: "_id", Value: 1})
	}
	return d
}

// Plan resolves the filter and find options in execution order.
func (q *Query) Plan(ctx context.Context) (bson.M, *store.FindOptions, error) {
	filter, err := q.ApplyAuthorization(ctx, q.ApplyFilters())
	if err != nil {
		return nil, nil, fmt.Errorf("fieldauth/query: authorize %s: %w", q.kind, err)
	}
	opts := &store.FindOptions{Sort: q.Sort()}
	if q.PageSize > 0 {
		opts.Skip = int64(q.Offset) * int64(q.PageSize)
		opts.Limit = int64(q.PageSize)
	}
	if len(q.Fields) > 0 {
		opts.Projection = fields.Dedupe(append(q.FieldNamesOf(q.Fields), q.extra...))
	}
	return filter, opts, nil
}

// CollectRaw executes the query and returns raw documents.
func (q *Query) CollectRaw(ctx context.Context) ([]bson.Raw, error) {
	filter, opts, err := q.Plan(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	raws, err := q.factory.store.Find(ctx, q.kind, filter, opts)
	q.observe(ctx, "find", int64(len(raws)), start, err)
	if err != nil {
		return nil, fmt.Errorf("fieldauth/query: collect %s: %w", q.kind, err)
	}
	return raws, nil
}

// Collect executes q and decodes the rows into T.
func Collect[T any](ctx context.Context, q *Query) ([]T, error) {
	raws, err := q.CollectRaw(ctx)
	if err != nil {
		return nil, err
	}
	return store.Decode[T](raws)
}

// Count returns the number of authorized rows matching the filters,
// ignoring paging.
func (q *Query) Count(ctx context.Context) (int64, error) {
	filter, err := q.ApplyAuthorization(ctx, q.ApplyFilters())
	if err != nil {
		return 0, fmt.Errorf("fieldauth/query: authorize %s: %w", q.kind, err)
	}
	return q.count(ctx, filter)
}

// CountWhere counts rows matching the filters and required, ignoring the
// authorization flags.
func (q *Query) CountWhere(ctx context.Context, required bson.M) (int64, error) {
	return q.count(ctx, And(q.ApplyFilters(), required))
}

func (q *Query) count(ctx context.Context, filter bson.M) (int64, error) {
	start := time.Now()
	n, err := q.factory.store.Count(ctx, q.kind, filter)
	q.observe(ctx, "count", n, start, err)
	if err != nil {
		return 0, fmt.Errorf("fieldauth/query: count %s: %w", q.kind, err)
	}
	return n, nil
}

func (q *Query) observe(ctx context.Context, op string, rows int64, start time.Time, err error) {
	elapsed := time.Since(start)
	q.factory.plugins.EmitAfterQuery(ctx, plugin.QueryEvent{
		Kind:      string(q.kind),
		Operation: op,
		Rows:      rows,
		Elapsed:   elapsed,
		Err:       err,
	})
	q.factory.logger.Debug("query executed",
		slog.String("kind", string(q.kind)),
		slog.String("op", op),
		slog.String("flags", q.Flags.String()),
		slog.Int64("rows", rows),
		slog.Duration("elapsed", elapsed),
	)
}
