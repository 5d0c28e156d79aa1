package fieldauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shelterhub/fieldauth/authz"
	"github.com/shelterhub/fieldauth/builder"
	"github.com/shelterhub/fieldauth/cache"
	"github.com/shelterhub/fieldauth/censor"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/fields"
	"github.com/shelterhub/fieldauth/lookup"
	"github.com/shelterhub/fieldauth/plugin"
	"github.com/shelterhub/fieldauth/policy"
	"github.com/shelterhub/fieldauth/principal"
	"github.com/shelterhub/fieldauth/query"
	"github.com/shelterhub/fieldauth/resolver"
	"github.com/shelterhub/fieldauth/store"
)

// Engine is the field authorization engine. It censors requested fields,
// runs authorization-aware queries and assembles DTOs.
type Engine struct {
	store    store.Store
	policies policy.Provider
	claims   principal.Extractor
	resolver *resolver.Resolver
	authz    *authz.Service
	queries  *query.Factory
	censors  *censor.Registry
	builders *builder.Registry
	previews *builder.Registry
	pseudo   *censor.PseudoCensor
	plugins  *plugin.Registry
	logger   *slog.Logger
	config   Config
}

// NewEngine creates a new engine with the given options.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		claims: principal.ContextExtractor{},
		logger: slog.Default(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		return nil, ErrNoStore
	}
	if e.policies == nil {
		if len(e.config.Policies) > 0 {
			e.policies = policy.NewStatic(e.config.Policies)
		} else {
			e.policies = policy.NewStatic(policy.Defaults())
		}
	}

	observe := e.plugins.EmitCacheLookup
	shelters := cache.NewMemory[string](
		cache.WithName("shelter"),
		cache.WithTTL(e.config.ShelterCacheTTL),
		cache.WithMaxSize(e.config.CacheMaxSize),
		cache.WithObserver(observe),
	)
	fragments := cache.NewMemory[bson.M](
		cache.WithName("fragment"),
		cache.WithTTL(e.config.FragmentCacheTTL),
		cache.WithMaxSize(e.config.CacheMaxSize),
		cache.WithObserver(observe),
	)
	requirements := cache.NewMemory[bool](
		cache.WithName("requirement"),
		cache.WithTTL(e.config.RequirementTTL()),
		cache.WithMaxSize(e.config.CacheMaxSize),
		cache.WithObserver(observe),
	)

	e.resolver = resolver.New(e.store, e.claims,
		resolver.WithLogger(e.logger),
		resolver.WithShelterCache(shelters),
		resolver.WithFragmentCache(fragments),
	)
	e.queries = query.NewFactory(e.store, e.resolver,
		query.WithLogger(e.logger),
		query.WithPlugins(e.plugins),
	)
	e.authz = authz.New(e.policies, e.claims, e.resolver, e.queries,
		authz.WithLogger(e.logger),
		authz.WithPlugins(e.plugins),
		authz.WithResultCache(requirements),
	)
	e.queries.SetPermissionChecker(e.authz)
	e.censors = censor.NewRegistry(e.authz,
		censor.WithLogger(e.logger),
		censor.WithPlugins(e.plugins),
	)
	e.builders = builder.New(e.queries,
		builder.WithLogger(e.logger),
		builder.WithRelationFlags(e.censors.Checks),
	)
	e.previews = builder.New(e.queries, builder.WithLogger(e.logger))
	e.pseudo = censor.NewPseudoCensor()

	if err := e.verify(); err != nil {
		return nil, err
	}
	return e, nil
}

// verify checks that every kind has a censor, a lookup and a builder.
func (e *Engine) verify() error {
	errs := []error{e.censors.Verify()}
	for _, k := range entity.Kinds() {
		if _, ok := lookup.For(k); !ok {
			errs = append(errs, fmt.Errorf("%w: no lookup for %s", ErrSchemaInconsistent, k))
		}
		if _, ok := builder.Empty(k); !ok {
			errs = append(errs, fmt.Errorf("%w: no builder for %s", ErrSchemaInconsistent, k))
		}
	}
	return errors.Join(errs...)
}

// Store returns the underlying document store.
func (e *Engine) Store() store.Store { return e.store }

// Plugins returns the plugin registry (may be nil).
func (e *Engine) Plugins() *plugin.Registry { return e.plugins }

// Authz returns the authorization service.
func (e *Engine) Authz() *authz.Service { return e.authz }

// Resolver returns the ownership and affiliation resolver.
func (e *Engine) Resolver() *resolver.Resolver { return e.resolver }

// Queries returns the query factory.
func (e *Engine) Queries() *query.Factory { return e.queries }

// Censors returns the censor registry.
func (e *Engine) Censors() *censor.Registry { return e.censors }

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.config }

// Start creates store indexes.
func (e *Engine) Start(ctx context.Context) error {
	if err := e.store.Migrate(ctx); err != nil {
		return fmt.Errorf("fieldauth: migrate: %w", err)
	}
	return nil
}

// Stop notifies plugins of shutdown.
func (e *Engine) Stop(ctx context.Context) error {
	e.plugins.EmitShutdown(ctx)
	return nil
}

// Browse censors l's fields for the current caller, runs the lookup's query
// narrowed by flags and returns the page as DTOs, e.g. []*dto.Animal.
// Fields the caller may not see are omitted; when none remain the result
// is an empty slice and no query runs.
func (e *Engine) Browse(ctx context.Context, l lookup.Lookup, flags AuthorizationFlags) (any, error) {
	return e.browse(ctx, l, flags, 0)
}

func (e *Engine) browse(ctx context.Context, l lookup.Lookup, flags AuthorizationFlags, pageSize int) (any, error) {
	kind := l.Kind()
	empty, ok := builder.Empty(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, kind)
	}
	c, ok := e.censors.For(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, kind)
	}

	ctx = resolver.WithRequestScope(ctx)
	page := l.Page()
	requested := fields.PrepareFieldsList(page.Fields)
	if err := fields.ValidateFieldsForEntity(kind, requested); err != nil {
		return nil, err
	}

	actx := authz.RootContext(e.claims.CurrentUserID(ctx), l)
	granted, err := c.Censor(ctx, requested, actx)
	if err != nil {
		return nil, err
	}
	if len(granted) == 0 {
		e.logger.Debug("no fields granted",
			slog.String("kind", string(kind)),
			slog.Int("requested", len(requested)),
		)
		return empty, nil
	}

	q := l.Enrich(e.queries)
	q.Fields = granted
	q.Flags = flags
	if pageSize > 0 {
		q.PageSize = pageSize
	} else {
		q.PageSize = e.config.PageSize(page.PageSize)
	}
	return e.builders.Build(ctx, q)
}

// BrowseAs is Browse with a typed result.
func BrowseAs[D any](ctx context.Context, e *Engine, l lookup.Lookup, flags AuthorizationFlags) ([]*D, error) {
	out, err := e.Browse(ctx, l, flags)
	if err != nil {
		return nil, err
	}
	return typed[D](out, l.Kind())
}

// FindOne returns the first row of l's first page, or ErrNotFound.
func FindOne[D any](ctx context.Context, e *Engine, l lookup.Lookup, flags AuthorizationFlags) (*D, error) {
	out, err := e.browse(ctx, l, flags, 1)
	if err != nil {
		return nil, err
	}
	rows, err := typed[D](out, l.Kind())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func typed[D any](out any, kind entity.Kind) ([]*D, error) {
	rows, ok := out.([]*D)
	if !ok {
		return nil, fmt.Errorf("fieldauth: %s does not build %T", kind, *new(D))
	}
	return rows, nil
}

// Count returns how many rows of l are visible under flags, ignoring
// paging and field selection.
func (e *Engine) Count(ctx context.Context, l lookup.Lookup, flags AuthorizationFlags) (int64, error) {
	q := l.Enrich(e.queries)
	q.Flags = flags
	return q.Count(resolver.WithRequestScope(ctx))
}

// Preview returns l's page restricted to the public preview allow-list of
// its kind. It consults no permission and applies no row authorization.
func (e *Engine) Preview(ctx context.Context, l lookup.Lookup) (any, error) {
	kind := l.Kind()
	empty, ok := builder.Empty(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, kind)
	}
	page := l.Page()
	requested := fields.PrepareFieldsList(page.Fields)
	if err := fields.ValidateFieldsForEntity(kind, requested); err != nil {
		return nil, err
	}
	granted := e.pseudo.Censor(kind, requested)
	if len(granted) == 0 {
		return empty, nil
	}
	q := l.Enrich(e.queries)
	q.Fields = granted
	q.Flags = FlagNone
	q.PageSize = e.config.PageSize(page.PageSize)
	return e.previews.Build(ctx, q)
}

// AdoptionRequestExists reports whether the current user already applied
// for animalID. It returns ErrForbidden without a current user.
func (e *Engine) AdoptionRequestExists(ctx context.Context, animalID string) (bool, error) {
	return e.resolver.AdoptionRequestExists(ctx, animalID)
}

// InvalidateUser drops every cached shelter id, fragment and requirement
// result of userID. Call it after the user's shelter, conversations or
// applications change.
func (e *Engine) InvalidateUser(ctx context.Context, userID string) {
	e.resolver.Invalidate(userID)
	n := e.authz.Invalidate(userID)
	e.logger.Debug("invalidated user caches",
		slog.String("user_id", userID),
		slog.Int("requirements", n),
	)
	e.plugins.EmitOwnershipChanged(ctx, userID)
}
