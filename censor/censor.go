// Package censor reduces a requested field list to the paths the caller
// may see. Every entity kind has a censor that authorizes its own native
// fields all-or-nothing and delegates each requested relation to the
// related kind's censor under a context rebuilt for that relation.
package censor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shelterhub/fieldauth/authz"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/fields"
	"github.com/shelterhub/fieldauth/plugin"
	"github.com/shelterhub/fieldauth/query"
)

// ErrSchemaInconsistent is returned by Verify when a relation has no
// censor branch.
var ErrSchemaInconsistent = errors.New("fieldauth: schema inconsistent")

// Censor filters field paths for one entity kind.
type Censor interface {
	Kind() entity.Kind
	// Censor returns the subset of paths actx may see. Paths are relative
	// to the censor's kind. A nil actx panics.
	Censor(ctx context.Context, paths []string, actx *authz.Context) ([]string, error)
}

// scopeFunc derives the context for a relation from its parent's context.
type scopeFunc func(parent *authz.Context) *authz.Context

// rule describes how one kind authorizes its native fields and scopes its
// relations.
type rule struct {
	permission string
	checks     query.AuthorizationFlags
	scopes     map[string]scopeFunc
}

// Registry resolves the censor of each kind.
type Registry struct {
	authz   *authz.Service
	censors map[entity.Kind]*entityCensor
	plugins *plugin.Registry
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithPlugins sets the plugin registry notified after each censor call.
func WithPlugins(p *plugin.Registry) Option {
	return func(r *Registry) { r.plugins = p }
}

// NewRegistry builds the censor of every kind.
func NewRegistry(svc *authz.Service, opts ...Option) *Registry {
	r := &Registry{
		authz:   svc,
		censors: make(map[entity.Kind]*entityCensor, len(rules)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	for kind, ru := range rules {
		r.censors[kind] = &entityCensor{
			registry: r,
			kind:     kind,
			schema:   entity.MustSchema(kind),
			rule:     ru,
		}
	}
	return r
}

// For returns the censor of kind.
func (r *Registry) For(kind entity.Kind) (Censor, bool) {
	c, ok := r.censors[kind]
	return c, ok
}

// Checks returns the authorization flags kind's native fields are granted
// under, or FlagNone for an unknown kind. Related rows are read under the
// same flags.
func (r *Registry) Checks(kind entity.Kind) query.AuthorizationFlags {
	c, ok := r.censors[kind]
	if !ok {
		return query.FlagNone
	}
	return c.rule.checks
}

// Verify checks that every kind has a censor and every relation a scope.
func (r *Registry) Verify() error {
	var errs []error
	for _, k := range entity.Kinds() {
		c, ok := r.censors[k]
		if !ok {
			errs = append(errs, fmt.Errorf("%w: no censor for %s", ErrSchemaInconsistent, k))
			continue
		}
		for _, rel := range c.schema.Relations {
			if _, ok := c.rule.scopes[rel.Name]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s.%s has no censor branch", ErrSchemaInconsistent, k, rel.Name))
			}
			if _, ok := r.censors[rel.Target]; !ok {
				errs = append(errs, fmt.Errorf("%w: %s.%s targets %s without a censor", ErrSchemaInconsistent, k, rel.Name, rel.Target))
			}
		}
	}
	return errors.Join(errs...)
}

// entityCensor is the schema-driven censor shared by every kind.
type entityCensor struct {
	registry *Registry
	kind     entity.Kind
	schema   *entity.Schema
	rule     rule
}

var _ Censor = (*entityCensor)(nil)

func (c *entityCensor) Kind() entity.Kind { return c.kind }

func (c *entityCensor) Censor(ctx context.Context, paths []string, actx *authz.Context) ([]string, error) {
	if actx == nil {
		panic(fmt.Sprintf("fieldauth/censor: nil auth context censoring %s", c.kind))
	}
	if len(paths) == 0 {
		return []string{}, nil
	}

	expanded := fields.ExpandWildcard(c.schema, paths)
	natives, nested := fields.Split(c.schema, expanded)

	out := make([]string, 0, len(expanded))
	if len(natives) > 0 {
		ok, err := c.registry.authz.AuthorizeContext(ctx, actx, c.rule.checks, c.rule.permission)
		if err != nil {
			return nil, fmt.Errorf("fieldauth/censor: authorize %s: %w", c.kind, err)
		}
		if ok {
			out = append(out, natives...)
		}
	}

	for _, rel := range c.schema.Relations {
		sub := nested[rel.Name]
		if len(sub) == 0 {
			continue
		}
		scope, ok := c.rule.scopes[rel.Name]
		if !ok {
			c.registry.logger.Debug("dropping relation without censor branch",
				slog.String("kind", string(c.kind)),
				slog.String("relation", rel.Name),
			)
			continue
		}
		child := c.registry.censors[rel.Target]
		if child == nil {
			continue
		}
		granted, err := child.Censor(ctx, sub, scope(actx))
		if err != nil {
			return nil, err
		}
		out = append(out, fields.Join(rel.Name, granted)...)
	}

	out = fields.Dedupe(out)
	c.registry.plugins.EmitAfterCensor(ctx, plugin.CensorEvent{
		Kind:      string(c.kind),
		Requested: paths,
		Granted:   out,
	})
	c.registry.logger.Debug("censored fields",
		slog.String("kind", string(c.kind)),
		slog.Int("requested", len(paths)),
		slog.Int("granted", len(out)),
	)
	return out, nil
}

// scopes returns the parent's owned and affiliated lookups as L, using an
// empty lookup for a missing or foreign scope.
func scopes[L any](actx *authz.Context) (owned, affiliated *L) {
	owned, _ = any(actx.OwnedLookup()).(*L)
	if owned == nil {
		owned = new(L)
	}
	affiliated, _ = any(actx.AffiliatedLookup()).(*L)
	if affiliated == nil {
		affiliated = new(L)
	}
	return owned, affiliated
}
