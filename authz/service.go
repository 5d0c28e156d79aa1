// Package authz answers authorization questions: role permissions,
// ownership and affiliation. Ownership and affiliation are decided by
// counting the rows matching a scope lookup ANDed with the resolver's
// owned or affiliated fragment.
package authz

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shelterhub/fieldauth/cache"
	"github.com/shelterhub/fieldauth/lookup"
	"github.com/shelterhub/fieldauth/plugin"
	"github.com/shelterhub/fieldauth/policy"
	"github.com/shelterhub/fieldauth/principal"
	"github.com/shelterhub/fieldauth/query"
)

// Compile-time interface check.
var _ query.PermissionChecker = (*Service)(nil)

const (
	checkPermission = "permission"
	checkOwned      = "owned"
	checkAffiliated = "affiliated"
)

// DefaultRequirementResultTime bounds how long a requirement count is
// reused.
const DefaultRequirementResultTime = time.Minute

// Service is the authorization service.
type Service struct {
	policies  policy.Provider
	claims    principal.Extractor
	fragments query.FragmentSource
	queries   *query.Factory
	results   *cache.Memory[bool]
	plugins   *plugin.Registry
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithPlugins sets the plugin registry notified of every decision.
func WithPlugins(r *plugin.Registry) Option {
	return func(s *Service) { s.plugins = r }
}

// WithResultCache sets the requirement count cache.
func WithResultCache(c *cache.Memory[bool]) Option {
	return func(s *Service) { s.results = c }
}

// New creates an authorization service.
func New(policies policy.Provider, claims principal.Extractor, fragments query.FragmentSource, queries *query.Factory, opts ...Option) *Service {
	s := &Service{
		policies:  policies,
		claims:    claims,
		fragments: fragments,
		queries:   queries,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.results == nil {
		s.results = cache.NewMemory[bool](
			cache.WithName("requirement"),
			cache.WithTTL(DefaultRequirementResultTime),
		)
	}
	return s
}

// Authorize reports whether the caller's roles grant any of permissions.
func (s *Service) Authorize(ctx context.Context, permissions ...string) bool {
	ok := policy.Grants(s.policies, s.claims.CurrentUserRoles(ctx), permissions...)
	s.emit(ctx, checkPermission, "", permissions, ok)
	return ok
}

// AuthorizeOwned reports whether the caller owns res: either the caller is
// one of the owner ids, or a row selected by the requested filters matches
// the caller's owned fragment.
func (s *Service) AuthorizeOwned(ctx context.Context, res *OwnedResource) (bool, error) {
	uid := s.claims.CurrentUserID(ctx)
	if uid == "" || res == nil {
		return false, nil
	}
	if slices.Contains(res.OwnerIDs, uid) {
		s.emit(ctx, checkOwned, kindOf(res.RequestedFilters), nil, true)
		return true, nil
	}
	if res.RequestedFilters == nil {
		return false, nil
	}
	ok, err := s.requirement(ctx, uid, checkOwned, res.RequestedFilters)
	if err != nil {
		return false, err
	}
	s.emit(ctx, checkOwned, kindOf(res.RequestedFilters), nil, ok)
	return ok, nil
}

// AuthorizeAffiliated reports whether the caller holds an affiliated role
// for permissions and a row selected by the requested filters matches the
// caller's affiliated fragment.
func (s *Service) AuthorizeAffiliated(ctx context.Context, res *AffiliatedResource, permissions ...string) (bool, error) {
	uid := s.claims.CurrentUserID(ctx)
	if uid == "" || res == nil || res.RequestedFilters == nil {
		return false, nil
	}
	if !policy.GrantsAffiliated(s.policies, s.claims.CurrentUserRoles(ctx), res.AffiliatedRoles, permissions...) {
		s.emit(ctx, checkAffiliated, kindOf(res.RequestedFilters), permissions, false)
		return false, nil
	}
	ok, err := s.requirement(ctx, uid, checkAffiliated, res.RequestedFilters)
	if err != nil {
		return false, err
	}
	s.emit(ctx, checkAffiliated, kindOf(res.RequestedFilters), permissions, ok)
	return ok, nil
}

// AuthorizeOrOwned checks permissions, then ownership.
func (s *Service) AuthorizeOrOwned(ctx context.Context, res *OwnedResource, permissions ...string) (bool, error) {
	if s.Authorize(ctx, permissions...) {
		return true, nil
	}
	return s.AuthorizeOwned(ctx, res)
}

// AuthorizeOrAffiliated checks permissions, then affiliation.
func (s *Service) AuthorizeOrAffiliated(ctx context.Context, res *AffiliatedResource, permissions ...string) (bool, error) {
	if s.Authorize(ctx, permissions...) {
		return true, nil
	}
	return s.AuthorizeAffiliated(ctx, res, permissions...)
}

// AuthorizeOrOwnedOrAffiliated checks permissions, then affiliation, then
// ownership. The first success wins.
func (s *Service) AuthorizeOrOwnedOrAffiliated(ctx context.Context, owned *OwnedResource, affiliated *AffiliatedResource, permissions ...string) (bool, error) {
	if s.Authorize(ctx, permissions...) {
		return true, nil
	}
	ok, err := s.AuthorizeAffiliated(ctx, affiliated, permissions...)
	if err != nil || ok {
		return ok, err
	}
	return s.AuthorizeOwned(ctx, owned)
}

// AuthorizeContext runs the checks enabled by flags against actx in the
// order permission, affiliation, ownership.
func (s *Service) AuthorizeContext(ctx context.Context, actx *Context, flags query.AuthorizationFlags, permissions ...string) (bool, error) {
	if flags.Has(query.FlagPermission) && s.Authorize(ctx, permissions...) {
		return true, nil
	}
	if flags.Has(query.FlagAffiliation) {
		ok, err := s.AuthorizeAffiliated(ctx, actx.Affiliated(), permissions...)
		if err != nil || ok {
			return ok, err
		}
	}
	if flags.Has(query.FlagOwner) {
		return s.AuthorizeOwned(ctx, actx.Owned())
	}
	return false, nil
}

// Enforce is AuthorizeContext returning principal.ErrForbidden on denial.
func (s *Service) Enforce(ctx context.Context, actx *Context, flags query.AuthorizationFlags, permissions ...string) error {
	ok, err := s.AuthorizeContext(ctx, actx, flags, permissions...)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %v", principal.ErrForbidden, permissions)
	}
	return nil
}

// Invalidate drops cached requirement results for userID.
func (s *Service) Invalidate(userID string) int {
	return s.results.InvalidatePrefix(userID + ":")
}

// requirement counts rows of l under the caller's scope fragment.
func (s *Service) requirement(ctx context.Context, uid, scope string, l lookup.Lookup) (bool, error) {
	key := uid + ":" + scope + ":" + l.CacheKey()
	if ok, hit := s.results.Get(key); hit {
		return ok, nil
	}

	var (
		required bson.M
		err      error
	)
	if scope == checkOwned {
		required, err = s.fragments.OwnedFilter(ctx, l.Kind())
	} else {
		required, err = s.fragments.AffiliatedFilter(ctx, l.Kind())
	}
	if err != nil {
		return false, fmt.Errorf("fieldauth/authz: %s fragment for %s: %w", scope, l.Kind(), err)
	}
	if required == nil {
		s.results.Set(key, false)
		return false, nil
	}

	n, err := l.Enrich(s.queries).CountWhere(ctx, required)
	if err != nil {
		return false, err
	}
	ok := n > 0
	s.results.Set(key, ok)
	s.logger.Debug("requirement evaluated",
		slog.String("kind", string(l.Kind())),
		slog.String("scope", scope),
		slog.Bool("allowed", ok),
	)
	return ok, nil
}

func (s *Service) emit(ctx context.Context, check, kind string, permissions []string, allowed bool) {
	s.plugins.EmitAfterAuthorize(ctx, plugin.AuthorizeEvent{
		Check:       check,
		Kind:        kind,
		Permissions: permissions,
		Allowed:     allowed,
	})
}

func kindOf(l lookup.Lookup) string {
	if l == nil {
		return ""
	}
	return string(l.Kind())
}
