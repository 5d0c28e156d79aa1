// Package resolver builds the ownership and affiliation filter fragments
// the authorization layer ANDs onto queries, and resolves the shelter the
// current user manages.
//
// Fragments are pure functions of (kind, user identity, stored facts).
// They are cached per user and kind and must never be mutated by callers.
package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/v2/bson"
	"golang.org/x/sync/singleflight"

	"github.com/shelterhub/fieldauth/cache"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/principal"
	"github.com/shelterhub/fieldauth/store"
)

const (
	scopeOwned      = "owned"
	scopeAffiliated = "affiliated"
)

// Resolver is the authorization content resolver.
type Resolver struct {
	store     store.Store
	claims    principal.Extractor
	shelters  *cache.Memory[string]
	fragments *cache.Memory[bson.M]
	group     singleflight.Group
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithShelterCache sets the per-user shelter id cache.
func WithShelterCache(c *cache.Memory[string]) Option {
	return func(r *Resolver) { r.shelters = c }
}

// WithFragmentCache sets the per-(user, kind) fragment cache.
func WithFragmentCache(c *cache.Memory[bson.M]) Option {
	return func(r *Resolver) { r.fragments = c }
}

// New creates a resolver reading claims through claims and facts from s.
func New(s store.Store, claims principal.Extractor, opts ...Option) *Resolver {
	r := &Resolver{
		store:  s,
		claims: claims,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.shelters == nil {
		r.shelters = cache.NewMemory[string](cache.WithName("shelter"))
	}
	if r.fragments == nil {
		r.fragments = cache.NewMemory[bson.M](cache.WithName("fragment"))
	}
	return r
}

// CurrentUserID returns the caller's user id or "".
func (r *Resolver) CurrentUserID(ctx context.Context) string {
	return r.claims.CurrentUserID(ctx)
}

// CurrentUserRoles returns the caller's roles.
func (r *Resolver) CurrentUserRoles(ctx context.Context) []string {
	return r.claims.CurrentUserRoles(ctx)
}

// CurrentPrincipalShelter returns the id of the shelter the caller manages,
// or "" when the caller is anonymous or manages none.
func (r *Resolver) CurrentPrincipalShelter(ctx context.Context) (string, error) {
	uid := r.CurrentUserID(ctx)
	if uid == "" {
		return "", nil
	}
	key := uid + ":shelter"
	m := memoFrom(ctx)
	if v, ok := m.get(key); ok {
		return v.(string), nil
	}
	if id, ok := r.shelters.Get(key); ok {
		m.set(key, id)
		return id, nil
	}

	// Callers share the flight; one caller's cancellation must not fail the rest.
	shared := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(key, func() (any, error) {
		raws, err := r.store.Find(shared, entity.KindShelter, bson.M{"userId": uid}, &store.FindOptions{
			Limit:      1,
			Projection: []string{"_id"},
		})
		if err != nil {
			return "", fmt.Errorf("fieldauth/resolver: current shelter: %w", err)
		}
		shelters, err := store.Decode[entity.Shelter](raws)
		if err != nil {
			return "", err
		}
		id := ""
		if len(shelters) > 0 {
			id = shelters[0].ID
		}
		r.shelters.Set(key, id)
		return id, nil
	})
	if err != nil {
		return "", err
	}
	id := v.(string)
	m.set(key, id)
	r.logger.Debug("resolved current shelter", slog.String("user_id", uid), slog.String("shelter_id", id))
	return id, nil
}

// OwnedFilter returns the fragment selecting the caller's own records of
// kind. It returns nil when kind has no ownership notion, and a fragment
// matching nothing for an anonymous caller.
func (r *Resolver) OwnedFilter(ctx context.Context, kind entity.Kind) (bson.M, error) {
	build, ok := ownedBuilders[kind]
	if !ok {
		return nil, nil
	}
	return r.fragment(ctx, kind, scopeOwned, build)
}

// AffiliatedFilter returns the fragment selecting records of kind the
// caller is affiliated with. Nil and match-nothing semantics follow
// OwnedFilter.
func (r *Resolver) AffiliatedFilter(ctx context.Context, kind entity.Kind) (bson.M, error) {
	build, ok := affiliatedBuilders[kind]
	if !ok {
		return nil, nil
	}
	return r.fragment(ctx, kind, scopeAffiliated, build)
}

func (r *Resolver) fragment(ctx context.Context, kind entity.Kind, scope string, build builderFunc) (bson.M, error) {
	uid := r.CurrentUserID(ctx)
	if uid == "" {
		return MatchNothing(), nil
	}
	key := fmt.Sprintf("%s:%s:%s", uid, kind, scope)
	m := memoFrom(ctx)
	if v, ok := m.get(key); ok {
		return v.(bson.M), nil
	}
	if f, ok := r.fragments.Get(key); ok {
		m.set(key, f)
		return f, nil
	}

	shared := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do(key, func() (any, error) {
		f, err := build(shared, r, uid)
		if err != nil {
			return nil, fmt.Errorf("fieldauth/resolver: %s %s fragment: %w", scope, kind, err)
		}
		r.fragments.Set(key, f)
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	f := v.(bson.M)
	m.set(key, f)
	r.logger.Debug("built filter fragment",
		slog.String("user_id", uid),
		slog.String("kind", string(kind)),
		slog.String("scope", scope),
	)
	return f, nil
}

// AdoptionRequestExists reports whether the caller has already applied to
// adopt animalID.
func (r *Resolver) AdoptionRequestExists(ctx context.Context, animalID string) (bool, error) {
	uid := r.CurrentUserID(ctx)
	if uid == "" {
		return false, fmt.Errorf("%w: adoption request check needs an authenticated user", principal.ErrForbidden)
	}
	n, err := r.store.Count(ctx, entity.KindAdoptionApplication, bson.M{
		"userId":   uid,
		"animalId": animalID,
	})
	if err != nil {
		return false, fmt.Errorf("fieldauth/resolver: adoption request exists: %w", err)
	}
	return n > 0, nil
}

// Invalidate drops every cached shelter id and fragment of userID.
func (r *Resolver) Invalidate(userID string) {
	prefix := userID + ":"
	n := r.shelters.InvalidatePrefix(prefix)
	n += r.fragments.InvalidatePrefix(prefix)
	r.logger.Debug("invalidated resolver cache", slog.String("user_id", userID), slog.Int("entries", n))
}

// MatchNothing returns a fragment no document satisfies.
func MatchNothing() bson.M {
	return bson.M{"_id": bson.M{"$in": []string{}}}
}
