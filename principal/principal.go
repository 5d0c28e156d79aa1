// Package principal carries the authenticated caller through a context and
// exposes the claims the authorization layer reads.
package principal

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/xraph/forge"
)

// ErrForbidden is returned when an operation needs an authenticated caller
// or a grant the caller does not hold.
var ErrForbidden = errors.New("fieldauth: forbidden")

// ErrInvalidToken is returned when a bearer token fails verification.
var ErrInvalidToken = errors.New("fieldauth: invalid token")

// Principal is the authenticated caller.
type Principal struct {
	UserID   string
	Email    string
	Roles    []string
	IssuedAt time.Time
}

// HasRole reports whether the principal holds role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// Claims is the JWT claim set issued to shelter platform users.
type Claims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// FromClaims builds a Principal from validated token claims. The subject
// is the user id.
func FromClaims(c *Claims) Principal {
	p := Principal{
		UserID: strings.TrimSpace(c.Subject),
		Email:  strings.TrimSpace(c.Email),
		Roles:  dedupeRoles(c.Roles),
	}
	if c.IssuedAt != nil {
		p.IssuedAt = c.IssuedAt.Time
	}
	return p
}

// ParseToken verifies an HS256 token signed with secret and returns its
// claims. Expiry and not-before are checked by the parser; a token without
// a subject is rejected.
func ParseToken(token string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// dedupeRoles trims and deduplicates roles. Case is preserved since role
// names are compared exactly against policies.
func dedupeRoles(roles []string) []string {
	if len(roles) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(roles))
	var out []string
	for _, r := range roles {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

type ctxKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	p.Roles = dedupeRoles(p.Roles)
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the principal stored in ctx.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}

// ──────────────────────────────────────────────────
// Extractor
// ──────────────────────────────────────────────────

// Extractor reads the current caller's claims from a request context.
type Extractor interface {
	CurrentUserID(ctx context.Context) string
	CurrentUserEmail(ctx context.Context) string
	CurrentUserRoles(ctx context.Context) []string
}

// ContextExtractor reads the Principal placed by WithPrincipal. When none
// is present the user id falls back to the one Forge's auth layer sets.
type ContextExtractor struct{}

var _ Extractor = ContextExtractor{}

// CurrentUserID implements Extractor.
func (ContextExtractor) CurrentUserID(ctx context.Context) string {
	if p, ok := FromContext(ctx); ok {
		return p.UserID
	}
	return forge.UserIDFromContext(ctx)
}

// CurrentUserEmail implements Extractor.
func (ContextExtractor) CurrentUserEmail(ctx context.Context) string {
	if p, ok := FromContext(ctx); ok {
		return p.Email
	}
	return ""
}

// CurrentUserRoles implements Extractor.
func (ContextExtractor) CurrentUserRoles(ctx context.Context) []string {
	if p, ok := FromContext(ctx); ok {
		return p.Roles
	}
	return nil
}
