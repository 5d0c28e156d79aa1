// Package middleware provides HTTP middleware that guards handlers calling
// the field authorization engine.
package middleware

import (
	"net/http"
	"slices"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/xraph/forge"

	"github.com/shelterhub/fieldauth/principal"
)

// Authenticate verifies an HS256 bearer token and attaches the caller as a
// principal.Principal to the request context. Requests without an
// Authorization header pass through anonymous; a bad token gets 401.
func Authenticate(secret []byte) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			header := ctx.Header("Authorization")
			if header == "" {
				return next(ctx)
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return errorResponse(ctx, http.StatusUnauthorized, principal.ErrInvalidToken)
			}
			claims, err := principal.ParseToken(strings.TrimSpace(token), secret)
			if err != nil {
				return errorResponse(ctx, http.StatusUnauthorized, principal.ErrInvalidToken)
			}
			AttachClaims(ctx, claims)
			return next(ctx)
		}
	}
}

// AttachClaims stores the principal built from already validated claims in
// the request context.
func AttachClaims(ctx forge.Context, c *principal.Claims) {
	ctx.WithContext(principal.WithPrincipal(ctx.Context(), principal.FromClaims(c)))
}

// RequireUser rejects requests without an authenticated user. The user id
// is read through claims (Forge user id when claims is a
// principal.ContextExtractor and no Principal was attached).
func RequireUser(claims principal.Extractor) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			if claims.CurrentUserID(ctx.Context()) == "" {
				return errorResponse(ctx, http.StatusForbidden, principal.ErrForbidden)
			}
			return next(ctx)
		}
	}
}

// RequireRole allows the request if the caller holds ANY of roles.
func RequireRole(claims principal.Extractor, roles ...string) forge.Middleware {
	return func(next forge.Handler) forge.Handler {
		return func(ctx forge.Context) error {
			for _, r := range claims.CurrentUserRoles(ctx.Context()) {
				if slices.Contains(roles, r) {
					return next(ctx)
				}
			}
			return errorResponse(ctx, http.StatusForbidden, principal.ErrForbidden)
		}
	}
}

func errorResponse(ctx forge.Context, status int, err error) error {
	ctx.SetHeader("Content-Type", "application/json")
	ctx.Response().WriteHeader(status)
	return json.NewEncoder(ctx.Response()).Encode(map[string]string{"error": err.Error()})
}
