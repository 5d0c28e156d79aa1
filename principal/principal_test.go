package principal_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shelterhub/fieldauth/principal"
)

func TestFromClaims(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p := principal.FromClaims(&principal.Claims{
		Email: " ana@example.org ",
		Roles: []string{"User", " Shelter", "User", ""},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  "user_1",
			IssuedAt: jwt.NewNumericDate(issued),
		},
	})

	if p.UserID != "user_1" {
		t.Errorf("UserID = %q", p.UserID)
	}
	if p.Email != "ana@example.org" {
		t.Errorf("Email = %q", p.Email)
	}
	if !slices.Equal(p.Roles, []string{"User", "Shelter"}) {
		t.Errorf("Roles = %v", p.Roles)
	}
	if !p.IssuedAt.Equal(issued) {
		t.Errorf("IssuedAt = %v", p.IssuedAt)
	}
	if !p.HasRole("Shelter") || p.HasRole("Admin") {
		t.Error("HasRole mismatch")
	}
}

func TestContextExtractor(t *testing.T) {
	var ex principal.ContextExtractor

	ctx := context.Background()
	if ex.CurrentUserID(ctx) != "" {
		t.Fatal("expected no user on bare context")
	}
	if ex.CurrentUserRoles(ctx) != nil {
		t.Fatal("expected no roles on bare context")
	}

	ctx = principal.WithPrincipal(ctx, principal.Principal{UserID: "u1", Email: "u1@example.org", Roles: []string{"Admin"}})
	if got := ex.CurrentUserID(ctx); got != "u1" {
		t.Errorf("CurrentUserID = %q", got)
	}
	if got := ex.CurrentUserEmail(ctx); got != "u1@example.org" {
		t.Errorf("CurrentUserEmail = %q", got)
	}
	if got := ex.CurrentUserRoles(ctx); !slices.Equal(got, []string{"Admin"}) {
		t.Errorf("CurrentUserRoles = %v", got)
	}
}

func TestFromContextRejectsEmptyUser(t *testing.T) {
	ctx := principal.WithPrincipal(context.Background(), principal.Principal{Roles: []string{"Admin"}})
	if _, ok := principal.FromContext(ctx); ok {
		t.Fatal("principal without user id should be ignored")
	}
}

func sign(t *testing.T, method jwt.SigningMethod, secret []byte, c principal.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, c).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func TestParseToken(t *testing.T) {
	secret := []byte("test-secret")
	now := time.Now()
	valid := principal.Claims{
		Roles: []string{"User"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	c, err := principal.ParseToken(sign(t, jwt.SigningMethodHS256, secret, valid), secret)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if c.Subject != "user_1" || !slices.Equal(c.Roles, []string{"User"}) {
		t.Fatalf("claims = %+v", c)
	}

	if _, err := principal.ParseToken(sign(t, jwt.SigningMethodHS256, []byte("other"), valid), secret); !errors.Is(err, principal.ErrInvalidToken) {
		t.Fatalf("wrong secret: err = %v", err)
	}
	if _, err := principal.ParseToken(sign(t, jwt.SigningMethodHS512, secret, valid), secret); !errors.Is(err, principal.ErrInvalidToken) {
		t.Fatalf("wrong method: err = %v", err)
	}

	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Minute))
	if _, err := principal.ParseToken(sign(t, jwt.SigningMethodHS256, secret, expired), secret); !errors.Is(err, principal.ErrInvalidToken) {
		t.Fatalf("expired: err = %v", err)
	}

	anonymous := valid
	anonymous.Subject = ""
	if _, err := principal.ParseToken(sign(t, jwt.SigningMethodHS256, secret, anonymous), secret); !errors.Is(err, principal.ErrInvalidToken) {
		t.Fatalf("no subject: err = %v", err)
	}
}
