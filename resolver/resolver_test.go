package resolver_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/principal"
	"github.com/shelterhub/fieldauth/resolver"
	"github.com/shelterhub/fieldauth/store"
	"github.com/shelterhub/fieldauth/store/memory"
)

func setup(t *testing.T) (*resolver.Resolver, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	must(s.Insert(ctx, entity.KindUser,
		entity.User{ID: "u1", FullName: "Manager"},
		entity.User{ID: "u2", FullName: "Applicant"},
		entity.User{ID: "u3", FullName: "Other applicant"},
		entity.User{ID: "u4", FullName: "Stranger"},
	))
	must(s.Insert(ctx, entity.KindShelter, entity.Shelter{ID: "s1", UserID: "u1", ShelterName: "Paws"}))
	must(s.Insert(ctx, entity.KindAdoptionApplication,
		entity.AdoptionApplication{ID: "ap1", UserID: "u2", AnimalID: "a1", ShelterID: "s1"},
		entity.AdoptionApplication{ID: "ap2", UserID: "u3", AnimalID: "a2", ShelterID: "s1"},
		entity.AdoptionApplication{ID: "ap3", UserID: "u4", AnimalID: "a9", ShelterID: "s9"},
	))
	must(s.Insert(ctx, entity.KindConversation,
		entity.Conversation{ID: "c1", UserIDs: []string{"u1", "u2"}},
		entity.Conversation{ID: "c2", UserIDs: []string{"u3", "u4"}},
	))
	return resolver.New(s, principal.ContextExtractor{}), s
}

func as(uid string, roles ...string) context.Context {
	return principal.WithPrincipal(context.Background(), principal.Principal{UserID: uid, Roles: roles})
}

func TestCurrentPrincipalShelter(t *testing.T) {
	r, s := setup(t)

	id, err := r.CurrentPrincipalShelter(as("u1"))
	if err != nil {
		t.Fatalf("CurrentPrincipalShelter: %v", err)
	}
	if id != "s1" {
		t.Fatalf("got %q, want s1", id)
	}

	before := s.Finds()
	if _, err := r.CurrentPrincipalShelter(as("u1")); err != nil {
		t.Fatal(err)
	}
	if s.Finds() != before {
		t.Fatal("second lookup should be served from cache")
	}

	id, err = r.CurrentPrincipalShelter(as("u2"))
	if err != nil || id != "" {
		t.Fatalf("non-manager: got %q, %v", id, err)
	}

	id, err = r.CurrentPrincipalShelter(context.Background())
	if err != nil || id != "" {
		t.Fatalf("anonymous: got %q, %v", id, err)
	}
}

func TestOwnedFilter(t *testing.T) {
	r, _ := setup(t)
	ctx := as("u1")

	f, err := r.OwnedFilter(ctx, entity.KindUser)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, bson.M{"_id": "u1"}) {
		t.Fatalf("owned user fragment = %v", f)
	}

	f, err = r.OwnedFilter(ctx, entity.KindAnimal)
	if err != nil || f != nil {
		t.Fatalf("animals have no ownership fragment, got %v, %v", f, err)
	}

	f, err = r.OwnedFilter(context.Background(), entity.KindUser)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, resolver.MatchNothing()) {
		t.Fatalf("anonymous owned fragment = %v", f)
	}
}

func TestAffiliatedUserFilter(t *testing.T) {
	r, s := setup(t)
	ctx := as("u1", "Shelter")

	f, err := r.AffiliatedFilter(ctx, entity.KindUser)
	if err != nil {
		t.Fatal(err)
	}
	n, err := s.Count(ctx, entity.KindUser, f)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected the 2 applicants of s1, got %d (fragment %v)", n, f)
	}

	// u4 manages no shelter and is affiliated with nobody.
	f, err = r.AffiliatedFilter(as("u4"), entity.KindUser)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx, entity.KindUser, f); n != 0 {
		t.Fatalf("expected no affiliated users, got %d", n)
	}
}

func TestAffiliatedAnimalFilter(t *testing.T) {
	r, _ := setup(t)

	f, err := r.AffiliatedFilter(as("u1"), entity.KindAnimal)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, bson.M{"shelterId": "s1"}) {
		t.Fatalf("got %v", f)
	}

	f, err = r.AffiliatedFilter(as("u2"), entity.KindAnimal)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, resolver.MatchNothing()) {
		t.Fatalf("non-manager should match nothing, got %v", f)
	}
}

func TestAffiliatedMessageFilter(t *testing.T) {
	r, s := setup(t)
	ctx := as("u2")
	if err := s.Insert(ctx, entity.KindMessage,
		entity.Message{ID: "m1", ConversationID: "c1", SenderID: "u1", RecipientID: "u2"},
		entity.Message{ID: "m2", ConversationID: "c2", SenderID: "u3", RecipientID: "u4"},
	); err != nil {
		t.Fatal(err)
	}

	f, err := r.AffiliatedFilter(ctx, entity.KindMessage)
	if err != nil {
		t.Fatal(err)
	}
	n, err := s.Count(ctx, entity.KindMessage, f)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 message in u2's conversations, got %d", n)
	}

	owned, err := r.OwnedFilter(ctx, entity.KindMessage)
	if err != nil {
		t.Fatal(err)
	}
	if n, _ := s.Count(ctx, entity.KindMessage, owned); n != 1 {
		t.Fatalf("expected 1 message sent to or by u2, got %d", n)
	}
}

func TestInvalidate(t *testing.T) {
	r, s := setup(t)
	ctx := as("u2")

	id, _ := r.CurrentPrincipalShelter(ctx)
	if id != "" {
		t.Fatalf("u2 manages nothing yet, got %q", id)
	}
	if err := s.Insert(ctx, entity.KindShelter, entity.Shelter{ID: "s2", UserID: "u2"}); err != nil {
		t.Fatal(err)
	}

	id, _ = r.CurrentPrincipalShelter(ctx)
	if id != "" {
		t.Fatalf("stale cache expected before invalidation, got %q", id)
	}

	r.Invalidate("u2")
	id, _ = r.CurrentPrincipalShelter(ctx)
	if id != "s2" {
		t.Fatalf("expected s2 after invalidation, got %q", id)
	}
}

func TestRequestScopeMemo(t *testing.T) {
	r, s := setup(t)
	ctx := resolver.WithRequestScope(as("u1"))

	if _, err := r.CurrentPrincipalShelter(ctx); err != nil {
		t.Fatal(err)
	}
	finds := s.Finds()
	r.Invalidate("u1")

	if _, err := r.CurrentPrincipalShelter(ctx); err != nil {
		t.Fatal(err)
	}
	if s.Finds() != finds {
		t.Fatal("request memo should survive cache invalidation")
	}
	if resolver.WithRequestScope(ctx) != ctx {
		t.Fatal("nested request scope should reuse the memo")
	}
}

func TestAdoptionRequestExists(t *testing.T) {
	r, _ := setup(t)

	_, err := r.AdoptionRequestExists(context.Background(), "a1")
	if !errors.Is(err, principal.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	ok, err := r.AdoptionRequestExists(as("u2"), "a1")
	if err != nil || !ok {
		t.Fatalf("u2 applied for a1: got %v, %v", ok, err)
	}
	ok, err = r.AdoptionRequestExists(as("u2"), "a2")
	if err != nil || ok {
		t.Fatalf("u2 never applied for a2: got %v, %v", ok, err)
	}
}

// cancelAware fails reads on a done context, as a network-backed store would.
type cancelAware struct{ *memory.Store }

func (c cancelAware) Find(ctx context.Context, kind entity.Kind, filter bson.M, opts *store.FindOptions) ([]bson.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.Store.Find(ctx, kind, filter, opts)
}

func (c cancelAware) Distinct(ctx context.Context, kind entity.Kind, field string, filter bson.M) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.Store.Distinct(ctx, kind, field, filter)
}

func TestSharedLoadIgnoresCallerCancellation(t *testing.T) {
	_, s := setup(t)
	r := resolver.New(cancelAware{s}, principal.ContextExtractor{})

	ctx, cancel := context.WithCancel(as("u1"))
	cancel()

	id, err := r.CurrentPrincipalShelter(ctx)
	if err != nil {
		t.Fatalf("CurrentPrincipalShelter: %v", err)
	}
	if id != "s1" {
		t.Fatalf("got %q, want s1", id)
	}

	before := s.Finds()
	if id, err := r.CurrentPrincipalShelter(as("u1")); err != nil || id != "s1" {
		t.Fatalf("cached: got %q, %v", id, err)
	}
	if s.Finds() != before {
		t.Fatal("cancelled caller's result should still be cached")
	}
}
