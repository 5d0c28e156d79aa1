package authz_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shelterhub/fieldauth/authz"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/lookup"
	"github.com/shelterhub/fieldauth/policy"
	"github.com/shelterhub/fieldauth/principal"
	"github.com/shelterhub/fieldauth/query"
	"github.com/shelterhub/fieldauth/resolver"
	"github.com/shelterhub/fieldauth/store/memory"
)

func setup(t *testing.T) (*authz.Service, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	s := memory.New()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	must(s.Insert(ctx, entity.KindShelter, entity.Shelter{ID: "s1", UserID: "manager"}))
	must(s.Insert(ctx, entity.KindAnimal,
		entity.Animal{ID: "a1", ShelterID: "s1"},
		entity.Animal{ID: "a2", ShelterID: "s2"},
	))
	must(s.Insert(ctx, entity.KindFile,
		entity.File{ID: "f1", OwnerID: "owner"},
	))
	must(s.Insert(ctx, entity.KindMessage,
		entity.Message{ID: "m1", ConversationID: "c1", SenderID: "alice", RecipientID: "bob"},
	))

	claims := principal.ContextExtractor{}
	res := resolver.New(s, claims)
	queries := query.NewFactory(s, res)
	svc := authz.New(policy.NewStatic(policy.Defaults()), claims, res, queries)
	queries.SetPermissionChecker(svc)
	return svc, s
}

func as(uid string, roles ...string) context.Context {
	return principal.WithPrincipal(context.Background(), principal.Principal{UserID: uid, Roles: roles})
}

func TestAuthorizeRolesOnly(t *testing.T) {
	svc, _ := setup(t)
	if !svc.Authorize(as("x", policy.RoleAdmin), policy.BrowseUsers) {
		t.Fatal("admin should browse users")
	}
	if svc.Authorize(as("x", policy.RoleShelter), policy.BrowseUsers) {
		t.Fatal("affiliated role must not grant bare permission")
	}
	if !svc.Authorize(as("x", policy.RoleUser), policy.BrowseUsers, policy.BrowseAnimals) {
		t.Fatal("any permission should suffice")
	}
	if svc.Authorize(context.Background(), policy.BrowseAnimals) {
		t.Fatal("anonymous caller has no roles")
	}
}

func TestAuthorizeOwned(t *testing.T) {
	svc, s := setup(t)

	ok, err := svc.AuthorizeOwned(as("owner"), &authz.OwnedResource{OwnerIDs: []string{"owner"}})
	if err != nil || !ok {
		t.Fatalf("owner id match: ok=%v err=%v", ok, err)
	}
	if s.Counts() != 0 {
		t.Fatal("owner id match should not query")
	}

	ok, err = svc.AuthorizeOwned(as("owner"), &authz.OwnedResource{RequestedFilters: &lookup.FileLookup{IDs: []string{"f1"}}})
	if err != nil || !ok {
		t.Fatalf("count match: ok=%v err=%v", ok, err)
	}

	ok, err = svc.AuthorizeOwned(as("stranger"), &authz.OwnedResource{RequestedFilters: &lookup.FileLookup{IDs: []string{"f1"}}})
	if err != nil || ok {
		t.Fatalf("stranger: ok=%v err=%v", ok, err)
	}

	// Animals have no owned fragment.
	ok, err = svc.AuthorizeOwned(as("manager"), &authz.OwnedResource{RequestedFilters: &lookup.AnimalLookup{}})
	if err != nil || ok {
		t.Fatalf("no fragment: ok=%v err=%v", ok, err)
	}

	ok, _ = svc.AuthorizeOwned(context.Background(), &authz.OwnedResource{OwnerIDs: []string{""}})
	if ok {
		t.Fatal("anonymous caller owns nothing")
	}
}

func TestAuthorizeAffiliatedRequiresRole(t *testing.T) {
	svc, _ := setup(t)
	res := &authz.AffiliatedResource{RequestedFilters: &lookup.MessageLookup{}}

	ok, err := svc.AuthorizeAffiliated(as("alice", policy.RoleUser), res, policy.BrowseMessages)
	if err != nil {
		t.Fatalf("AuthorizeAffiliated: %v", err)
	}
	// alice sent m1 but is not a participant of any stored conversation.
	if ok {
		t.Fatal("no conversation membership should deny")
	}

	res = &authz.AffiliatedResource{RequestedFilters: &lookup.AnimalLookup{IDs: []string{"a1"}}}
	ok, err = svc.AuthorizeAffiliated(as("manager", policy.RoleShelter), res, policy.BrowseAnimals)
	if err != nil {
		t.Fatalf("AuthorizeAffiliated: %v", err)
	}
	if ok {
		t.Fatal("BrowseAnimals has no affiliated roles by default")
	}

	res = &authz.AffiliatedResource{AffiliatedRoles: []string{policy.RoleShelter}, RequestedFilters: &lookup.AnimalLookup{IDs: []string{"a1"}}}
	ok, err = svc.AuthorizeAffiliated(as("manager", policy.RoleShelter), res, policy.BrowseAnimals)
	if err != nil || !ok {
		t.Fatalf("explicit affiliated role: ok=%v err=%v", ok, err)
	}

	res = &authz.AffiliatedResource{AffiliatedRoles: []string{policy.RoleShelter}, RequestedFilters: &lookup.AnimalLookup{IDs: []string{"a2"}}}
	ok, err = svc.AuthorizeAffiliated(as("manager", policy.RoleShelter), res, policy.BrowseAnimals)
	if err != nil || ok {
		t.Fatalf("other shelter's animal: ok=%v err=%v", ok, err)
	}
}

func TestCombinatorsShortCircuit(t *testing.T) {
	svc, s := setup(t)
	owned := &authz.OwnedResource{RequestedFilters: &lookup.FileLookup{}}
	affiliated := &authz.AffiliatedResource{RequestedFilters: &lookup.FileLookup{}}

	ok, err := svc.AuthorizeOrOwnedOrAffiliated(as("x", policy.RoleAdmin), owned, affiliated, policy.BrowseFiles)
	if err != nil || !ok {
		t.Fatalf("admin: ok=%v err=%v", ok, err)
	}
	if s.Counts() != 0 {
		t.Fatal("permission success must not query")
	}

	ok, err = svc.AuthorizeOrOwned(as("owner", policy.RoleUser), owned, policy.BrowseFiles)
	if err != nil || !ok {
		t.Fatalf("owner: ok=%v err=%v", ok, err)
	}

	ok, err = svc.AuthorizeOrAffiliated(as("owner", policy.RoleUser), affiliated, policy.BrowseFiles)
	if err != nil || ok {
		t.Fatalf("user without affiliated role: ok=%v err=%v", ok, err)
	}
}

func TestAuthorizeContextHonorsFlags(t *testing.T) {
	svc, _ := setup(t)
	ctx := as("owner", policy.RoleUser)
	actx := authz.NewContext("owner").OwnedFrom(&lookup.FileLookup{}, "owner").Build()

	ok, err := svc.AuthorizeContext(ctx, actx, query.FlagPermission, policy.BrowseFiles)
	if err != nil || ok {
		t.Fatalf("permission only: ok=%v err=%v", ok, err)
	}
	ok, err = svc.AuthorizeContext(ctx, actx, query.FlagAny, policy.BrowseFiles)
	if err != nil || !ok {
		t.Fatalf("any: ok=%v err=%v", ok, err)
	}
	if err := svc.Enforce(ctx, actx, query.FlagAffiliation, policy.BrowseFiles); !errors.Is(err, principal.ErrForbidden) {
		t.Fatalf("Enforce = %v, want ErrForbidden", err)
	}
}

func TestRequirementResultCached(t *testing.T) {
	svc, s := setup(t)
	res := &authz.OwnedResource{RequestedFilters: &lookup.FileLookup{IDs: []string{"f1"}}}

	for i := 0; i < 3; i++ {
		if ok, err := svc.AuthorizeOwned(as("owner"), res); err != nil || !ok {
			t.Fatalf("call %d: ok=%v err=%v", i, ok, err)
		}
	}
	if s.Counts() != 1 {
		t.Fatalf("counts = %d, want 1", s.Counts())
	}

	if n := svc.Invalidate("owner"); n != 1 {
		t.Fatalf("invalidated %d entries, want 1", n)
	}
	if _, err := svc.AuthorizeOwned(as("owner"), res); err != nil {
		t.Fatal(err)
	}
	if s.Counts() != 2 {
		t.Fatalf("counts = %d, want 2 after invalidation", s.Counts())
	}
}

func TestContextIsImmutable(t *testing.T) {
	b := authz.NewContext("u1").OwnedFrom(&lookup.UserLookup{}, "u1", "u1", "u2")
	first := b.Build()
	b.OwnedFrom(&lookup.UserLookup{}, "u3")

	if got := first.Owned().OwnerIDs; len(got) != 2 || got[0] != "u1" || got[1] != "u2" {
		t.Fatalf("owner ids = %v", got)
	}
	first.Owned().OwnerIDs[0] = "mutated"
	if first.Owned().OwnerIDs[0] != "u1" {
		t.Fatal("Owned exposed internal slice")
	}
	if first.Affiliated() != nil || first.AffiliatedLookup() != nil {
		t.Fatal("affiliated scope should be empty")
	}
}

func TestRootContextUsesLookupOwners(t *testing.T) {
	l := &lookup.MessageLookup{SenderIDs: []string{"alice"}}
	actx := authz.RootContext("alice", l)
	if actx.CurrentUserID() != "alice" {
		t.Fatalf("uid = %q", actx.CurrentUserID())
	}
	if got := actx.Owned().OwnerIDs; len(got) != 1 || got[0] != "alice" {
		t.Fatalf("owners = %v", got)
	}
	if actx.OwnedLookup() != l || actx.AffiliatedLookup() != l {
		t.Fatal("root scopes should share the request lookup")
	}
}
