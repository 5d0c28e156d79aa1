package censor

import (
	"reflect"
	"slices"
	"testing"

	"github.com/shelterhub/fieldauth/authz"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/lookup"
)

func TestMessageConversationLookupUnion(t *testing.T) {
	owned := &lookup.MessageLookup{
		ConversationIDs: []string{"c1", "c2"},
		SenderIDs:       []string{"alice"},
		RecipientIDs:    []string{"bob", "alice"},
	}
	affiliated := &lookup.MessageLookup{
		ConversationIDs: []string{"c2", "c3"},
		SenderIDs:       []string{"carol", "bob"},
		RecipientIDs:    []string{"alice"},
	}

	got := messageConversationLookup(owned, affiliated)
	if want := []string{"c1", "c2", "c3"}; !reflect.DeepEqual(got.IDs, want) {
		t.Fatalf("IDs = %v, want %v", got.IDs, want)
	}
	users := slices.Clone(got.UserIDs)
	slices.Sort(users)
	if want := []string{"alice", "bob", "carol"}; !reflect.DeepEqual(users, want) {
		t.Fatalf("UserIDs = %v, want %v", users, want)
	}

	empty := messageConversationLookup(&lookup.MessageLookup{}, &lookup.MessageLookup{})
	if empty.IDs != nil || empty.UserIDs != nil {
		t.Fatalf("empty scopes produced %+v", empty)
	}
}

func TestReportScopesReadOwnedLookup(t *testing.T) {
	parent := authz.NewContext("u1").
		OwnedFrom(&lookup.ReportLookup{ReportedIDs: []string{"owned"}}).
		AffiliatedWith(&lookup.ReportLookup{ReportedIDs: []string{"affiliated"}}).
		Build()

	child := rules[entity.KindReport].scopes["Reported"](parent)
	aff, ok := child.AffiliatedLookup().(*lookup.UserLookup)
	if !ok {
		t.Fatalf("affiliated lookup is %T", child.AffiliatedLookup())
	}
	if !reflect.DeepEqual(aff.IDs, []string{"owned"}) {
		t.Fatalf("affiliated ids = %v", aff.IDs)
	}
}

func TestEveryRelationHasScope(t *testing.T) {
	for _, k := range entity.Kinds() {
		ru, ok := rules[k]
		if !ok {
			t.Fatalf("no rule for %s", k)
		}
		for _, rel := range entity.MustSchema(k).Relations {
			if ru.scopes[rel.Name] == nil {
				t.Fatalf("%s.%s has no scope", k, rel.Name)
			}
		}
	}
}

func TestScopesToleratesForeignLookup(t *testing.T) {
	actx := authz.NewContext("u1").OwnedFrom(&lookup.AnimalLookup{}).Build()
	o, a := scopes[lookup.UserLookup](actx)
	if o == nil || a == nil {
		t.Fatal("scopes returned nil lookups")
	}
}
