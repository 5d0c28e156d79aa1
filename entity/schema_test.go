package entity_test

import (
	"testing"

	"github.com/shelterhub/fieldauth/entity"
)

func TestStorageName(t *testing.T) {
	tests := map[string]string{
		"Id":                "_id",
		"ShelterName":       "shelterName",
		"AttachedPhotosIds": "attachedPhotosIds",
		"SourceUrl":         "sourceUrl",
		"":                  "",
	}
	for in, want := range tests {
		if got := entity.StorageName(in); got != want {
			t.Errorf("StorageName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEveryKindHasSchema(t *testing.T) {
	for _, k := range entity.Kinds() {
		s, ok := entity.SchemaOf(k)
		if !ok {
			t.Fatalf("missing schema for %s", k)
		}
		if !s.IsNative("Id") {
			t.Errorf("%s: Id must be native", k)
		}
		for _, r := range s.Relations {
			if !r.Target.Valid() {
				t.Errorf("%s.%s targets unknown kind %q", k, r.Name, r.Target)
			}
			if r.Shape == entity.ShapeInverse {
				target := entity.MustSchema(r.Target)
				if !target.HasProperty(r.ForeignKey) {
					t.Errorf("%s.%s: target lacks key %s", k, r.Name, r.ForeignKey)
				}
			}
		}
	}
}

func TestForeignRootsExcludeInverse(t *testing.T) {
	s := entity.MustSchema(entity.KindShelter)
	roots := s.ForeignRoots()
	if len(roots) != 1 || roots[0] != "User" {
		t.Fatalf("expected [User], got %v", roots)
	}
	if !s.HasProperty("UserId") {
		t.Error("UserId should be a declared property")
	}
	if s.HasProperty("ShelterId") {
		t.Error("inverse key must not be a shelter property")
	}
}

func TestKindByCollection(t *testing.T) {
	k, ok := entity.KindByCollection("adoption_applications")
	if !ok || k != entity.KindAdoptionApplication {
		t.Fatalf("got %q, %v", k, ok)
	}
	if _, ok := entity.KindByCollection("nope"); ok {
		t.Fatal("unexpected match")
	}
}
