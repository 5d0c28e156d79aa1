package fields_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/fields"
)

func TestPrepareFieldsList(t *testing.T) {
	got := fields.PrepareFieldsList([]string{"name", " shelter.shelterName ", "", "Name", "shelter..id", "*"})
	want := []string{"Name", "Shelter.ShelterName", "Shelter.Id", "*"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractNonPrefixed(t *testing.T) {
	got := fields.ExtractNonPrefixed([]string{"Name", "Shelter.Id", "Age", "Name"})
	if !slices.Equal(got, []string{"Name", "Age"}) {
		t.Fatalf("got %v", got)
	}
}

func TestExtractPrefixed(t *testing.T) {
	in := []string{"Shelter", "Shelter.ShelterName", "ShelterName", "Shelter.User.Email", "Shelter.Id"}
	got := fields.ExtractPrefixed(in, "Shelter")
	want := []string{"Id", "ShelterName", "User.Email"}
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExpandWildcard(t *testing.T) {
	s := entity.MustSchema(entity.KindUser)
	got := fields.ExpandWildcard(s, []string{"*", "Shelter.ShelterName", "*"})

	for _, n := range s.Natives {
		if !slices.Contains(got, n) {
			t.Errorf("missing native %s", n)
		}
	}
	for _, r := range []string{"Shelter", "ProfilePhoto", "Shelter.ShelterName"} {
		if !slices.Contains(got, r) {
			t.Errorf("missing %s", r)
		}
	}
	if slices.Contains(got, "*") {
		t.Error("wildcard should be replaced")
	}
}

func TestExpandWildcardSkipsInverse(t *testing.T) {
	got := fields.ExpandWildcard(entity.MustSchema(entity.KindShelter), []string{"*"})
	if slices.Contains(got, "Animals") {
		t.Fatalf("inverse relation leaked into %v", got)
	}
	if !slices.Contains(got, "User") {
		t.Fatalf("expected User root in %v", got)
	}
}

func TestSplit(t *testing.T) {
	s := entity.MustSchema(entity.KindAnimal)
	natives, nested := fields.Split(s, []string{"Name", "Shelter", "Shelter.ShelterName", "Bogus", "Breed.AnimalType.Name"})

	if !slices.Equal(natives, []string{"Name"}) {
		t.Fatalf("natives = %v", natives)
	}
	if !slices.Equal(nested["Shelter"], []string{"Id", "ShelterName"}) {
		t.Fatalf("shelter = %v", nested["Shelter"])
	}
	if !slices.Equal(nested["Breed"], []string{"AnimalType.Name"}) {
		t.Fatalf("breed = %v", nested["Breed"])
	}
	if _, ok := nested["Bogus"]; ok {
		t.Fatal("unknown root should be dropped")
	}
}

func TestValidateField(t *testing.T) {
	valid := []string{"Name", "ShelterId", "Shelter", "Shelter.ShelterName", "Shelter.User.Email", "AttachedPhotos.*", "*"}
	for _, f := range valid {
		if err := fields.ValidateField(entity.KindAnimal, f); err != nil {
			t.Errorf("ValidateField(%q) = %v", f, err)
		}
	}

	invalid := []string{"Nope", "Shelter.Nope", "Breed.AnimalType.Color"}
	for _, f := range invalid {
		err := fields.ValidateField(entity.KindAnimal, f)
		if !errors.Is(err, fields.ErrInvalidField) {
			t.Errorf("ValidateField(%q) = %v, want ErrInvalidField", f, err)
		}
	}
}

func TestValidateFieldsForEntity(t *testing.T) {
	if err := fields.ValidateFieldsForEntity(entity.KindMessage, []string{"Content", "Sender.FullName"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := fields.ValidateFieldsForEntity(entity.KindMessage, []string{"Content", "Sender.Password"})
	if !errors.Is(err, fields.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField, got %v", err)
	}
	if err := fields.ValidateField("Unicorn", "Id"); !errors.Is(err, fields.ErrInvalidField) {
		t.Fatalf("expected ErrInvalidField for unknown kind, got %v", err)
	}
}
