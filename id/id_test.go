package id_test

import (
	"strings"
	"testing"

	"github.com/shelterhub/fieldauth/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() string
		prefix id.Prefix
	}{
		{"User", id.NewUser, id.PrefixUser},
		{"Shelter", id.NewShelter, id.PrefixShelter},
		{"Animal", id.NewAnimal, id.PrefixAnimal},
		{"Breed", id.NewBreed, id.PrefixBreed},
		{"AnimalType", id.NewAnimalType, id.PrefixAnimalType},
		{"File", id.NewFile, id.PrefixFile},
		{"AdoptionApplication", id.NewAdoptionApplication, id.PrefixAdoptionApplication},
		{"Conversation", id.NewConversation, id.PrefixConversation},
		{"Message", id.NewMessage, id.PrefixMessage},
		{"Report", id.NewReport, id.PrefixReport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn()
			if !strings.HasPrefix(got, string(tt.prefix)+"_") {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
			if !id.HasPrefix(got, tt.prefix) {
				t.Errorf("HasPrefix(%q, %q) = false", got, tt.prefix)
			}
		})
	}
}

func TestParseWithPrefix(t *testing.T) {
	s := id.NewAnimal()
	parsed, err := id.ParseWithPrefix(s, id.PrefixAnimal)
	if err != nil {
		t.Fatalf("ParseWithPrefix failed: %v", err)
	}
	if parsed.String() != s {
		t.Errorf("mismatch: %q != %q", parsed.String(), s)
	}

	if _, err := id.ParseWithPrefix(s, id.PrefixShelter); err == nil {
		t.Error("expected error for wrong prefix")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var i id.ID
	if !i.IsNil() {
		t.Error("zero-value ID should be nil")
	}
	if i.String() != "" {
		t.Errorf("expected empty string, got %q", i.String())
	}
	if i.Prefix() != "" {
		t.Errorf("expected empty prefix, got %q", i.Prefix())
	}
}

func TestMarshalUnmarshalText(t *testing.T) {
	original := id.New(id.PrefixMessage)
	data, err := original.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}

	var restored id.ID
	if unmarshalErr := restored.UnmarshalText(data); unmarshalErr != nil {
		t.Fatalf("UnmarshalText failed: %v", unmarshalErr)
	}
	if restored.String() != original.String() {
		t.Errorf("mismatch: %q != %q", restored.String(), original.String())
	}

	var restored2 id.ID
	if err := restored2.UnmarshalText(nil); err != nil {
		t.Fatalf("UnmarshalText(nil) failed: %v", err)
	}
	if !restored2.IsNil() {
		t.Error("expected nil after empty unmarshal")
	}
}

func TestUniqueness(t *testing.T) {
	a := id.NewUser()
	b := id.NewUser()
	if a == b {
		t.Errorf("two consecutive NewUser() calls returned the same ID: %q", a)
	}
}
