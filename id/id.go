// Package id defines TypeID-based identifiers for shelter domain records.
//
// Records are persisted with string primary keys. The helpers here mint
// K-sortable (UUIDv7-based), URL-safe identifiers in the format
// "prefix_suffix" so that a bare id already tells which collection it
// belongs to.
package id

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix identifies the record kind encoded in a TypeID.
type Prefix string

// Prefix constants for every persisted record kind.
const (
	PrefixUser                Prefix = "user"
	PrefixShelter             Prefix = "shelter"
	PrefixAnimal              Prefix = "animal"
	PrefixBreed               Prefix = "breed"
	PrefixAnimalType          Prefix = "atype"
	PrefixFile                Prefix = "file"
	PrefixAdoptionApplication Prefix = "adopt"
	PrefixConversation        Prefix = "conv"
	PrefixMessage             Prefix = "msg"
	PrefixReport              Prefix = "report"
)

// ID wraps a TypeID providing a prefix-qualified, globally unique,
// sortable identifier.
//
//nolint:recvcheck // Value receivers for read-only methods, pointer receiver for UnmarshalText.
type ID struct {
	inner typeid.TypeID
	valid bool
}

// Nil is the zero-value ID.
var Nil ID

// New generates a new globally unique ID with the given prefix.
// It panics if prefix is not a valid TypeID prefix (programming error).
func New(prefix Prefix) ID {
	tid, err := typeid.Generate(string(prefix))
	if err != nil {
		panic(fmt.Sprintf("id: invalid prefix %q: %v", prefix, err))
	}

	return ID{inner: tid, valid: true}
}

// Parse parses a TypeID string (e.g., "animal_01h2xcejqtf2nbrexx3vqjhp41").
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse %q: empty string", s)
	}

	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}

	return ID{inner: tid, valid: true}, nil
}

// ParseWithPrefix parses a TypeID string and validates that its prefix
// matches the expected value.
func ParseWithPrefix(s string, expected Prefix) (ID, error) {
	parsed, err := Parse(s)
	if err != nil {
		return Nil, err
	}

	if parsed.Prefix() != expected {
		return Nil, fmt.Errorf("id: expected prefix %q, got %q", expected, parsed.Prefix())
	}

	return parsed, nil
}

// MustParse is like Parse but panics on error. Use for hardcoded ID values.
func MustParse(s string) ID {
	parsed, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("id: must parse %q: %v", s, err))
	}

	return parsed
}

// ──────────────────────────────────────────────────
// Convenience constructors
// ──────────────────────────────────────────────────

// NewUser returns a fresh user id string.
func NewUser() string { return New(PrefixUser).String() }

// NewShelter returns a fresh shelter id string.
func NewShelter() string { return New(PrefixShelter).String() }

// NewAnimal returns a fresh animal id string.
func NewAnimal() string { return New(PrefixAnimal).String() }

// NewBreed returns a fresh breed id string.
func NewBreed() string { return New(PrefixBreed).String() }

// NewAnimalType returns a fresh animal type id string.
func NewAnimalType() string { return New(PrefixAnimalType).String() }

// NewFile returns a fresh file id string.
func NewFile() string { return New(PrefixFile).String() }

// NewAdoptionApplication returns a fresh adoption application id string.
func NewAdoptionApplication() string { return New(PrefixAdoptionApplication).String() }

// NewConversation returns a fresh conversation id string.
func NewConversation() string { return New(PrefixConversation).String() }

// NewMessage returns a fresh message id string.
func NewMessage() string { return New(PrefixMessage).String() }

// NewReport returns a fresh report id string.
func NewReport() string { return New(PrefixReport).String() }

// ──────────────────────────────────────────────────
// ID methods
// ──────────────────────────────────────────────────

// String returns the full TypeID string representation (prefix_suffix).
// Returns an empty string for the Nil ID.
func (i ID) String() string {
	if !i.valid {
		return ""
	}

	return i.inner.String()
}

// Prefix returns the prefix component of this ID.
func (i ID) Prefix() Prefix {
	if !i.valid {
		return ""
	}

	return Prefix(i.inner.Prefix())
}

// IsNil reports whether this ID is the zero value.
func (i ID) IsNil() bool {
	return !i.valid
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	if !i.valid {
		return []byte{}, nil
	}

	return []byte(i.inner.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil

		return nil
	}

	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}

	*i = parsed

	return nil
}

// HasPrefix reports whether s parses as an ID carrying prefix p.
func HasPrefix(s string, p Prefix) bool {
	_, err := ParseWithPrefix(s, p)
	return err == nil
}
