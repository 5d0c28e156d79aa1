// Package entity defines the persisted shelter domain records and the
// field schema that the censoring, query and builder layers share.
package entity

// Kind names a record type. Values double as the PascalCase entity names
// used in field paths and lookups.
type Kind string

// Record kinds.
const (
	KindUser                Kind = "User"
	KindShelter             Kind = "Shelter"
	KindAnimal              Kind = "Animal"
	KindBreed               Kind = "Breed"
	KindAnimalType          Kind = "AnimalType"
	KindFile                Kind = "File"
	KindAdoptionApplication Kind = "AdoptionApplication"
	KindConversation        Kind = "Conversation"
	KindMessage             Kind = "Message"
	KindReport              Kind = "Report"
)

// Kinds returns every record kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindUser,
		KindShelter,
		KindAnimal,
		KindBreed,
		KindAnimalType,
		KindFile,
		KindAdoptionApplication,
		KindConversation,
		KindMessage,
		KindReport,
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := schemas[k]
	return ok
}
