package entity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Shape describes where the key linking two records lives.
type Shape int

const (
	// ShapeOne is a scalar foreign key on the parent.
	ShapeOne Shape = iota
	// ShapeMany is a foreign key list on the parent.
	ShapeMany
	// ShapeInverse means the child carries the key back to the parent.
	ShapeInverse
)

// String implements fmt.Stringer.
func (s Shape) String() string {
	switch s {
	case ShapeOne:
		return "one"
	case ShapeMany:
		return "many"
	case ShapeInverse:
		return "inverse"
	default:
		return "unknown"
	}
}

// Relation declares a navigable related entity.
type Relation struct {
	// Name is the PascalCase field path root ("Shelter", "AttachedPhotos").
	Name  string
	Shape Shape
	// ForeignKey is the DTO-level key name. For ShapeOne and ShapeMany it is
	// a property of the parent; for ShapeInverse a property of the target.
	ForeignKey string
	Target     Kind
}

// KeyStorage returns the storage name of the relation's foreign key.
func (r Relation) KeyStorage() string { return StorageName(r.ForeignKey) }

// CarriesKey reports whether the parent record holds the foreign key.
func (r Relation) CarriesKey() bool { return r.Shape != ShapeInverse }

// Schema describes the field vocabulary of one kind.
type Schema struct {
	Kind       Kind
	Collection string
	// Natives are the scalar DTO fields in declaration order.
	Natives   []string
	Relations []Relation
	// Searchable are storage fields matched by a lookup's free-text query.
	Searchable []string

	natives   map[string]struct{}
	relations map[string]int
}

// IsNative reports whether name is a scalar field of the schema.
func (s *Schema) IsNative(name string) bool {
	_, ok := s.natives[name]
	return ok
}

// Relation returns the relation rooted at name.
func (s *Schema) Relation(name string) (Relation, bool) {
	i, ok := s.relations[name]
	if !ok {
		return Relation{}, false
	}
	return s.Relations[i], true
}

// HasProperty reports whether name is a declared property of the record,
// including foreign key properties such as "ShelterId".
func (s *Schema) HasProperty(name string) bool {
	if s.IsNative(name) {
		return true
	}
	for _, r := range s.Relations {
		if r.CarriesKey() && r.ForeignKey == name {
			return true
		}
	}
	return false
}

// ForeignRoots returns the names of relations whose key the parent carries.
func (s *Schema) ForeignRoots() []string {
	out := make([]string, 0, len(s.Relations))
	for _, r := range s.Relations {
		if r.CarriesKey() {
			out = append(out, r.Name)
		}
	}
	return out
}

// StorageName maps a DTO field name to its document field name.
func StorageName(field string) string {
	if field == "Id" {
		return "_id"
	}
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return field
	}
	return string(unicode.ToLower(r)) + field[size:]
}

// SchemaOf returns the schema for kind.
func SchemaOf(k Kind) (*Schema, bool) {
	s, ok := schemas[k]
	return s, ok
}

// MustSchema returns the schema for kind and panics if kind is unknown.
func MustSchema(k Kind) *Schema {
	s, ok := schemas[k]
	if !ok {
		panic("entity: unknown kind " + string(k))
	}
	return s
}

// KindByCollection resolves a storage collection name to its kind.
func KindByCollection(collection string) (Kind, bool) {
	for k, s := range schemas {
		if strings.EqualFold(s.Collection, collection) {
			return k, true
		}
	}
	return "", false
}

// ──────────────────────────────────────────────────
// Schema table
// ──────────────────────────────────────────────────

var schemas = map[Kind]*Schema{}

func register(s *Schema) {
	s.natives = make(map[string]struct{}, len(s.Natives))
	for _, n := range s.Natives {
		s.natives[n] = struct{}{}
	}
	s.relations = make(map[string]int, len(s.Relations))
	for i, r := range s.Relations {
		s.relations[r.Name] = i
	}
	schemas[s.Kind] = s
}

func init() {
	register(&Schema{
		Kind:       KindUser,
		Collection: "users",
		Natives:    []string{"Id", "FullName", "Email", "PhoneNumber", "Location", "Roles", "CreatedAt", "UpdatedAt"},
		Relations: []Relation{
			{Name: "Shelter", Shape: ShapeOne, ForeignKey: "ShelterId", Target: KindShelter},
			{Name: "ProfilePhoto", Shape: ShapeOne, ForeignKey: "ProfilePhotoId", Target: KindFile},
		},
		Searchable: []string{"fullName", "email"},
	})
	register(&Schema{
		Kind:       KindShelter,
		Collection: "shelters",
		Natives:    []string{"Id", "ShelterName", "Description", "Website", "SocialMedia", "OperatingHours", "Location", "CreatedAt", "UpdatedAt"},
		Relations: []Relation{
			{Name: "User", Shape: ShapeOne, ForeignKey: "UserId", Target: KindUser},
			{Name: "Animals", Shape: ShapeInverse, ForeignKey: "ShelterId", Target: KindAnimal},
		},
		Searchable: []string{"shelterName", "description"},
	})
	register(&Schema{
		Kind:       KindAnimal,
		Collection: "animals",
		Natives:    []string{"Id", "Name", "Gender", "Description", "Weight", "Age", "HealthStatus", "AdoptionStatus", "CreatedAt", "UpdatedAt"},
		Relations: []Relation{
			{Name: "Shelter", Shape: ShapeOne, ForeignKey: "ShelterId", Target: KindShelter},
			{Name: "Breed", Shape: ShapeOne, ForeignKey: "BreedId", Target: KindBreed},
			{Name: "AnimalType", Shape: ShapeOne, ForeignKey: "AnimalTypeId", Target: KindAnimalType},
			{Name: "AttachedPhotos", Shape: ShapeMany, ForeignKey: "AttachedPhotosIds", Target: KindFile},
		},
		Searchable: []string{"name", "description"},
	})
	register(&Schema{
		Kind:       KindBreed,
		Collection: "breeds",
		Natives:    []string{"Id", "Name", "Description"},
		Relations: []Relation{
			{Name: "AnimalType", Shape: ShapeOne, ForeignKey: "AnimalTypeId", Target: KindAnimalType},
		},
		Searchable: []string{"name"},
	})
	register(&Schema{
		Kind:       KindAnimalType,
		Collection: "animal_types",
		Natives:    []string{"Id", "Name"},
		Searchable: []string{"name"},
	})
	register(&Schema{
		Kind:       KindFile,
		Collection: "files",
		Natives:    []string{"Id", "Filename", "FileType", "MimeType", "Size", "SourceUrl", "CreatedAt"},
		Relations: []Relation{
			{Name: "Owner", Shape: ShapeOne, ForeignKey: "OwnerId", Target: KindUser},
		},
		Searchable: []string{"filename"},
	})
	register(&Schema{
		Kind:       KindAdoptionApplication,
		Collection: "adoption_applications",
		Natives:    []string{"Id", "Status", "ApplicationDetails", "RejectReasoning", "CreatedAt", "UpdatedAt"},
		Relations: []Relation{
			{Name: "User", Shape: ShapeOne, ForeignKey: "UserId", Target: KindUser},
			{Name: "Animal", Shape: ShapeOne, ForeignKey: "AnimalId", Target: KindAnimal},
			{Name: "Shelter", Shape: ShapeOne, ForeignKey: "ShelterId", Target: KindShelter},
			{Name: "AttachedFiles", Shape: ShapeMany, ForeignKey: "AttachedFilesIds", Target: KindFile},
		},
		Searchable: []string{"applicationDetails"},
	})
	register(&Schema{
		Kind:       KindConversation,
		Collection: "conversations",
		Natives:    []string{"Id", "LastMessageAt", "CreatedAt"},
		Relations: []Relation{
			{Name: "Users", Shape: ShapeMany, ForeignKey: "UserIds", Target: KindUser},
		},
	})
	register(&Schema{
		Kind:       KindMessage,
		Collection: "messages",
		Natives:    []string{"Id", "Content", "IsRead", "CreatedAt"},
		Relations: []Relation{
			{Name: "Conversation", Shape: ShapeOne, ForeignKey: "ConversationId", Target: KindConversation},
			{Name: "Sender", Shape: ShapeOne, ForeignKey: "SenderId", Target: KindUser},
			{Name: "Recipient", Shape: ShapeOne, ForeignKey: "RecipientId", Target: KindUser},
		},
		Searchable: []string{"content"},
	})
	register(&Schema{
		Kind:       KindReport,
		Collection: "reports",
		Natives:    []string{"Id", "Reason", "Details", "Status", "CreatedAt"},
		Relations: []Relation{
			{Name: "Reporter", Shape: ShapeOne, ForeignKey: "ReporterId", Target: KindUser},
			{Name: "Reported", Shape: ShapeOne, ForeignKey: "ReportedId", Target: KindUser},
		},
		Searchable: []string{"reason", "details"},
	})
}
