package lookup

import (
	"time"

	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/fields"
	"github.com/shelterhub/fieldauth/query"
)

// Compile-time interface checks.
var (
	_ Lookup = (*UserLookup)(nil)
	_ Lookup = (*ShelterLookup)(nil)
	_ Lookup = (*AnimalLookup)(nil)
	_ Lookup = (*BreedLookup)(nil)
	_ Lookup = (*AnimalTypeLookup)(nil)
	_ Lookup = (*FileLookup)(nil)
	_ Lookup = (*AdoptionApplicationLookup)(nil)
	_ Lookup = (*ConversationLookup)(nil)
	_ Lookup = (*MessageLookup)(nil)
	_ Lookup = (*ReportLookup)(nil)

	_ Owned = (*UserLookup)(nil)
	_ Owned = (*ShelterLookup)(nil)
	_ Owned = (*FileLookup)(nil)
	_ Owned = (*AdoptionApplicationLookup)(nil)
	_ Owned = (*ConversationLookup)(nil)
	_ Owned = (*MessageLookup)(nil)
	_ Owned = (*ReportLookup)(nil)
)

// ──────────────────────────────────────────────────
// Users and shelters
// ──────────────────────────────────────────────────

// UserLookup filters users.
type UserLookup struct {
	Base
	IDs         []string   `json:"ids,omitempty"`
	ShelterIDs  []string   `json:"shelterIds,omitempty"`
	Emails      []string   `json:"emails,omitempty"`
	Roles       []string   `json:"roles,omitempty"`
	CreatedFrom *time.Time `json:"createdFrom,omitempty"`
	CreatedTo   *time.Time `json:"createdTo,omitempty"`
}

func (l *UserLookup) Kind() entity.Kind  { return entity.KindUser }
func (l *UserLookup) CacheKey() string   { return cacheKey(l) }
func (l *UserLookup) OwnerIDs() []string { return ids(l.IDs) }

// Enrich implements Lookup.
func (l *UserLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.UserCriteria{
		IDs:         ids(l.IDs),
		ShelterIDs:  ids(l.ShelterIDs),
		Emails:      ids(l.Emails),
		Roles:       ids(l.Roles),
		CreatedFrom: l.CreatedFrom,
		CreatedTo:   l.CreatedTo,
	})
}

// ShelterLookup filters shelters.
type ShelterLookup struct {
	Base
	IDs     []string `json:"ids,omitempty"`
	UserIDs []string `json:"userIds,omitempty"`
}

func (l *ShelterLookup) Kind() entity.Kind  { return entity.KindShelter }
func (l *ShelterLookup) CacheKey() string   { return cacheKey(l) }
func (l *ShelterLookup) OwnerIDs() []string { return ids(l.UserIDs) }

// Enrich implements Lookup.
func (l *ShelterLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.ShelterCriteria{
		IDs:     ids(l.IDs),
		UserIDs: ids(l.UserIDs),
	})
}

// ──────────────────────────────────────────────────
// Animals and catalog
// ──────────────────────────────────────────────────

// AnimalLookup filters animals.
type AnimalLookup struct {
	Base
	IDs              []string   `json:"ids,omitempty"`
	ShelterIDs       []string   `json:"shelterIds,omitempty"`
	BreedIDs         []string   `json:"breedIds,omitempty"`
	AnimalTypeIDs    []string   `json:"animalTypeIds,omitempty"`
	Genders          []string   `json:"genders,omitempty"`
	HealthStatuses   []string   `json:"healthStatuses,omitempty"`
	AdoptionStatuses []string   `json:"adoptionStatuses,omitempty"`
	AgeFrom          *float64   `json:"ageFrom,omitempty"`
	AgeTo            *float64   `json:"ageTo,omitempty"`
	CreatedFrom      *time.Time `json:"createdFrom,omitempty"`
	CreatedTo        *time.Time `json:"createdTo,omitempty"`
}

func (l *AnimalLookup) Kind() entity.Kind { return entity.KindAnimal }
func (l *AnimalLookup) CacheKey() string  { return cacheKey(l) }

// Enrich implements Lookup.
func (l *AnimalLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.AnimalCriteria{
		IDs:              ids(l.IDs),
		ShelterIDs:       ids(l.ShelterIDs),
		BreedIDs:         ids(l.BreedIDs),
		AnimalTypeIDs:    ids(l.AnimalTypeIDs),
		Genders:          ids(l.Genders),
		HealthStatuses:   ids(l.HealthStatuses),
		AdoptionStatuses: ids(l.AdoptionStatuses),
		AgeFrom:          l.AgeFrom,
		AgeTo:            l.AgeTo,
		CreatedFrom:      l.CreatedFrom,
		CreatedTo:        l.CreatedTo,
	})
}

// BreedLookup filters breeds.
type BreedLookup struct {
	Base
	IDs           []string `json:"ids,omitempty"`
	AnimalTypeIDs []string `json:"animalTypeIds,omitempty"`
}

func (l *BreedLookup) Kind() entity.Kind { return entity.KindBreed }
func (l *BreedLookup) CacheKey() string  { return cacheKey(l) }

// Enrich implements Lookup.
func (l *BreedLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.BreedCriteria{
		IDs:           ids(l.IDs),
		AnimalTypeIDs: ids(l.AnimalTypeIDs),
	})
}

// AnimalTypeLookup filters animal types.
type AnimalTypeLookup struct {
	Base
	IDs   []string `json:"ids,omitempty"`
	Names []string `json:"names,omitempty"`
}

func (l *AnimalTypeLookup) Kind() entity.Kind { return entity.KindAnimalType }
func (l *AnimalTypeLookup) CacheKey() string  { return cacheKey(l) }

// Enrich implements Lookup.
func (l *AnimalTypeLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.AnimalTypeCriteria{
		IDs:   ids(l.IDs),
		Names: ids(l.Names),
	})
}

// ──────────────────────────────────────────────────
// Files and applications
// ──────────────────────────────────────────────────

// FileLookup filters files.
type FileLookup struct {
	Base
	IDs       []string `json:"ids,omitempty"`
	Owners    []string `json:"ownerIds,omitempty"`
	FileTypes []string `json:"fileTypes,omitempty"`
}

func (l *FileLookup) Kind() entity.Kind  { return entity.KindFile }
func (l *FileLookup) CacheKey() string   { return cacheKey(l) }
func (l *FileLookup) OwnerIDs() []string { return ids(l.Owners) }

// Enrich implements Lookup.
func (l *FileLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.FileCriteria{
		IDs:       ids(l.IDs),
		OwnerIDs:  ids(l.Owners),
		FileTypes: ids(l.FileTypes),
	})
}

// AdoptionApplicationLookup filters adoption applications.
type AdoptionApplicationLookup struct {
	Base
	IDs         []string   `json:"ids,omitempty"`
	UserIDs     []string   `json:"userIds,omitempty"`
	AnimalIDs   []string   `json:"animalIds,omitempty"`
	ShelterIDs  []string   `json:"shelterIds,omitempty"`
	Statuses    []string   `json:"statuses,omitempty"`
	CreatedFrom *time.Time `json:"createdFrom,omitempty"`
	CreatedTo   *time.Time `json:"createdTo,omitempty"`
}

func (l *AdoptionApplicationLookup) Kind() entity.Kind  { return entity.KindAdoptionApplication }
func (l *AdoptionApplicationLookup) CacheKey() string   { return cacheKey(l) }
func (l *AdoptionApplicationLookup) OwnerIDs() []string { return ids(l.UserIDs) }

// Enrich implements Lookup.
func (l *AdoptionApplicationLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.AdoptionApplicationCriteria{
		IDs:         ids(l.IDs),
		UserIDs:     ids(l.UserIDs),
		AnimalIDs:   ids(l.AnimalIDs),
		ShelterIDs:  ids(l.ShelterIDs),
		Statuses:    ids(l.Statuses),
		CreatedFrom: l.CreatedFrom,
		CreatedTo:   l.CreatedTo,
	})
}

// ──────────────────────────────────────────────────
// Messaging and moderation
// ──────────────────────────────────────────────────

// ConversationLookup filters conversations.
type ConversationLookup struct {
	Base
	IDs     []string `json:"ids,omitempty"`
	UserIDs []string `json:"userIds,omitempty"`
}

func (l *ConversationLookup) Kind() entity.Kind  { return entity.KindConversation }
func (l *ConversationLookup) CacheKey() string   { return cacheKey(l) }
func (l *ConversationLookup) OwnerIDs() []string { return ids(l.UserIDs) }

// Enrich implements Lookup.
func (l *ConversationLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.ConversationCriteria{
		IDs:     ids(l.IDs),
		UserIDs: ids(l.UserIDs),
	})
}

// MessageLookup filters messages.
type MessageLookup struct {
	Base
	IDs             []string   `json:"ids,omitempty"`
	ConversationIDs []string   `json:"conversationIds,omitempty"`
	SenderIDs       []string   `json:"senderIds,omitempty"`
	RecipientIDs    []string   `json:"recipientIds,omitempty"`
	IsRead          *bool      `json:"isRead,omitempty"`
	CreatedFrom     *time.Time `json:"createdFrom,omitempty"`
	CreatedTo       *time.Time `json:"createdTo,omitempty"`
}

func (l *MessageLookup) Kind() entity.Kind  { return entity.KindMessage }
func (l *MessageLookup) CacheKey() string   { return cacheKey(l) }
func (l *MessageLookup) OwnerIDs() []string { return ids(l.SenderIDs) }

// Enrich implements Lookup.
func (l *MessageLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.MessageCriteria{
		IDs:             ids(l.IDs),
		ConversationIDs: ids(l.ConversationIDs),
		SenderIDs:       ids(l.SenderIDs),
		RecipientIDs:    ids(l.RecipientIDs),
		IsRead:          l.IsRead,
		CreatedFrom:     l.CreatedFrom,
		CreatedTo:       l.CreatedTo,
	})
}

// ReportLookup filters reports.
type ReportLookup struct {
	Base
	IDs         []string `json:"ids,omitempty"`
	ReporterIDs []string `json:"reporterIds,omitempty"`
	ReportedIDs []string `json:"reportedIds,omitempty"`
	Statuses    []string `json:"statuses,omitempty"`
}

func (l *ReportLookup) Kind() entity.Kind  { return entity.KindReport }
func (l *ReportLookup) CacheKey() string   { return cacheKey(l) }
func (l *ReportLookup) OwnerIDs() []string { return ids(l.ReporterIDs) }

// Enrich implements Lookup.
func (l *ReportLookup) Enrich(f *query.Factory) *query.Query {
	return l.enrich(f, l.Kind(), &query.ReportCriteria{
		IDs:         ids(l.IDs),
		ReporterIDs: ids(l.ReporterIDs),
		ReportedIDs: ids(l.ReportedIDs),
		Statuses:    ids(l.Statuses),
	})
}

// Union merges string lists, dropping empties and duplicates. It returns
// nil when nothing remains.
func Union(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		for _, v := range l {
			if v != "" {
				out = append(out, v)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return fields.Dedupe(out)
}
