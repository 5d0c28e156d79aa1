package query

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Criteria is the typed, kind-specific part of a query's filter. Zero
// values contribute nothing.
type Criteria interface {
	Criteria() bson.M
}

// UserCriteria filters users.
type UserCriteria struct {
	IDs         []string
	ShelterIDs  []string
	Emails      []string
	Roles       []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Criteria implements Criteria.
func (c *UserCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "shelterId", c.ShelterIDs)
	in(m, "email", c.Emails)
	in(m, "roles", c.Roles)
	between(m, "createdAt", c.CreatedFrom, c.CreatedTo)
	return m
}

// ShelterCriteria filters shelters.
type ShelterCriteria struct {
	IDs     []string
	UserIDs []string
}

// Criteria implements Criteria.
func (c *ShelterCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "userId", c.UserIDs)
	return m
}

// AnimalCriteria filters animals.
type AnimalCriteria struct {
	IDs              []string
	ShelterIDs       []string
	BreedIDs         []string
	AnimalTypeIDs    []string
	Genders          []string
	HealthStatuses   []string
	AdoptionStatuses []string
	AgeFrom          *float64
	AgeTo            *float64
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
}

// Criteria implements Criteria.
func (c *AnimalCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "shelterId", c.ShelterIDs)
	in(m, "breedId", c.BreedIDs)
	in(m, "animalTypeId", c.AnimalTypeIDs)
	in(m, "gender", c.Genders)
	in(m, "healthStatus", c.HealthStatuses)
	in(m, "adoptionStatus", c.AdoptionStatuses)
	if c.AgeFrom != nil || c.AgeTo != nil {
		r := bson.M{}
		if c.AgeFrom != nil {
			r["$gte"] = *c.AgeFrom
		}
		if c.AgeTo != nil {
			r["$lte"] = *c.AgeTo
		}
		m["age"] = r
	}
	between(m, "createdAt", c.CreatedFrom, c.CreatedTo)
	return m
}

// BreedCriteria filters breeds.
type BreedCriteria struct {
	IDs           []string
	AnimalTypeIDs []string
}

// Criteria implements Criteria.
func (c *BreedCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "animalTypeId", c.AnimalTypeIDs)
	return m
}

// AnimalTypeCriteria filters animal types.
type AnimalTypeCriteria struct {
	IDs   []string
	Names []string
}

// Criteria implements Criteria.
func (c *AnimalTypeCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "name", c.Names)
	return m
}

// FileCriteria filters files.
type FileCriteria struct {
	IDs       []string
	OwnerIDs  []string
	FileTypes []string
}

// Criteria implements Criteria.
func (c *FileCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "ownerId", c.OwnerIDs)
	in(m, "fileType", c.FileTypes)
	return m
}

// AdoptionApplicationCriteria filters adoption applications.
type AdoptionApplicationCriteria struct {
	IDs         []string
	UserIDs     []string
	AnimalIDs   []string
	ShelterIDs  []string
	Statuses    []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Criteria implements Criteria.
func (c *AdoptionApplicationCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "userId", c.UserIDs)
	in(m, "animalId", c.AnimalIDs)
	in(m, "shelterId", c.ShelterIDs)
	in(m, "status", c.Statuses)
	between(m, "createdAt", c.CreatedFrom, c.CreatedTo)
	return m
}

// ConversationCriteria filters conversations. UserIDs matches
// conversations including any of the users.
type ConversationCriteria struct {
	IDs     []string
	UserIDs []string
}

// Criteria implements Criteria.
func (c *ConversationCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "userIds", c.UserIDs)
	return m
}

// MessageCriteria filters messages.
type MessageCriteria struct {
	IDs             []string
	ConversationIDs []string
	SenderIDs       []string
	RecipientIDs    []string
	IsRead          *bool
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// Criteria implements Criteria.
func (c *MessageCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "conversationId", c.ConversationIDs)
	in(m, "senderId", c.SenderIDs)
	in(m, "recipientId", c.RecipientIDs)
	if c.IsRead != nil {
		m["isRead"] = *c.IsRead
	}
	between(m, "createdAt", c.CreatedFrom, c.CreatedTo)
	return m
}

// ReportCriteria filters reports.
type ReportCriteria struct {
	IDs         []string
	ReporterIDs []string
	ReportedIDs []string
	Statuses    []string
}

// Criteria implements Criteria.
func (c *ReportCriteria) Criteria() bson.M {
	m := bson.M{}
	in(m, "_id", c.IDs)
	in(m, "reporterId", c.ReporterIDs)
	in(m, "reportedId", c.ReportedIDs)
	in(m, "status", c.Statuses)
	return m
}

func in(m bson.M, field string, values []string) {
	if len(values) > 0 {
		m[field] = bson.M{"$in": values}
	}
}

func between(m bson.M, field string, from, to *time.Time) {
	if from == nil && to == nil {
		return
	}
	r := bson.M{}
	if from != nil {
		r["$gte"] = *from
	}
	if to != nil {
		r["$lte"] = *to
	}
	m[field] = r
}

// And conjoins two filter documents, skipping empty ones.
func And(a, b bson.M) bson.M {
	switch {
	case len(a) == 0 && len(b) == 0:
		return bson.M{}
	case len(a) == 0:
		return b
	case len(b) == 0:
		return a
	}
	return bson.M{"$and": bson.A{a, b}}
}
