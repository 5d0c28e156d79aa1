// Package dto defines the response shapes assembled by the builders. Every
// field is optional: only censored, requested fields are populated, and
// relations are nested rather than exposed as foreign keys.
package dto

import (
	"time"

	"github.com/shelterhub/fieldauth/entity"
)

// User is the response shape of entity.User.
type User struct {
	ID          string           `json:"id,omitempty"`
	FullName    string           `json:"fullName,omitempty"`
	Email       string           `json:"email,omitempty"`
	PhoneNumber string           `json:"phoneNumber,omitempty"`
	Location    *entity.Location `json:"location,omitempty"`
	Roles       []string         `json:"roles,omitempty"`
	CreatedAt   *time.Time       `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time       `json:"updatedAt,omitempty"`

	Shelter      *Shelter `json:"shelter,omitempty"`
	ProfilePhoto *File    `json:"profilePhoto,omitempty"`
}

// Shelter is the response shape of entity.Shelter.
type Shelter struct {
	ID             string                `json:"id,omitempty"`
	ShelterName    string                `json:"shelterName,omitempty"`
	Description    string                `json:"description,omitempty"`
	Website        string                `json:"website,omitempty"`
	SocialMedia    *entity.SocialMedia   `json:"socialMedia,omitempty"`
	OperatingHours entity.OperatingHours `json:"operatingHours,omitempty"`
	Location       *entity.Location      `json:"location,omitempty"`
	CreatedAt      *time.Time            `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time            `json:"updatedAt,omitempty"`

	User    *User     `json:"user,omitempty"`
	Animals []*Animal `json:"animals,omitempty"`
}

// Animal is the response shape of entity.Animal.
type Animal struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name,omitempty"`
	Gender         string     `json:"gender,omitempty"`
	Description    string     `json:"description,omitempty"`
	Weight         float64    `json:"weight,omitempty"`
	Age            float64    `json:"age,omitempty"`
	HealthStatus   string     `json:"healthStatus,omitempty"`
	AdoptionStatus string     `json:"adoptionStatus,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`

	Shelter        *Shelter    `json:"shelter,omitempty"`
	Breed          *Breed      `json:"breed,omitempty"`
	AnimalType     *AnimalType `json:"animalType,omitempty"`
	AttachedPhotos []*File     `json:"attachedPhotos,omitempty"`
}

// Breed is the response shape of entity.Breed.
type Breed struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`

	AnimalType *AnimalType `json:"animalType,omitempty"`
}

// AnimalType is the response shape of entity.AnimalType.
type AnimalType struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// File is the response shape of entity.File.
type File struct {
	ID        string     `json:"id,omitempty"`
	Filename  string     `json:"filename,omitempty"`
	FileType  string     `json:"fileType,omitempty"`
	MimeType  string     `json:"mimeType,omitempty"`
	Size      int64      `json:"size,omitempty"`
	SourceURL string     `json:"sourceUrl,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`

	Owner *User `json:"owner,omitempty"`
}

// AdoptionApplication is the response shape of entity.AdoptionApplication.
type AdoptionApplication struct {
	ID                 string     `json:"id,omitempty"`
	Status             string     `json:"status,omitempty"`
	ApplicationDetails string     `json:"applicationDetails,omitempty"`
	RejectReasoning    string     `json:"rejectReasoning,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`

	User          *User    `json:"user,omitempty"`
	Animal        *Animal  `json:"animal,omitempty"`
	Shelter       *Shelter `json:"shelter,omitempty"`
	AttachedFiles []*File  `json:"attachedFiles,omitempty"`
}

// Conversation is the response shape of entity.Conversation.
type Conversation struct {
	ID            string     `json:"id,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`

	Users []*User `json:"users,omitempty"`
}

// Message is the response shape of entity.Message.
type Message struct {
	ID        string     `json:"id,omitempty"`
	Content   string     `json:"content,omitempty"`
	IsRead    *bool      `json:"isRead,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`

	Conversation *Conversation `json:"conversation,omitempty"`
	Sender       *User         `json:"sender,omitempty"`
	Recipient    *User         `json:"recipient,omitempty"`
}

// Report is the response shape of entity.Report.
type Report struct {
	ID        string     `json:"id,omitempty"`
	Reason    string     `json:"reason,omitempty"`
	Details   string     `json:"details,omitempty"`
	Status    string     `json:"status,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`

	Reporter *User `json:"reporter,omitempty"`
	Reported *User `json:"reported,omitempty"`
}
