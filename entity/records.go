package entity

import "time"

// Location is an embedded postal address with optional coordinates.
type Location struct {
	City      string  `json:"city,omitempty" bson:"city,omitempty"`
	ZipCode   string  `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
	Address   string  `json:"address,omitempty" bson:"address,omitempty"`
	Number    string  `json:"number,omitempty" bson:"number,omitempty"`
	Latitude  float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
}

// SocialMedia holds a shelter's public profile links.
type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

// OperatingHours maps lowercase weekday names to opening hour ranges.
type OperatingHours map[string]string

// User is a registered account.
type User struct {
	ID             string    `json:"id" bson:"_id"`
	FullName       string    `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Email          string    `json:"email,omitempty" bson:"email,omitempty"`
	PhoneNumber    string    `json:"phoneNumber,omitempty" bson:"phoneNumber,omitempty"`
	Location       *Location `json:"location,omitempty" bson:"location,omitempty"`
	Roles          []string  `json:"roles,omitempty" bson:"roles,omitempty"`
	ShelterID      string    `json:"shelterId,omitempty" bson:"shelterId,omitempty"`
	ProfilePhotoID string    `json:"profilePhotoId,omitempty" bson:"profilePhotoId,omitempty"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt      time.Time `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// Shelter is an organization account operated by exactly one user.
type Shelter struct {
	ID             string         `json:"id" bson:"_id"`
	UserID         string         `json:"userId,omitempty" bson:"userId,omitempty"`
	ShelterName    string         `json:"shelterName,omitempty" bson:"shelterName,omitempty"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	Website        string         `json:"website,omitempty" bson:"website,omitempty"`
	SocialMedia    *SocialMedia   `json:"socialMedia,omitempty" bson:"socialMedia,omitempty"`
	OperatingHours OperatingHours `json:"operatingHours,omitempty" bson:"operatingHours,omitempty"`
	Location       *Location      `json:"location,omitempty" bson:"location,omitempty"`
	CreatedAt      time.Time      `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt      time.Time      `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// Animal is an animal listed by a shelter.
type Animal struct {
	ID               string    `json:"id" bson:"_id"`
	Name             string    `json:"name,omitempty" bson:"name,omitempty"`
	Gender           string    `json:"gender,omitempty" bson:"gender,omitempty"`
	Description      string    `json:"description,omitempty" bson:"description,omitempty"`
	Weight           float64   `json:"weight,omitempty" bson:"weight,omitempty"`
	Age              float64   `json:"age,omitempty" bson:"age,omitempty"`
	HealthStatus     string    `json:"healthStatus,omitempty" bson:"healthStatus,omitempty"`
	AdoptionStatus   string    `json:"adoptionStatus,omitempty" bson:"adoptionStatus,omitempty"`
	ShelterID        string    `json:"shelterId,omitempty" bson:"shelterId,omitempty"`
	BreedID          string    `json:"breedId,omitempty" bson:"breedId,omitempty"`
	AnimalTypeID     string    `json:"animalTypeId,omitempty" bson:"animalTypeId,omitempty"`
	AttachedPhotoIDs []string  `json:"attachedPhotosIds,omitempty" bson:"attachedPhotosIds,omitempty"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// Breed is a breed within an animal type.
type Breed struct {
	ID           string `json:"id" bson:"_id"`
	Name         string `json:"name,omitempty" bson:"name,omitempty"`
	Description  string `json:"description,omitempty" bson:"description,omitempty"`
	AnimalTypeID string `json:"animalTypeId,omitempty" bson:"animalTypeId,omitempty"`
}

// AnimalType is a species category such as dog or cat.
type AnimalType struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name,omitempty" bson:"name,omitempty"`
}

// File is an uploaded asset.
type File struct {
	ID        string    `json:"id" bson:"_id"`
	Filename  string    `json:"filename,omitempty" bson:"filename,omitempty"`
	FileType  string    `json:"fileType,omitempty" bson:"fileType,omitempty"`
	MimeType  string    `json:"mimeType,omitempty" bson:"mimeType,omitempty"`
	Size      int64     `json:"size,omitempty" bson:"size,omitempty"`
	SourceURL string    `json:"sourceUrl,omitempty" bson:"sourceUrl,omitempty"`
	OwnerID   string    `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt,omitempty"`
}

// AdoptionApplication is a user's request to adopt an animal.
type AdoptionApplication struct {
	ID                 string    `json:"id" bson:"_id"`
	Status             string    `json:"status,omitempty" bson:"status,omitempty"`
	ApplicationDetails string    `json:"applicationDetails,omitempty" bson:"applicationDetails,omitempty"`
	RejectReasoning    string    `json:"rejectReasoning,omitempty" bson:"rejectReasoning,omitempty"`
	UserID             string    `json:"userId,omitempty" bson:"userId,omitempty"`
	AnimalID           string    `json:"animalId,omitempty" bson:"animalId,omitempty"`
	ShelterID          string    `json:"shelterId,omitempty" bson:"shelterId,omitempty"`
	AttachedFileIDs    []string  `json:"attachedFilesIds,omitempty" bson:"attachedFilesIds,omitempty"`
	CreatedAt          time.Time `json:"createdAt" bson:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt" bson:"updatedAt,omitempty"`
}

// Conversation is a message thread between users.
type Conversation struct {
	ID            string    `json:"id" bson:"_id"`
	UserIDs       []string  `json:"userIds,omitempty" bson:"userIds,omitempty"`
	LastMessageAt time.Time `json:"lastMessageAt" bson:"lastMessageAt,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt,omitempty"`
}

// Message is a single message within a conversation.
type Message struct {
	ID             string    `json:"id" bson:"_id"`
	ConversationID string    `json:"conversationId,omitempty" bson:"conversationId,omitempty"`
	SenderID       string    `json:"senderId,omitempty" bson:"senderId,omitempty"`
	RecipientID    string    `json:"recipientId,omitempty" bson:"recipientId,omitempty"`
	Content        string    `json:"content,omitempty" bson:"content,omitempty"`
	IsRead         bool      `json:"isRead" bson:"isRead"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt,omitempty"`
}

// Report is a moderation report filed by one user against another.
type Report struct {
	ID         string    `json:"id" bson:"_id"`
	ReporterID string    `json:"reporterId,omitempty" bson:"reporterId,omitempty"`
	ReportedID string    `json:"reportedId,omitempty" bson:"reportedId,omitempty"`
	Reason     string    `json:"reason,omitempty" bson:"reason,omitempty"`
	Details    string    `json:"details,omitempty" bson:"details,omitempty"`
	Status     string    `json:"status,omitempty" bson:"status,omitempty"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt,omitempty"`
}
