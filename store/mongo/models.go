package mongo

import (
	"github.com/xraph/grove"

	"github.com/shelterhub/fieldauth/entity"
)

// Key-only models bind each kind to its collection for grove's typed
// finders. Full documents are decoded from raw BSON by the query layer.

type userModel struct {
	grove.BaseModel `grove:"table:users"`
	ID              string `grove:"id,pk" bson:"_id"`
}

type shelterModel struct {
	grove.BaseModel `grove:"table:shelters"`
	ID              string `grove:"id,pk" bson:"_id"`
}

type animalModel struct {
	grove.BaseModel `grove:"table:animals"`
	ID              string `grove:"id,pk" bson:"_id"`
}

type breedModel struct {
	grove.BaseModel `grove:"table:breeds"`
	ID              string `grove:"id,pk" bson:"_id"`
}

type animalTypeModel struct {
	grove.BaseModel `grove:"table:animal_types"`
	ID              string `grove:"id,pk" bson:"_id"`
}

type fileModel struct {
	grove.BaseModel `grove:"table:files"`
	ID              string `grove:"id,pk" bson:"_id"`
}

type adoptionApplicationModel struct {
	grove.BaseModel `grove:"table:adoption_applications"`
	ID              string `grove:"id,pk" bson:"_id"`
}

type conversationModel struct {
	grove.BaseModel `grove:"table:conversations"`
	ID              string `grove:"id,pk" bson:"_id"`
}

type messageModel struct {
	grove.BaseModel `grove:"table:messages"`
	ID              string `grove:"id,pk" bson:"_id"`
}

type reportModel struct {
	grove.BaseModel `grove:"table:reports"`
	ID              string `grove:"id,pk" bson:"_id"`
}

// modelFor returns a typed nil model pointer for kind.
func modelFor(k entity.Kind) (any, bool) {
	switch k {
	case entity.KindUser:
		return (*userModel)(nil), true
	case entity.KindShelter:
		return (*shelterModel)(nil), true
	case entity.KindAnimal:
		return (*animalModel)(nil), true
	case entity.KindBreed:
		return (*breedModel)(nil), true
	case entity.KindAnimalType:
		return (*animalTypeModel)(nil), true
	case entity.KindFile:
		return (*fileModel)(nil), true
	case entity.KindAdoptionApplication:
		return (*adoptionApplicationModel)(nil), true
	case entity.KindConversation:
		return (*conversationModel)(nil), true
	case entity.KindMessage:
		return (*messageModel)(nil), true
	case entity.KindReport:
		return (*reportModel)(nil), true
	default:
		return nil, false
	}
}
