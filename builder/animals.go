package builder

import (
	"context"

	"github.com/shelterhub/fieldauth/dto"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/lookup"
)

func animalID(a entity.Animal) string         { return a.ID }
func breedID(b entity.Breed) string           { return b.ID }
func animalTypeID(t entity.AnimalType) string { return t.ID }

// Animals builds animal DTOs.
func (r *Registry) Animals(ctx context.Context, rows []entity.Animal, paths []string) ([]*dto.Animal, error) {
	p := planFor(entity.KindAnimal, paths)
	out := make([]*dto.Animal, len(rows))
	for i, a := range rows {
		d := &dto.Animal{}
		set(p, "Id", &d.ID, a.ID)
		set(p, "Name", &d.Name, a.Name)
		set(p, "Gender", &d.Gender, a.Gender)
		set(p, "Description", &d.Description, a.Description)
		set(p, "Weight", &d.Weight, a.Weight)
		set(p, "Age", &d.Age, a.Age)
		set(p, "HealthStatus", &d.HealthStatus, a.HealthStatus)
		set(p, "AdoptionStatus", &d.AdoptionStatus, a.AdoptionStatus)
		set(p, "CreatedAt", &d.CreatedAt, timeOf(a.CreatedAt))
		set(p, "UpdatedAt", &d.UpdatedAt, timeOf(a.UpdatedAt))
		out[i] = d
	}

	if sub := p.nested["Shelter"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(a entity.Animal) []string { return one(a.ShelterID) })
		index, err := related(ctx, r, &lookup.ShelterLookup{IDs: ids}, ids, sub, shelterID, r.Shelters)
		if err != nil {
			return nil, err
		}
		for i, a := range rows {
			out[i].Shelter = index[a.ShelterID]
		}
	}
	if sub := p.nested["Breed"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(a entity.Animal) []string { return one(a.BreedID) })
		index, err := related(ctx, r, &lookup.BreedLookup{IDs: ids}, ids, sub, breedID, r.Breeds)
		if err != nil {
			return nil, err
		}
		for i, a := range rows {
			out[i].Breed = index[a.BreedID]
		}
	}
	if sub := p.nested["AnimalType"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(a entity.Animal) []string { return one(a.AnimalTypeID) })
		index, err := related(ctx, r, &lookup.AnimalTypeLookup{IDs: ids}, ids, sub, animalTypeID, r.AnimalTypes)
		if err != nil {
			return nil, err
		}
		for i, a := range rows {
			out[i].AnimalType = index[a.AnimalTypeID]
		}
	}
	if sub := p.nested["AttachedPhotos"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(a entity.Animal) []string { return a.AttachedPhotoIDs })
		index, err := related(ctx, r, &lookup.FileLookup{IDs: ids}, ids, sub, fileID, r.Files)
		if err != nil {
			return nil, err
		}
		for i, a := range rows {
			out[i].AttachedPhotos = pickAll(index, a.AttachedPhotoIDs)
		}
	}
	return out, nil
}

// Breeds builds breed DTOs.
func (r *Registry) Breeds(ctx context.Context, rows []entity.Breed, paths []string) ([]*dto.Breed, error) {
	p := planFor(entity.KindBreed, paths)
	out := make([]*dto.Breed, len(rows))
	for i, b := range rows {
		d := &dto.Breed{}
		set(p, "Id", &d.ID, b.ID)
		set(p, "Name", &d.Name, b.Name)
		set(p, "Description", &d.Description, b.Description)
		out[i] = d
	}

	if sub := p.nested["AnimalType"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(b entity.Breed) []string { return one(b.AnimalTypeID) })
		index, err := related(ctx, r, &lookup.AnimalTypeLookup{IDs: ids}, ids, sub, animalTypeID, r.AnimalTypes)
		if err != nil {
			return nil, err
		}
		for i, b := range rows {
			out[i].AnimalType = index[b.AnimalTypeID]
		}
	}
	return out, nil
}

// AnimalTypes builds animal type DTOs.
func (r *Registry) AnimalTypes(_ context.Context, rows []entity.AnimalType, paths []string) ([]*dto.AnimalType, error) {
	p := planFor(entity.KindAnimalType, paths)
	out := make([]*dto.AnimalType, len(rows))
	for i, t := range rows {
		d := &dto.AnimalType{}
		set(p, "Id", &d.ID, t.ID)
		set(p, "Name", &d.Name, t.Name)
		out[i] = d
	}
	return out, nil
}
