package builder

import (
	"context"
	"fmt"

	"github.com/shelterhub/fieldauth/dto"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/lookup"
	"github.com/shelterhub/fieldauth/query"
)

func userID(u entity.User) string       { return u.ID }
func shelterID(s entity.Shelter) string { return s.ID }

// Users builds user DTOs.
func (r *Registry) Users(ctx context.Context, rows []entity.User, paths []string) ([]*dto.User, error) {
	p := planFor(entity.KindUser, paths)
	out := make([]*dto.User, len(rows))
	for i, u := range rows {
		d := &dto.User{}
		set(p, "Id", &d.ID, u.ID)
		set(p, "FullName", &d.FullName, u.FullName)
		set(p, "Email", &d.Email, u.Email)
		set(p, "PhoneNumber", &d.PhoneNumber, u.PhoneNumber)
		set(p, "Location", &d.Location, u.Location)
		set(p, "Roles", &d.Roles, u.Roles)
		set(p, "CreatedAt", &d.CreatedAt, timeOf(u.CreatedAt))
		set(p, "UpdatedAt", &d.UpdatedAt, timeOf(u.UpdatedAt))
		out[i] = d
	}

	if sub := p.nested["Shelter"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(u entity.User) []string { return one(u.ShelterID) })
		index, err := related(ctx, r, &lookup.ShelterLookup{IDs: ids}, ids, sub, shelterID, r.Shelters)
		if err != nil {
			return nil, err
		}
		for i, u := range rows {
			out[i].Shelter = index[u.ShelterID]
		}
	}
	if sub := p.nested["ProfilePhoto"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(u entity.User) []string { return one(u.ProfilePhotoID) })
		index, err := related(ctx, r, &lookup.FileLookup{IDs: ids}, ids, sub, fileID, r.Files)
		if err != nil {
			return nil, err
		}
		for i, u := range rows {
			out[i].ProfilePhoto = index[u.ProfilePhotoID]
		}
	}
	return out, nil
}

// Shelters builds shelter DTOs.
func (r *Registry) Shelters(ctx context.Context, rows []entity.Shelter, paths []string) ([]*dto.Shelter, error) {
	p := planFor(entity.KindShelter, paths)
	out := make([]*dto.Shelter, len(rows))
	for i, s := range rows {
		d := &dto.Shelter{}
		set(p, "Id", &d.ID, s.ID)
		set(p, "ShelterName", &d.ShelterName, s.ShelterName)
		set(p, "Description", &d.Description, s.Description)
		set(p, "Website", &d.Website, s.Website)
		set(p, "SocialMedia", &d.SocialMedia, s.SocialMedia)
		set(p, "OperatingHours", &d.OperatingHours, s.OperatingHours)
		set(p, "Location", &d.Location, s.Location)
		set(p, "CreatedAt", &d.CreatedAt, timeOf(s.CreatedAt))
		set(p, "UpdatedAt", &d.UpdatedAt, timeOf(s.UpdatedAt))
		out[i] = d
	}

	if sub := p.nested["User"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(s entity.Shelter) []string { return one(s.UserID) })
		index, err := related(ctx, r, &lookup.UserLookup{IDs: ids}, ids, sub, userID, r.Users)
		if err != nil {
			return nil, err
		}
		for i, s := range rows {
			out[i].User = index[s.UserID]
		}
	}
	if sub := p.nested["Animals"]; len(sub) > 0 {
		if err := r.shelterAnimals(ctx, rows, out, sub); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// shelterAnimals resolves the inverse relation: one query over every
// animal of the page's shelters, grouped by shelterId.
func (r *Registry) shelterAnimals(ctx context.Context, rows []entity.Shelter, out []*dto.Shelter, paths []string) error {
	ids := foreignIDs(rows, func(s entity.Shelter) []string { return one(s.ID) })
	if len(ids) == 0 {
		return nil
	}
	q := (&lookup.AnimalLookup{ShelterIDs: ids}).Enrich(r.queries).Project("shelterId")
	q.Fields = paths
	if r.flags != nil {
		q.Flags = r.flags(entity.KindAnimal)
	}
	animals, err := query.Collect[entity.Animal](ctx, q)
	if err != nil {
		return fmt.Errorf("fieldauth/builder: fetch shelter animals: %w", err)
	}
	built, err := r.Animals(ctx, animals, paths)
	if err != nil {
		return err
	}
	byShelter := make(map[string][]*dto.Animal, len(ids))
	for i, a := range animals {
		byShelter[a.ShelterID] = append(byShelter[a.ShelterID], built[i])
	}
	for i, s := range rows {
		out[i].Animals = byShelter[s.ID]
	}
	return nil
}
