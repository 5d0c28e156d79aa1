package builder

import (
	"context"

	"github.com/shelterhub/fieldauth/dto"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/lookup"
)

func fileID(f entity.File) string { return f.ID }

// Files builds file DTOs.
func (r *Registry) Files(ctx context.Context, rows []entity.File, paths []string) ([]*dto.File, error) {
	p := planFor(entity.KindFile, paths)
	out := make([]*dto.File, len(rows))
	for i, f := range rows {
		d := &dto.File{}
		set(p, "Id", &d.ID, f.ID)
		set(p, "Filename", &d.Filename, f.Filename)
		set(p, "FileType", &d.FileType, f.FileType)
		set(p, "MimeType", &d.MimeType, f.MimeType)
		set(p, "Size", &d.Size, f.Size)
		set(p, "SourceUrl", &d.SourceURL, f.SourceURL)
		set(p, "CreatedAt", &d.CreatedAt, timeOf(f.CreatedAt))
		out[i] = d
	}

	if sub := p.nested["Owner"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(f entity.File) []string { return one(f.OwnerID) })
		index, err := related(ctx, r, &lookup.UserLookup{IDs: ids}, ids, sub, userID, r.Users)
		if err != nil {
			return nil, err
		}
		for i, f := range rows {
			out[i].Owner = index[f.OwnerID]
		}
	}
	return out, nil
}

// AdoptionApplications builds adoption application DTOs.
func (r *Registry) AdoptionApplications(ctx context.Context, rows []entity.AdoptionApplication, paths []string) ([]*dto.AdoptionApplication, error) {
	p := planFor(entity.KindAdoptionApplication, paths)
	out := make([]*dto.AdoptionApplication, len(rows))
	for i, a := range rows {
		d := &dto.AdoptionApplication{}
		set(p, "Id", &d.ID, a.ID)
		set(p, "Status", &d.Status, a.Status)
		set(p, "ApplicationDetails", &d.ApplicationDetails, a.ApplicationDetails)
		set(p, "RejectReasoning", &d.RejectReasoning, a.RejectReasoning)
		set(p, "CreatedAt", &d.CreatedAt, timeOf(a.CreatedAt))
		set(p, "UpdatedAt", &d.UpdatedAt, timeOf(a.UpdatedAt))
		out[i] = d
	}

	if sub := p.nested["User"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(a entity.AdoptionApplication) []string { return one(a.UserID) })
		index, err := related(ctx, r, &lookup.UserLookup{IDs: ids}, ids, sub, userID, r.Users)
		if err != nil {
			return nil, err
		}
		for i, a := range rows {
			out[i].User = index[a.UserID]
		}
	}
	if sub := p.nested["Animal"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(a entity.AdoptionApplication) []string { return one(a.AnimalID) })
		index, err := related(ctx, r, &lookup.AnimalLookup{IDs: ids}, ids, sub, animalID, r.Animals)
		if err != nil {
			return nil, err
		}
		for i, a := range rows {
			out[i].Animal = index[a.AnimalID]
		}
	}
	if sub := p.nested["Shelter"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(a entity.AdoptionApplication) []string { return one(a.ShelterID) })
		index, err := related(ctx, r, &lookup.ShelterLookup{IDs: ids}, ids, sub, shelterID, r.Shelters)
		if err != nil {
			return nil, err
		}
		for i, a := range rows {
			out[i].Shelter = index[a.ShelterID]
		}
	}
	if sub := p.nested["AttachedFiles"]; len(sub) > 0 {
		ids := foreignIDs(rows, func(a entity.AdoptionApplication) []string { return a.AttachedFileIDs })
		index, err := related(ctx, r, &lookup.FileLookup{IDs: ids}, ids, sub, fileID, r.Files)
		if err != nil {
			return nil, err
		}
		for i, a := range rows {
			out[i].AttachedFiles = pickAll(index, a.AttachedFileIDs)
		}
	}
	return out, nil
}
