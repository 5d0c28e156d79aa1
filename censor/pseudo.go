package censor

import (
	"slices"

	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/fields"
)

// PseudoCensor exposes a fixed public preview of a few kinds without
// consulting any authorization context. Keep the allow-lists minimal.
type PseudoCensor struct {
	allow map[entity.Kind][]string
}

// NewPseudoCensor returns the preview censor.
func NewPseudoCensor() *PseudoCensor {
	return &PseudoCensor{allow: map[entity.Kind][]string{
		entity.KindUser:    {"Id", "FullName", "ProfilePhoto.Id", "ProfilePhoto.SourceUrl"},
		entity.KindShelter: {"Id", "ShelterName", "Website", "Location"},
		entity.KindAnimal:  {"Id", "Name", "Gender", "AdoptionStatus", "Shelter.Id", "Shelter.ShelterName"},
		entity.KindFile:    {"Id", "SourceUrl", "MimeType"},
	}}
}

// Allowed returns the preview fields of kind.
func (p *PseudoCensor) Allowed(kind entity.Kind) []string {
	return slices.Clone(p.allow[kind])
}

// Censor returns the normalized paths that are on kind's allow-list. A
// top-level wildcard selects the whole list. Kinds without a list yield
// nothing.
func (p *PseudoCensor) Censor(kind entity.Kind, paths []string) []string {
	allow := p.allow[kind]
	out := make([]string, 0, len(allow))
	for _, path := range fields.PrepareFieldsList(paths) {
		if path == fields.Wildcard {
			out = append(out, allow...)
			continue
		}
		if slices.Contains(allow, path) {
			out = append(out, path)
		}
	}
	return fields.Dedupe(out)
}
