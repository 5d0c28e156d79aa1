// Package fieldauth provides field-level authorization for the shelter
// domain. A client asks for a dotted field list over a graph of related
// entities; the engine censors it down to what the caller may see, runs an
// authorization-aware query and assembles nested DTOs.
//
//	eng, err := fieldauth.NewEngine(
//	    fieldauth.WithStore(memStore),
//	)
//	l := &lookup.AnimalLookup{ShelterIDs: []string{shelterID}}
//	l.SetFields("name", "shelter.shelterName", "breed.*")
//	animals, err := fieldauth.BrowseAs[dto.Animal](ctx, eng, l, fieldauth.FlagAny)
//
// Fields the caller may not see are silently omitted. Denial never
// surfaces as an error.
package fieldauth

import "github.com/shelterhub/fieldauth/query"

// AuthorizationFlags select which scopes narrow the rows of a query.
type AuthorizationFlags = query.AuthorizationFlags

// Authorization flags.
const (
	FlagNone               = query.FlagNone
	FlagPermission         = query.FlagPermission
	FlagOwner              = query.FlagOwner
	FlagAffiliation        = query.FlagAffiliation
	FlagOwnerOrAffiliation = query.FlagOwnerOrAffiliation
	FlagAny                = query.FlagAny
)
