package censor

import (
	"github.com/shelterhub/fieldauth/authz"
	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/lookup"
	"github.com/shelterhub/fieldauth/policy"
	"github.com/shelterhub/fieldauth/query"
)

var rules = map[entity.Kind]rule{
	entity.KindUser: {
		permission: policy.BrowseUsers,
		checks:     query.FlagAny,
		scopes: map[string]scopeFunc{
			"Shelter": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.UserLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.ShelterLookup{IDs: lookup.Union(o.ShelterIDs), UserIDs: lookup.Union(o.IDs)}, o.IDs...).
					AffiliatedWith(&lookup.ShelterLookup{IDs: lookup.Union(a.ShelterIDs), UserIDs: lookup.Union(a.IDs)}).
					Build()
			},
			"ProfilePhoto": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.UserLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.FileLookup{Owners: lookup.Union(o.IDs)}, o.IDs...).
					AffiliatedWith(&lookup.FileLookup{Owners: lookup.Union(a.IDs)}).
					Build()
			},
		},
	},
	entity.KindShelter: {
		permission: policy.BrowseShelters,
		checks:     query.FlagPermission | query.FlagOwner,
		scopes: map[string]scopeFunc{
			"User": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.ShelterLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.UserLookup{IDs: lookup.Union(o.UserIDs)}, o.UserIDs...).
					AffiliatedWith(&lookup.UserLookup{IDs: lookup.Union(a.UserIDs)}).
					Build()
			},
			"Animals": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.ShelterLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.AnimalLookup{ShelterIDs: lookup.Union(o.IDs)}).
					AffiliatedWith(&lookup.AnimalLookup{ShelterIDs: lookup.Union(a.IDs)}).
					Build()
			},
		},
	},
	entity.KindAnimal: {
		permission: policy.BrowseAnimals,
		checks:     query.FlagPermission | query.FlagAffiliation,
		scopes: map[string]scopeFunc{
			"Shelter": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.AnimalLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.ShelterLookup{IDs: lookup.Union(o.ShelterIDs)}).
					AffiliatedWith(&lookup.ShelterLookup{IDs: lookup.Union(a.ShelterIDs)}).
					Build()
			},
			"Breed": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.AnimalLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.BreedLookup{IDs: lookup.Union(o.BreedIDs)}).
					AffiliatedWith(&lookup.BreedLookup{IDs: lookup.Union(a.BreedIDs)}).
					Build()
			},
			"AnimalType": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.AnimalLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.AnimalTypeLookup{IDs: lookup.Union(o.AnimalTypeIDs)}).
					AffiliatedWith(&lookup.AnimalTypeLookup{IDs: lookup.Union(a.AnimalTypeIDs)}).
					Build()
			},
			"AttachedPhotos": func(p *authz.Context) *authz.Context {
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.FileLookup{}).
					AffiliatedWith(&lookup.FileLookup{}).
					Build()
			},
		},
	},
	entity.KindBreed: {
		permission: policy.BrowseBreeds,
		checks:     query.FlagPermission,
		scopes: map[string]scopeFunc{
			"AnimalType": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.BreedLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.AnimalTypeLookup{IDs: lookup.Union(o.AnimalTypeIDs)}).
					AffiliatedWith(&lookup.AnimalTypeLookup{IDs: lookup.Union(a.AnimalTypeIDs)}).
					Build()
			},
		},
	},
	entity.KindAnimalType: {
		permission: policy.BrowseAnimalTypes,
		checks:     query.FlagPermission,
	},
	entity.KindFile: {
		permission: policy.BrowseFiles,
		checks:     query.FlagAny,
		scopes: map[string]scopeFunc{
			"Owner": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.FileLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.UserLookup{IDs: lookup.Union(o.Owners)}, o.Owners...).
					AffiliatedWith(&lookup.UserLookup{IDs: lookup.Union(a.Owners)}).
					Build()
			},
		},
	},
	entity.KindAdoptionApplication: {
		permission: policy.BrowseAdoptionApplications,
		checks:     query.FlagAny,
		scopes: map[string]scopeFunc{
			"User": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.AdoptionApplicationLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.UserLookup{IDs: lookup.Union(o.UserIDs)}, o.UserIDs...).
					AffiliatedWith(&lookup.UserLookup{IDs: lookup.Union(a.UserIDs)}).
					Build()
			},
			"Animal": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.AdoptionApplicationLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.AnimalLookup{IDs: lookup.Union(o.AnimalIDs), ShelterIDs: lookup.Union(o.ShelterIDs)}).
					AffiliatedWith(&lookup.AnimalLookup{IDs: lookup.Union(a.AnimalIDs), ShelterIDs: lookup.Union(a.ShelterIDs)}).
					Build()
			},
			"Shelter": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.AdoptionApplicationLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.ShelterLookup{IDs: lookup.Union(o.ShelterIDs)}).
					AffiliatedWith(&lookup.ShelterLookup{IDs: lookup.Union(a.ShelterIDs)}).
					Build()
			},
			"AttachedFiles": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.AdoptionApplicationLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.FileLookup{Owners: lookup.Union(o.UserIDs)}, o.UserIDs...).
					AffiliatedWith(&lookup.FileLookup{Owners: lookup.Union(a.UserIDs)}).
					Build()
			},
		},
	},
	entity.KindConversation: {
		permission: policy.BrowseConversations,
		checks:     query.FlagPermission | query.FlagOwner,
		scopes: map[string]scopeFunc{
			"Users": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.ConversationLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.UserLookup{IDs: lookup.Union(o.UserIDs)}, o.UserIDs...).
					AffiliatedWith(&lookup.UserLookup{IDs: lookup.Union(a.UserIDs)}).
					Build()
			},
		},
	},
	entity.KindMessage: {
		permission: policy.BrowseMessages,
		checks:     query.FlagAny,
		scopes: map[string]scopeFunc{
			"Conversation": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.MessageLookup](p)
				conv := messageConversationLookup(o, a)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(conv, conv.UserIDs...).
					AffiliatedWith(conv).
					Build()
			},
			"Sender": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.MessageLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.UserLookup{IDs: lookup.Union(o.SenderIDs)}, o.SenderIDs...).
					AffiliatedWith(&lookup.UserLookup{IDs: lookup.Union(a.SenderIDs)}).
					Build()
			},
			"Recipient": func(p *authz.Context) *authz.Context {
				o, a := scopes[lookup.MessageLookup](p)
				return authz.NewContext(p.CurrentUserID()).
					OwnedFrom(&lookup.UserLookup{IDs: lookup.Union(o.RecipientIDs)}, o.RecipientIDs...).
					AffiliatedWith(&lookup.UserLookup{IDs: lookup.Union(a.RecipientIDs)}).
					Build()
			},
		},
	},
	entity.KindReport: {
		permission: policy.BrowseReports,
		checks:     query.FlagAny,
		scopes: map[string]scopeFunc{
			"Reporter": func(p *authz.Context) *authz.Context {
				o, _ := scopes[lookup.ReportLookup](p)
				return reportUserContext(p.CurrentUserID(), o.ReporterIDs)
			},
			"Reported": func(p *authz.Context) *authz.Context {
				o, _ := scopes[lookup.ReportLookup](p)
				return reportUserContext(p.CurrentUserID(), o.ReportedIDs)
			},
		},
	},
}

// messageConversationLookup scopes a message's conversation to every
// conversation and participant named by either message scope.
func messageConversationLookup(owned, affiliated *lookup.MessageLookup) *lookup.ConversationLookup {
	return &lookup.ConversationLookup{
		IDs: lookup.Union(owned.ConversationIDs, affiliated.ConversationIDs),
		UserIDs: lookup.Union(
			owned.SenderIDs, owned.RecipientIDs,
			affiliated.SenderIDs, affiliated.RecipientIDs,
		),
	}
}

// reportUserContext scopes a report's reporter or reported user. Both
// scopes take their user ids from the owned report lookup.
// TODO: confirm with product whether the affiliated scope should read the
// affiliated report lookup instead; changing it widens what reported users
// can see.
func reportUserContext(uid string, users []string) *authz.Context {
	return authz.NewContext(uid).
		OwnedFrom(&lookup.UserLookup{IDs: lookup.Union(users)}, users...).
		AffiliatedWith(&lookup.UserLookup{IDs: lookup.Union(users)}).
		Build()
}
