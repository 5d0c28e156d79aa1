// Package policy maps permissions to the roles that hold them directly and
// to the roles that hold them only through affiliation.
package policy

import "github.com/shelterhub/fieldauth/entity"

// Role names.
const (
	RoleAdmin   = "Admin"
	RoleUser    = "User"
	RoleShelter = "Shelter"
)

// Browse permissions, one per entity kind.
const (
	BrowseUsers                = "BrowseUsers"
	BrowseShelters             = "BrowseShelters"
	BrowseAnimals              = "BrowseAnimals"
	BrowseBreeds               = "BrowseBreeds"
	BrowseAnimalTypes          = "BrowseAnimalTypes"
	BrowseFiles                = "BrowseFiles"
	BrowseAdoptionApplications = "BrowseAdoptionApplications"
	BrowseConversations        = "BrowseConversations"
	BrowseMessages             = "BrowseMessages"
	BrowseReports              = "BrowseReports"
)

// Policy grants a permission to a set of roles. AffiliatedRoles hold the
// permission only for records affiliated with the caller.
type Policy struct {
	Permission      string   `json:"permission" yaml:"permission" koanf:"permission"`
	Roles           []string `json:"roles" yaml:"roles" koanf:"roles"`
	AffiliatedRoles []string `json:"affiliated_roles,omitempty" yaml:"affiliated_roles" koanf:"affiliated_roles"`
}

var browse = map[entity.Kind]string{
	entity.KindUser:                BrowseUsers,
	entity.KindShelter:             BrowseShelters,
	entity.KindAnimal:              BrowseAnimals,
	entity.KindBreed:               BrowseBreeds,
	entity.KindAnimalType:          BrowseAnimalTypes,
	entity.KindFile:                BrowseFiles,
	entity.KindAdoptionApplication: BrowseAdoptionApplications,
	entity.KindConversation:        BrowseConversations,
	entity.KindMessage:             BrowseMessages,
	entity.KindReport:              BrowseReports,
}

// BrowsePermission returns the permission that grants reading kind.
func BrowsePermission(k entity.Kind) string { return browse[k] }

// Defaults returns the built-in policy set.
func Defaults() []Policy {
	all := []string{RoleAdmin, RoleUser, RoleShelter}
	return []Policy{
		{Permission: BrowseUsers, Roles: []string{RoleAdmin}, AffiliatedRoles: []string{RoleShelter}},
		{Permission: BrowseShelters, Roles: all},
		{Permission: BrowseAnimals, Roles: all},
		{Permission: BrowseBreeds, Roles: all},
		{Permission: BrowseAnimalTypes, Roles: all},
		{Permission: BrowseFiles, Roles: []string{RoleAdmin}, AffiliatedRoles: []string{RoleShelter}},
		{Permission: BrowseAdoptionApplications, Roles: []string{RoleAdmin}, AffiliatedRoles: []string{RoleShelter}},
		{Permission: BrowseConversations, Roles: []string{RoleAdmin}},
		{Permission: BrowseMessages, Roles: []string{RoleAdmin}, AffiliatedRoles: []string{RoleUser, RoleShelter}},
		{Permission: BrowseReports, Roles: []string{RoleAdmin}, AffiliatedRoles: []string{RoleUser, RoleShelter}},
	}
}
