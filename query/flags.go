package query

import "strings"

// AuthorizationFlags select which authorization scopes a query applies.
type AuthorizationFlags uint8

// FlagNone applies no row-level authorization.
const FlagNone AuthorizationFlags = 0

const (
	// FlagPermission lets holders of the kind's browse permission see
	// every row matching the filters.
	FlagPermission AuthorizationFlags = 1 << iota
	// FlagOwner admits rows the caller owns.
	FlagOwner
	// FlagAffiliation admits rows the caller is affiliated with.
	FlagAffiliation
)

const (
	// FlagOwnerOrAffiliation combines the two scoped flags.
	FlagOwnerOrAffiliation = FlagOwner | FlagAffiliation
	// FlagAny combines every flag.
	FlagAny = FlagPermission | FlagOwner | FlagAffiliation
)

// Has reports whether every bit of x is set in f.
func (f AuthorizationFlags) Has(x AuthorizationFlags) bool {
	return x != 0 && f&x == x
}

// String implements fmt.Stringer.
func (f AuthorizationFlags) String() string {
	if f == FlagNone {
		return "None"
	}
	var parts []string
	if f.Has(FlagPermission) {
		parts = append(parts, "Permission")
	}
	if f.Has(FlagOwner) {
		parts = append(parts, "Owner")
	}
	if f.Has(FlagAffiliation) {
		parts = append(parts, "Affiliation")
	}
	return strings.Join(parts, "|")
}
