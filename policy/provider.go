package policy

import "slices"

// Provider resolves permissions to roles.
type Provider interface {
	// FindPolicy returns the policy for a permission.
	FindPolicy(permission string) (*Policy, bool)

	// AffiliatedRolesFor returns the union of affiliated roles across
	// the given permissions.
	AffiliatedRolesFor(permissions ...string) []string
}

// Static is an immutable Provider backed by an in-memory policy list.
// Later entries for the same permission replace earlier ones.
type Static struct {
	byPermission map[string]*Policy
}

var _ Provider = (*Static)(nil)

// NewStatic builds a provider from policies.
func NewStatic(policies []Policy) *Static {
	s := &Static{byPermission: make(map[string]*Policy, len(policies))}
	for i := range policies {
		p := policies[i]
		p.Roles = slices.Clone(p.Roles)
		p.AffiliatedRoles = slices.Clone(p.AffiliatedRoles)
		s.byPermission[p.Permission] = &p
	}
	return s
}

// FindPolicy implements Provider.
func (s *Static) FindPolicy(permission string) (*Policy, bool) {
	p, ok := s.byPermission[permission]
	return p, ok
}

// AffiliatedRolesFor implements Provider.
func (s *Static) AffiliatedRolesFor(permissions ...string) []string {
	var out []string
	for _, perm := range permissions {
		p, ok := s.byPermission[perm]
		if !ok {
			continue
		}
		for _, r := range p.AffiliatedRoles {
			if !slices.Contains(out, r) {
				out = append(out, r)
			}
		}
	}
	return out
}

// Grants reports whether any of roles holds any of permissions directly.
// Affiliated roles are not considered.
func Grants(p Provider, roles []string, permissions ...string) bool {
	for _, perm := range permissions {
		pol, ok := p.FindPolicy(perm)
		if !ok {
			continue
		}
		if intersects(roles, pol.Roles) {
			return true
		}
	}
	return false
}

// GrantsAffiliated reports whether any of roles is one of the affiliated
// roles. When affiliated is empty the policies' affiliated roles apply.
func GrantsAffiliated(p Provider, roles, affiliated []string, permissions ...string) bool {
	if len(affiliated) == 0 {
		affiliated = p.AffiliatedRolesFor(permissions...)
	}
	return intersects(roles, affiliated)
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if slices.Contains(b, x) {
			return true
		}
	}
	return false
}
