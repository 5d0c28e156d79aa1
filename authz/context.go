package authz

import (
	"slices"

	"github.com/shelterhub/fieldauth/lookup"
)

// OwnedResource scopes a check to resources belonging to OwnerIDs, or to
// the rows RequestedFilters selects.
type OwnedResource struct {
	OwnerIDs         []string
	RequestedFilters lookup.Lookup
}

// AffiliatedResource scopes a check to resources the caller is affiliated
// with through one of AffiliatedRoles. Empty roles fall back to the
// policy's affiliated roles.
type AffiliatedResource struct {
	AffiliatedRoles  []string
	RequestedFilters lookup.Lookup
}

// Context bundles the scoping information for one censor call. It is
// immutable once built.
type Context struct {
	userID     string
	owned      *OwnedResource
	affiliated *AffiliatedResource
}

// CurrentUserID returns the caller's id.
func (c *Context) CurrentUserID() string { return c.userID }

// Owned returns a copy of the owned resource, or nil.
func (c *Context) Owned() *OwnedResource {
	if c.owned == nil {
		return nil
	}
	return &OwnedResource{OwnerIDs: slices.Clone(c.owned.OwnerIDs), RequestedFilters: c.owned.RequestedFilters}
}

// Affiliated returns a copy of the affiliated resource, or nil.
func (c *Context) Affiliated() *AffiliatedResource {
	if c.affiliated == nil {
		return nil
	}
	return &AffiliatedResource{AffiliatedRoles: slices.Clone(c.affiliated.AffiliatedRoles), RequestedFilters: c.affiliated.RequestedFilters}
}

// OwnedLookup returns the owned scope lookup, or nil.
func (c *Context) OwnedLookup() lookup.Lookup {
	if c.owned == nil {
		return nil
	}
	return c.owned.RequestedFilters
}

// AffiliatedLookup returns the affiliated scope lookup, or nil.
func (c *Context) AffiliatedLookup() lookup.Lookup {
	if c.affiliated == nil {
		return nil
	}
	return c.affiliated.RequestedFilters
}

// ContextBuilder assembles a Context fluently.
type ContextBuilder struct {
	ctx Context
}

// NewContext starts a Context for userID.
func NewContext(userID string) *ContextBuilder {
	return &ContextBuilder{ctx: Context{userID: userID}}
}

// OwnedFrom scopes ownership to l, owned by ownerIDs.
func (b *ContextBuilder) OwnedFrom(l lookup.Lookup, ownerIDs ...string) *ContextBuilder {
	b.ctx.owned = &OwnedResource{OwnerIDs: lookup.Union(ownerIDs), RequestedFilters: l}
	return b
}

// AffiliatedWith scopes affiliation to l through roles.
func (b *ContextBuilder) AffiliatedWith(l lookup.Lookup, roles ...string) *ContextBuilder {
	b.ctx.affiliated = &AffiliatedResource{AffiliatedRoles: lookup.Union(roles), RequestedFilters: l}
	return b
}

// Build returns the finished Context. The builder may be reused; later
// changes do not affect contexts already built.
func (b *ContextBuilder) Build() *Context {
	c := b.ctx
	if c.owned != nil {
		o := *c.owned
		c.owned = &o
	}
	if c.affiliated != nil {
		a := *c.affiliated
		c.affiliated = &a
	}
	return &c
}

// RootContext builds the context for a top-level request: both scopes use
// l, and owners come from the lookup's own owner filter when it has one.
func RootContext(userID string, l lookup.Lookup) *Context {
	var owners []string
	if o, ok := l.(lookup.Owned); ok {
		owners = o.OwnerIDs()
	}
	return NewContext(userID).OwnedFrom(l, owners...).AffiliatedWith(l).Build()
}
