// Package lookup holds the client-facing filter, sort, paging and field
// selection inputs for every entity kind. A Lookup enriches itself onto a
// query.Query, copying only the filter values that are set.
package lookup

import (
	"fmt"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/fields"
	"github.com/shelterhub/fieldauth/query"
)

// Lookup is implemented by every per-kind lookup.
type Lookup interface {
	// Kind returns the entity kind the lookup targets.
	Kind() entity.Kind
	// Page returns the shared paging, search and field selection.
	Page() *Base
	// Enrich builds a query carrying the lookup's non-default values.
	Enrich(f *query.Factory) *query.Query
	// CacheKey returns a structural key over the kind, the search text
	// and every filter value. Paging, sort and fields are excluded.
	CacheKey() string
}

// Owned is implemented by lookups whose filters name the owning users.
type Owned interface {
	OwnerIDs() []string
}

// Base carries the inputs shared by every lookup.
type Base struct {
	Offset         int      `json:"offset,omitempty"`
	PageSize       int      `json:"pageSize,omitempty"`
	Query          string   `json:"query,omitempty"`
	Fields         []string `json:"fields,omitempty"`
	SortBy         []string `json:"sortBy,omitempty"`
	SortDescending bool     `json:"sortDescending,omitempty"`
}

// Page implements Lookup.
func (b *Base) Page() *Base { return b }

// SetFields normalizes and stores the requested field paths.
func (b *Base) SetFields(paths ...string) { b.Fields = fields.PrepareFieldsList(paths) }

// SetSortBy normalizes and stores the sort field paths.
func (b *Base) SetSortBy(paths ...string) { b.SortBy = fields.PrepareFieldsList(paths) }

func (b *Base) enrich(f *query.Factory, kind entity.Kind, c query.Criteria) *query.Query {
	q := f.Query(kind, c)
	q.Search = b.Query
	if b.Offset > 0 {
		q.Offset = b.Offset
	}
	if b.PageSize > 0 {
		q.PageSize = b.PageSize
	}
	if len(b.SortBy) > 0 {
		q.SortBy = fields.PrepareFieldsList(b.SortBy)
	}
	q.SortDescending = b.SortDescending
	if len(b.Fields) > 0 {
		q.Fields = fields.PrepareFieldsList(b.Fields)
	}
	return q
}

// ids returns a copy of values, or nil when empty.
func ids(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return slices.Clone(values)
}

// cacheKey serializes l with paging removed and string lists sorted.
// go-json orders map keys, so equal filters produce equal keys.
func cacheKey(l Lookup) string {
	raw, err := json.Marshal(l)
	if err != nil {
		return fmt.Sprintf("%s:%p", l.Kind(), l)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Sprintf("%s:%p", l.Kind(), l)
	}
	for _, k := range []string{"offset", "pageSize", "fields", "sortBy", "sortDescending"} {
		delete(m, k)
	}
	for k, v := range m {
		list, ok := v.([]any)
		if !ok {
			continue
		}
		strs := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				strs = append(strs, s)
			}
		}
		slices.Sort(strs)
		m[k] = slices.Compact(strs)
	}
	out, err := json.Marshal(m)
	if err != nil {
		return fmt.Sprintf("%s:%p", l.Kind(), l)
	}
	return string(l.Kind()) + ":" + string(out)
}

// For returns an empty lookup for kind.
func For(kind entity.Kind) (Lookup, bool) {
	switch kind {
	case entity.KindUser:
		return &UserLookup{}, true
	case entity.KindShelter:
		return &ShelterLookup{}, true
	case entity.KindAnimal:
		return &AnimalLookup{}, true
	case entity.KindBreed:
		return &BreedLookup{}, true
	case entity.KindAnimalType:
		return &AnimalTypeLookup{}, true
	case entity.KindFile:
		return &FileLookup{}, true
	case entity.KindAdoptionApplication:
		return &AdoptionApplicationLookup{}, true
	case entity.KindConversation:
		return &ConversationLookup{}, true
	case entity.KindMessage:
		return &MessageLookup{}, true
	case entity.KindReport:
		return &ReportLookup{}, true
	default:
		return nil, false
	}
}
