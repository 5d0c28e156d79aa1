package query_test

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/query"
	"github.com/shelterhub/fieldauth/store/memory"
)

type fakeFragments struct {
	owned      map[entity.Kind]bson.M
	affiliated map[entity.Kind]bson.M
}

func (f fakeFragments) OwnedFilter(_ context.Context, k entity.Kind) (bson.M, error) {
	return f.owned[k], nil
}

func (f fakeFragments) AffiliatedFilter(_ context.Context, k entity.Kind) (bson.M, error) {
	return f.affiliated[k], nil
}

type fakePermissions map[string]bool

func (p fakePermissions) Authorize(_ context.Context, perms ...string) bool {
	for _, perm := range perms {
		if p[perm] {
			return true
		}
	}
	return false
}

func seedAnimals(t *testing.T, n int) *memory.Store {
	t.Helper()
	s := memory.New()
	docs := make([]any, 0, n)
	for i := 0; i < n; i++ {
		shelter := "s1"
		if i%2 == 1 {
			shelter = "s2"
		}
		docs = append(docs, entity.Animal{
			ID:        fmt.Sprintf("a%02d", i),
			Name:      fmt.Sprintf("animal %d", i%3),
			ShelterID: shelter,
			Age:       float64(i % 4),
		})
	}
	if err := s.Insert(context.Background(), entity.KindAnimal, docs...); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func ids(t *testing.T, rows []entity.Animal) []string {
	t.Helper()
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestApplyAuthorizationComposition(t *testing.T) {
	owned := bson.M{"ownerId": "u1"}
	affiliated := bson.M{"ownerId": bson.M{"$in": []string{"u2"}}}
	frags := fakeFragments{
		owned:      map[entity.Kind]bson.M{entity.KindFile: owned},
		affiliated: map[entity.Kind]bson.M{entity.KindFile: affiliated},
	}
	base := bson.M{"fileType": "Image"}
	ctx := context.Background()

	tests := []struct {
		name  string
		flags query.AuthorizationFlags
		perms fakePermissions
		want  bson.M
	}{
		{"none passes through", query.FlagNone, nil, base},
		{"permission holder unrestricted", query.FlagAny, fakePermissions{"BrowseFiles": true}, base},
		{"owner only", query.FlagOwner, nil, bson.M{"$and": bson.A{base, owned}}},
		{"affiliation only", query.FlagAffiliation, nil, bson.M{"$and": bson.A{base, affiliated}}},
		{"both ORed", query.FlagAny, fakePermissions{}, bson.M{"$and": bson.A{base, bson.M{"$or": bson.A{affiliated, owned}}}}},
		{"permission flag without permission", query.FlagPermission, fakePermissions{}, base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := query.NewFactory(memory.New(), frags, query.WithPermissionChecker(tt.perms))
			q := f.Query(entity.KindFile, nil)
			q.Flags = tt.flags
			got, err := q.ApplyAuthorization(ctx, base)
			if err != nil {
				t.Fatalf("ApplyAuthorization: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApplyAuthorizationSkipsMissingFragments(t *testing.T) {
	f := query.NewFactory(memory.New(), fakeFragments{})
	q := f.Query(entity.KindBreed, nil)
	q.Flags = query.FlagOwnerOrAffiliation
	base := bson.M{"name": "Husky"}
	got, err := q.ApplyAuthorization(context.Background(), base)
	if err != nil {
		t.Fatalf("ApplyAuthorization: %v", err)
	}
	if !reflect.DeepEqual(got, base) {
		t.Fatalf("got %v, want base filter", got)
	}
}

func TestFieldNamesOfAlwaysIncludesID(t *testing.T) {
	f := query.NewFactory(memory.New(), fakeFragments{})
	q := f.Query(entity.KindAnimal, nil)

	got := q.FieldNamesOf([]string{"Name", "Shelter.ShelterName", "Shelter.User.FullName", "AttachedPhotos.Id", "Unknown"})
	want := []string{"_id", "name", "shelterId", "attachedPhotosIds"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	sq := f.Query(entity.KindShelter, nil)
	got = sq.FieldNamesOf([]string{"Animals.Name"})
	if !reflect.DeepEqual(got, []string{"_id"}) {
		t.Fatalf("inverse relation projected %v", got)
	}
}

func TestSortAppendsTiebreak(t *testing.T) {
	f := query.NewFactory(memory.New(), fakeFragments{})
	q := f.Query(entity.KindAnimal, nil)
	q.SortBy = []string{"name", "Shelter.Name", "Bogus"}
	q.SortDescending = true

	want := bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: 1}}
	if got := q.Sort(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	q.SortBy = []string{"Id"}
	want = bson.D{{Key: "_id", Value: -1}}
	if got := q.Sort(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestStablePagination(t *testing.T) {
	s := seedAnimals(t, 23)
	f := query.NewFactory(s, fakeFragments{})
	ctx := context.Background()

	all := f.Query(entity.KindAnimal, nil)
	all.SortBy = []string{"Name"}
	full, err := query.Collect[entity.Animal](ctx, all)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	var paged []string
	for page := 0; page < 5; page++ {
		q := f.Query(entity.KindAnimal, nil)
		q.SortBy = []string{"Name"}
		q.Offset = page
		q.PageSize = 5
		first, err := query.Collect[entity.Animal](ctx, q)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		again, err := query.Collect[entity.Animal](ctx, q)
		if err != nil {
			t.Fatalf("page %d again: %v", page, err)
		}
		if !reflect.DeepEqual(ids(t, first), ids(t, again)) {
			t.Fatalf("page %d not repeatable", page)
		}
		paged = append(paged, ids(t, first)...)
	}
	if !reflect.DeepEqual(paged, ids(t, full)) {
		t.Fatalf("paged %v\nfull  %v", paged, ids(t, full))
	}
}

func TestAuthorizationNarrowsBeforePaging(t *testing.T) {
	s := seedAnimals(t, 10)
	frags := fakeFragments{affiliated: map[entity.Kind]bson.M{entity.KindAnimal: {"shelterId": "s2"}}}
	f := query.NewFactory(s, frags)
	q := f.Query(entity.KindAnimal, nil)
	q.Flags = query.FlagAffiliation
	q.PageSize = 3

	rows, err := query.Collect[entity.Animal](context.Background(), q)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{"a01", "a03", "a05"}
	if got := ids(t, rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	n, err := q.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 5 {
		t.Fatalf("count = %d, want 5", n)
	}
}

func TestProjection(t *testing.T) {
	s := seedAnimals(t, 2)
	f := query.NewFactory(s, fakeFragments{})
	q := f.Query(entity.KindAnimal, &query.AnimalCriteria{IDs: []string{"a01"}})
	q.Fields = []string{"Name"}

	rows, err := query.Collect[entity.Animal](context.Background(), q)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].ID != "a01" || rows[0].Name == "" {
		t.Fatalf("missing projected fields: %+v", rows[0])
	}
	if rows[0].ShelterID != "" {
		t.Fatalf("shelterId should not be projected: %+v", rows[0])
	}
}

func TestSearchAndCriteria(t *testing.T) {
	s := seedAnimals(t, 9)
	f := query.NewFactory(s, fakeFragments{})
	q := f.Query(entity.KindAnimal, &query.AnimalCriteria{ShelterIDs: []string{"s1"}})
	q.Search = "ANIMAL 1"

	rows, err := query.Collect[entity.Animal](context.Background(), q)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	// i%3 == 1 and even i: 4
	want := []string{"a04"}
	if got := ids(t, rows); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestCountWhereIgnoresFlags(t *testing.T) {
	s := seedAnimals(t, 6)
	frags := fakeFragments{affiliated: map[entity.Kind]bson.M{entity.KindAnimal: {"shelterId": "nope"}}}
	f := query.NewFactory(s, frags)
	q := f.Query(entity.KindAnimal, nil)
	q.Flags = query.FlagAffiliation

	n, err := q.CountWhere(context.Background(), bson.M{"shelterId": "s1"})
	if err != nil {
		t.Fatalf("CountWhere: %v", err)
	}
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
}

func TestFlagsString(t *testing.T) {
	if got := query.FlagNone.String(); got != "None" {
		t.Fatalf("got %q", got)
	}
	if got := query.FlagAny.String(); got != "Permission|Owner|Affiliation" {
		t.Fatalf("got %q", got)
	}
	if query.FlagOwner.Has(query.FlagOwnerOrAffiliation) {
		t.Fatal("FlagOwner should not contain both scopes")
	}
}
