// Package store defines the document persistence interface the query layer
// executes against. Filters are MongoDB filter documents; backends either
// hand them to the server (mongo) or evaluate them locally (memory).
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shelterhub/fieldauth/entity"
)

// FindOptions controls ordering, paging and projection of a Find.
// Zero values mean "no sort", "no skip", "no limit" and "all fields".
type FindOptions struct {
	Sort       bson.D
	Skip       int64
	Limit      int64
	Projection []string
}

// Store is the persistence interface.
type Store interface {
	// Find returns the raw documents of kind matching filter.
	Find(ctx context.Context, kind entity.Kind, filter bson.M, opts *FindOptions) ([]bson.Raw, error)

	// Count returns the number of documents of kind matching filter.
	Count(ctx context.Context, kind entity.Kind, filter bson.M) (int64, error)

	// Distinct returns the distinct string values of field across the
	// documents matching filter. Array fields contribute each element.
	Distinct(ctx context.Context, kind entity.Kind, field string, filter bson.M) ([]string, error)

	// Insert persists documents of kind.
	Insert(ctx context.Context, kind entity.Kind, docs ...any) error

	// Migrate creates indexes.
	Migrate(ctx context.Context) error

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases the connection.
	Close() error
}

// Decode unmarshals raw documents into typed records.
func Decode[T any](raws []bson.Raw) ([]T, error) {
	out := make([]T, len(raws))
	for i, raw := range raws {
		if err := bson.Unmarshal(raw, &out[i]); err != nil {
			return nil, fmt.Errorf("fieldauth/store: decode: %w", err)
		}
	}
	return out, nil
}

// Projection converts a field list into a projection document.
func Projection(fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		d = append(d, bson.E{Key: f, Value: 1})
	}
	return d
}
