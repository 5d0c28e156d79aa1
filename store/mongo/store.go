// Package mongo implements the document store on MongoDB through Grove.
package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongod "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/mongodriver"

	"github.com/shelterhub/fieldauth/entity"
	"github.com/shelterhub/fieldauth/store"
)

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

var errUnknownKind = errors.New("fieldauth/mongo: unknown kind")

// Store is a MongoDB implementation of store.Store.
type Store struct {
	db  *grove.DB
	mdb *mongodriver.MongoDB
}

// New creates a new MongoDB store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		mdb: mongodriver.Unwrap(db),
	}
}

// Migrate creates the lookup indexes for every collection.
func (s *Store) Migrate(ctx context.Context) error {
	for col, models := range migrationIndexes() {
		if len(models) == 0 {
			continue
		}
		if _, err := s.mdb.Collection(col).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("fieldauth/mongo: migrate %s indexes: %w", col, err)
		}
	}
	return nil
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Find implements store.Store.
func (s *Store) Find(ctx context.Context, kind entity.Kind, filter bson.M, opts *store.FindOptions) ([]bson.Raw, error) {
	col, err := collection(kind)
	if err != nil {
		return nil, err
	}

	fo := options.Find()
	if opts != nil {
		if len(opts.Sort) > 0 {
			fo = fo.SetSort(opts.Sort)
		}
		if opts.Skip > 0 {
			fo = fo.SetSkip(opts.Skip)
		}
		if opts.Limit > 0 {
			fo = fo.SetLimit(opts.Limit)
		}
		if p := store.Projection(opts.Projection); p != nil {
			fo = fo.SetProjection(p)
		}
	}

	cur, err := s.mdb.Collection(col).Find(ctx, filter, fo)
	if err != nil {
		return nil, fmt.Errorf("fieldauth/mongo: find %s: %w", kind, err)
	}
	defer cur.Close(ctx)

	var out []bson.Raw
	for cur.Next(ctx) {
		raw := make(bson.Raw, len(cur.Current))
		copy(raw, cur.Current)
		out = append(out, raw)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("fieldauth/mongo: find %s: %w", kind, err)
	}
	return out, nil
}

// Count implements store.Store.
func (s *Store) Count(ctx context.Context, kind entity.Kind, filter bson.M) (int64, error) {
	model, ok := modelFor(kind)
	if !ok {
		return 0, fmt.Errorf("%w: %s", errUnknownKind, kind)
	}
	count, err := s.mdb.NewFind(model).
		Filter(filter).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("fieldauth/mongo: count %s: %w", kind, err)
	}
	return count, nil
}

// Distinct implements store.Store.
func (s *Store) Distinct(ctx context.Context, kind entity.Kind, field string, filter bson.M) ([]string, error) {
	col, err := collection(kind)
	if err != nil {
		return nil, err
	}
	res := s.mdb.Collection(col).Distinct(ctx, field, filter)
	if err := res.Err(); err != nil {
		return nil, fmt.Errorf("fieldauth/mongo: distinct %s.%s: %w", kind, field, err)
	}
	var values []string
	if err := res.Decode(&values); err != nil {
		return nil, fmt.Errorf("fieldauth/mongo: distinct %s.%s: %w", kind, field, err)
	}
	return values, nil
}

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, kind entity.Kind, docs ...any) error {
	if len(docs) == 0 {
		return nil
	}
	col, err := collection(kind)
	if err != nil {
		return err
	}
	if _, err := s.mdb.Collection(col).InsertMany(ctx, docs); err != nil {
		if mongod.IsDuplicateKeyError(err) {
			return fmt.Errorf("fieldauth/mongo: insert %s: duplicate id: %w", kind, err)
		}
		return fmt.Errorf("fieldauth/mongo: insert %s: %w", kind, err)
	}
	return nil
}

func collection(kind entity.Kind) (string, error) {
	s, ok := entity.SchemaOf(kind)
	if !ok {
		return "", fmt.Errorf("%w: %s", errUnknownKind, kind)
	}
	return s.Collection, nil
}

// migrationIndexes returns the index definitions for every collection:
// one per foreign key the resolver and builders filter on.
func migrationIndexes() map[string][]mongod.IndexModel {
	asc := func(keys ...string) mongod.IndexModel {
		d := make(bson.D, 0, len(keys))
		for _, k := range keys {
			d = append(d, bson.E{Key: k, Value: 1})
		}
		return mongod.IndexModel{Keys: d}
	}
	return map[string][]mongod.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			asc("shelterId"),
		},
		"shelters": {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		"animals": {
			asc("shelterId"),
			asc("breedId"),
			asc("animalTypeId"),
			asc("shelterId", "adoptionStatus"),
		},
		"breeds": {
			asc("animalTypeId"),
		},
		"files": {
			asc("ownerId"),
		},
		"adoption_applications": {
			asc("userId", "animalId"),
			asc("shelterId"),
		},
		"conversations": {
			asc("userIds"),
		},
		"messages": {
			asc("conversationId", "createdAt"),
			asc("senderId"),
			asc("recipientId"),
		},
		"reports": {
			asc("reporterId"),
			asc("reportedId"),
		},
	}
}
