package resolver

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/shelterhub/fieldauth/entity"
)

type builderFunc func(ctx context.Context, r *Resolver, uid string) (bson.M, error)

var ownedBuilders = map[entity.Kind]builderFunc{
	entity.KindUser: func(_ context.Context, _ *Resolver, uid string) (bson.M, error) {
		return bson.M{"_id": uid}, nil
	},
	entity.KindShelter: func(_ context.Context, _ *Resolver, uid string) (bson.M, error) {
		return bson.M{"userId": uid}, nil
	},
	entity.KindFile: func(_ context.Context, _ *Resolver, uid string) (bson.M, error) {
		return bson.M{"ownerId": uid}, nil
	},
	entity.KindAdoptionApplication: func(_ context.Context, _ *Resolver, uid string) (bson.M, error) {
		return bson.M{"userId": uid}, nil
	},
	entity.KindConversation: func(_ context.Context, _ *Resolver, uid string) (bson.M, error) {
		return bson.M{"userIds": uid}, nil
	},
	entity.KindMessage: func(_ context.Context, _ *Resolver, uid string) (bson.M, error) {
		return bson.M{"$or": bson.A{
			bson.M{"senderId": uid},
			bson.M{"recipientId": uid},
		}}, nil
	},
	entity.KindReport: func(_ context.Context, _ *Resolver, uid string) (bson.M, error) {
		return bson.M{"reporterId": uid}, nil
	},
}

var affiliatedBuilders = map[entity.Kind]builderFunc{
	entity.KindUser: func(ctx context.Context, r *Resolver, _ string) (bson.M, error) {
		ids, err := r.applicants(ctx)
		if err != nil || ids == nil {
			return MatchNothing(), err
		}
		return bson.M{"_id": bson.M{"$in": ids}}, nil
	},
	entity.KindAnimal: func(ctx context.Context, r *Resolver, _ string) (bson.M, error) {
		return r.byShelter(ctx)
	},
	entity.KindFile: func(ctx context.Context, r *Resolver, _ string) (bson.M, error) {
		ids, err := r.applicants(ctx)
		if err != nil || ids == nil {
			return MatchNothing(), err
		}
		return bson.M{"ownerId": bson.M{"$in": ids}}, nil
	},
	entity.KindAdoptionApplication: func(ctx context.Context, r *Resolver, _ string) (bson.M, error) {
		return r.byShelter(ctx)
	},
	entity.KindMessage: func(ctx context.Context, r *Resolver, uid string) (bson.M, error) {
		convs, err := r.store.Distinct(ctx, entity.KindConversation, "_id", bson.M{"userIds": uid})
		if err != nil {
			return nil, err
		}
		if convs == nil {
			convs = []string{}
		}
		return bson.M{"conversationId": bson.M{"$in": convs}}, nil
	},
	entity.KindReport: func(_ context.Context, _ *Resolver, uid string) (bson.M, error) {
		return bson.M{"reportedId": uid}, nil
	},
}

// byShelter selects records whose shelterId is the caller's shelter.
func (r *Resolver) byShelter(ctx context.Context) (bson.M, error) {
	shelter, err := r.CurrentPrincipalShelter(ctx)
	if err != nil {
		return nil, err
	}
	if shelter == "" {
		return MatchNothing(), nil
	}
	return bson.M{"shelterId": shelter}, nil
}

// applicants returns the users who applied to adopt from the caller's
// shelter, or nil when the caller manages no shelter.
func (r *Resolver) applicants(ctx context.Context) ([]string, error) {
	shelter, err := r.CurrentPrincipalShelter(ctx)
	if err != nil || shelter == "" {
		return nil, err
	}
	ids, err := r.store.Distinct(ctx, entity.KindAdoptionApplication, "userId", bson.M{"shelterId": shelter})
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
