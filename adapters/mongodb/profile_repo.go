package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type mongoProfileRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
	logger  logger.Logger
}

func NewMongoProfileRepo(db *mongo.Database, timeout time.Duration, log logger.Logger) profile.Repository {
	return &mongoProfileRepo{coll: db.Collection(collProfiles), timeout: timeout, logger: log}
}

func (r *mongoProfileRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var d profileDoc
	if err := r.coll.FindOne(ctx, bson.M{"user": ownerID.String()}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return d.toDomain(), nil
}

func (r *mongoProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	out := make([]*profile.Profile, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// Save replaces the document with the same _id, inserting it when absent. The unique index
// on user rejects a second profile for one owner.
func (r *mongoProfileRepo) Save(ctx context.Context, p *profile.Profile) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	d := toProfileDoc(p)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, d, options.Replace().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}

func (r *mongoProfileRepo) DeleteByOwner(ctx context.Context, ownerID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"user": ownerID.String()})
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if res.DeletedCount == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}
