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

	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type mongoPostRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
	logger  logger.Logger
}

func NewMongoPostRepo(db *mongo.Database, timeout time.Duration, log logger.Logger) post.Repository {
	return &mongoPostRepo{coll: db.Collection(collPosts), timeout: timeout, logger: log}
}

func (r *mongoPostRepo) Save(ctx context.Context, p *post.Post) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, toPostDoc(p)); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *mongoPostRepo) Replace(ctx context.Context, p *post.Post) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	d := toPostDoc(p)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": d.ID}, d)
	if err != nil {
		return fmt.Errorf("failed to replace post: %w", err)
	}
	if res.MatchedCount == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func (r *mongoPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var d postDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to query post: %w", err)
	}
	return d.toDomain(), nil
}

func (r *mongoPostRepo) List(ctx context.Context) ([]*post.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cur.Close(ctx)

	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	out := make([]*post.Post, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r *mongoPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return post.ErrPostNotFound
	}
	return nil
}
