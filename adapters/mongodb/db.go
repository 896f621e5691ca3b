// Package mongodb stores the aggregates as MongoDB documents, one document per user, profile
// and post, with sub-collections embedded.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

const (
	collUsers    = "users"
	collProfiles = "profiles"
	collPosts    = "posts"
)

func NewMongoDatabase(cfg config.Config, log logger.Logger) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot connect MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping MongoDB failed: %w", err)
	}

	log.Info("Connect MongoDB successfully.", zap.String("database", cfg.Mongo.Database))
	return client, client.Database(cfg.Mongo.Database), nil
}

// EnsureIndexes is idempotent and runs at startup. Problems across collections are
// reported together.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensure(ctx, db.Collection(collUsers), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetName("uniq_email").SetUnique(true),
	}); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensure(ctx, db.Collection(collProfiles), mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetName("uniq_user").SetUnique(true),
	}); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensure(ctx, db.Collection(collPosts), mongo.IndexModel{
		Keys:    bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: -1}},
		Options: options.Index().SetName("date_desc"),
	}); err != nil {
		problems = append(problems, "posts: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensure(ctx context.Context, c *mongo.Collection, models ...mongo.IndexModel) error {
	_, err := c.Indexes().CreateMany(ctx, models)
	if err != nil && strings.Contains(err.Error(), "IndexOptionsConflict") {
		// Same keys already indexed under another name.
		return nil
	}
	return err
}
