// Package storage opens the repositories for the configured db.driver.
package storage

import (
	"context"
	"fmt"

	"github.com/khoahotran/devconnector/adapters/memory"
	"github.com/khoahotran/devconnector/adapters/mongodb"
	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type Repositories struct {
	Users    user.Repository
	Profiles profile.Repository
	Posts    post.Repository

	close func()
}

// Close releases the underlying connection. It is safe on a zero value.
func (r *Repositories) Close() {
	if r != nil && r.close != nil {
		r.close()
	}
}

// Open connects to the configured store and prepares its schema. Postgres gets its
// migrations applied and MongoDB its unique indexes.
func Open(cfg config.Config, log logger.Logger) (*Repositories, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		if cfg.DB.MigrationsDir != "" {
			if err := persistence.RunMigrations(cfg.DB.DSN, cfg.DB.MigrationsDir, log); err != nil {
				return nil, err
			}
		}
		pool, err := persistence.NewPostgresPool(cfg, log)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Users:    persistence.NewPostgresUserRepo(pool, cfg.DB.Timeout, log),
			Profiles: persistence.NewPostgresProfileRepo(pool, cfg.DB.Timeout, log),
			Posts:    persistence.NewPostgresPostRepo(pool, cfg.DB.Timeout, log),
			close:    pool.Close,
		}, nil

	case config.DriverMongo:
		client, db, err := mongodb.NewMongoDatabase(cfg, log)
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DB.Timeout)
		defer cancel()
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &Repositories{
			Users:    mongodb.NewMongoUserRepo(db, cfg.DB.Timeout, log),
			Profiles: mongodb.NewMongoProfileRepo(db, cfg.DB.Timeout, log),
			Posts:    mongodb.NewMongoPostRepo(db, cfg.DB.Timeout, log),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Error("Failed to disconnect MongoDB", err)
				}
			},
		}, nil

	case config.DriverMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		return &Repositories{
			Users:    memory.NewUserRepo(),
			Profiles: memory.NewProfileRepo(),
			Posts:    memory.NewPostRepo(),
		}, nil
	}
	return nil, fmt.Errorf("unknown db.driver %q", cfg.DB.Driver)
}
