package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/cache"
	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/adapters/storage"
	feedUC "github.com/khoahotran/devconnector/internal/application/usecase/feed"
	postUC "github.com/khoahotran/devconnector/internal/application/usecase/post"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/tracing"
)

func main() {
	// Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid config: %v", err)
	}
	if len(cfg.Kafka.Brokers) == 0 {
		log.Fatalf("FATAL: kafka.brokers is required for the worker")
	}

	appLogger, err := logger.New(logger.Options{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "devconnector-worker"})
	if err != nil {
		log.Fatalf("FATAL: cannot init logger: %v", err)
	}
	defer appLogger.Sync()
	appLogger.Info("Starting DevConnector Worker...")

	shutdownTracer, err := tracing.Setup(context.Background(), tracing.OptionsFromConfig(cfg, "devconnector-worker"), appLogger)
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}
	defer shutdownTracer(context.Background())

	// Storage
	repos, err := storage.Open(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open storage", err)
	}
	defer repos.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()
	listCache := cache.NewRedisCache(redisClient, cfg.Cache.TTL, appLogger)

	// Worker Use Case
	publisher := event.NewNopPublisher(appLogger)
	warmCacheUC := feedUC.NewWarmCacheUseCase(
		postUC.NewListPostsUseCase(repos.Posts, listCache, appLogger),
		profileUC.NewProfileUseCase(repos.Profiles, repos.Users, listCache, publisher, appLogger),
		listCache,
		appLogger,
	)

	// Kafka Consumer
	consumer := event.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, warmCacheUC, appLogger.Named("consumer"))
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Consumer group", zap.String("group_id", cfg.Kafka.GroupID))
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Consumer stopped", err)
	}
	appLogger.Info("Worker stopped")
}
