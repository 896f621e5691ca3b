package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/cache"
	"github.com/khoahotran/devconnector/adapters/event"
	httpAdapter "github.com/khoahotran/devconnector/adapters/http"
	"github.com/khoahotran/devconnector/adapters/media_storage"
	"github.com/khoahotran/devconnector/adapters/memory"
	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/adapters/storage"
	"github.com/khoahotran/devconnector/internal/application/service"
	authUC "github.com/khoahotran/devconnector/internal/application/usecase/auth"
	postUC "github.com/khoahotran/devconnector/internal/application/usecase/post"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/auth"
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

	appLogger, err := logger.New(logger.Options{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "devconnector-api"})
	if err != nil {
		log.Fatalf("FATAL: cannot init logger: %v", err)
	}
	defer appLogger.Sync()
	appLogger.Info("Start DevConnector API Server...", zap.String("env", cfg.App.Env), zap.String("driver", cfg.DB.Driver))

	shutdownTracer, err := tracing.Setup(context.Background(), tracing.OptionsFromConfig(cfg, "devconnector-api"), appLogger)
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			appLogger.Error("Failed to shutdown tracer", err)
		}
	}()

	// Storage
	repos, err := storage.Open(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open storage", err)
	}
	defer repos.Close()

	// Listing cache
	var listCache service.Cache
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Warn("Redis unavailable, listings are cached in process", zap.Error(err))
			listCache = memory.NewCache()
		} else {
			defer redisClient.Close()
			listCache = cache.NewRedisCache(redisClient, cfg.Cache.TTL, appLogger)
		}
	} else {
		listCache = memory.NewCache()
	}

	// Events
	var publisher service.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot init Kafka", err)
		}
		defer kafkaClient.Close()
		publisher = kafkaClient
	} else {
		publisher = event.NewNopPublisher(appLogger)
	}

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	avatars := media_storage.NewAvatarResolver(cfg, appLogger)

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(repos.Users, jwtSvc, avatars, publisher, appLogger)
	loginUseCase := authUC.NewLoginUseCase(repos.Users, jwtSvc, appLogger)
	currentUserUseCase := authUC.NewCurrentUserUseCase(repos.Users)
	profileUseCase := profileUC.NewProfileUseCase(repos.Profiles, repos.Users, listCache, publisher, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:    httpAdapter.NewAuthHandler(registerUseCase, loginUseCase, currentUserUseCase),
		Profile: httpAdapter.NewProfileHandler(profileUseCase),
		Post: httpAdapter.NewPostHandler(
			postUC.NewCreatePostUseCase(repos.Posts, repos.Users, listCache, publisher, appLogger),
			postUC.NewListPostsUseCase(repos.Posts, listCache, appLogger),
			postUC.NewGetPostUseCase(repos.Posts),
			postUC.NewDeletePostUseCase(repos.Posts, listCache, publisher, appLogger),
			postUC.NewLikePostUseCase(repos.Posts, listCache, publisher, appLogger),
			postUC.NewUnlikePostUseCase(repos.Posts, listCache, publisher, appLogger),
			postUC.NewAddCommentUseCase(repos.Posts, repos.Users, listCache, publisher, appLogger),
			postUC.NewRemoveCommentUseCase(repos.Posts, listCache, publisher, appLogger),
		),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(handlers, jwtSvc, httpAdapter.RouterConfig{
		AuthHeader:     cfg.Auth.Header,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}, appLogger)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
