package main

import (
	"context"
	"errors"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/media_storage"
	"github.com/khoahotran/devconnector/adapters/memory"
	"github.com/khoahotran/devconnector/adapters/storage"
	authUC "github.com/khoahotran/devconnector/internal/application/usecase/auth"
	postUC "github.com/khoahotran/devconnector/internal/application/usecase/post"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("FATAL: invalid config: %v", err)
	}

	appLogger, err := logger.New(logger.Options{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "devconnector-seed"})
	if err != nil {
		log.Fatalf("FATAL: cannot init logger: %v", err)
	}
	defer appLogger.Sync()

	name := getenv("SEED_NAME", "Demo Developer")
	email := getenv("SEED_EMAIL", "demo@devconnector.dev")
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		appLogger.Fatal("SEED_PASSWORD is required", nil)
	}

	repos, err := storage.Open(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open storage", err)
	}
	defer repos.Close()

	// Listing caches are left to expire; the seed never talks to Redis or Kafka.
	listCache := memory.NewCache()
	publisher := event.NewNopPublisher(appLogger)
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	ctx := context.Background()

	register := authUC.NewRegisterUseCase(repos.Users, jwtSvc, media_storage.NewAvatarResolver(cfg, appLogger), publisher, appLogger)
	login := authUC.NewLoginUseCase(repos.Users, jwtSvc, appLogger)

	reg, err := register.Execute(ctx, authUC.RegisterInput{Name: name, Email: email, Password: password})
	switch {
	case err == nil:
		appLogger.Info("Registered seed user", zap.String("user_id", reg.UserID.String()))
	case errors.Is(err, apperror.ErrConflict):
		appLogger.Info("Seed user already exists, skipping registration", zap.String("email", email))
		out, loginErr := login.Execute(ctx, authUC.LoginInput{Email: email, Password: password})
		if loginErr != nil {
			appLogger.Fatal("cannot log in as existing seed user", loginErr)
		}
		reg = &authUC.RegisterOutput{UserID: out.UserID, Token: out.AccessToken}
	default:
		appLogger.Fatal("cannot register seed user", err)
	}

	profiles := profileUC.NewProfileUseCase(repos.Profiles, repos.Users, listCache, publisher, appLogger)
	if _, err := profiles.UpsertProfile(ctx, profileUC.UpsertProfileInput{
		OwnerID:        reg.UserID,
		Handle:         "demo",
		Status:         "Developer",
		Skills:         "Go, PostgreSQL, Kafka",
		Bio:            "Seeded account",
		GithubUsername: getenv("SEED_GITHUB", ""),
	}); err != nil {
		appLogger.Fatal("cannot upsert seed profile", err)
	}

	posts := postUC.NewCreatePostUseCase(repos.Posts, repos.Users, listCache, publisher, appLogger)
	p, err := posts.Execute(ctx, postUC.CreatePostInput{OwnerID: reg.UserID, Text: "Hello from the seed script!"})
	if err != nil {
		appLogger.Fatal("cannot create seed post", err)
	}

	appLogger.Info("Seed completed", zap.String("email", email), zap.String("post_id", p.ID.String()))
}
