// Package feed keeps the public listings in the cache warm after domain events.
package feed

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	postUC "github.com/khoahotran/devconnector/internal/application/usecase/post"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

var tracer = otel.Tracer("feed_usecase")

type WarmCacheUseCase struct {
	posts    *postUC.ListPostsUseCase
	profiles *profileUC.ProfileUseCase
	cache    service.Cache
	logger   logger.Logger
}

func NewWarmCacheUseCase(posts *postUC.ListPostsUseCase, profiles *profileUC.ProfileUseCase, cache service.Cache, log logger.Logger) *WarmCacheUseCase {
	return &WarmCacheUseCase{posts: posts, profiles: profiles, cache: cache, logger: log}
}

// HandlePostEvent rebuilds the post listing. Every post event changes it.
func (uc *WarmCacheUseCase) HandlePostEvent(ctx context.Context, payload service.PostEventPayload) error {
	uc.logger.Info("Processing post event",
		zap.String("event_type", string(payload.EventType)),
		zap.String("post_id", payload.PostID.String()))
	return uc.WarmPosts(ctx)
}

// HandleUserEvent rebuilds the profile listing, which embeds user names and avatars.
func (uc *WarmCacheUseCase) HandleUserEvent(ctx context.Context, payload service.UserEventPayload) error {
	uc.logger.Info("Processing user event",
		zap.String("event_type", string(payload.EventType)),
		zap.String("user_id", payload.UserID.String()))
	return uc.WarmProfiles(ctx)
}

func (uc *WarmCacheUseCase) WarmPosts(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "WarmPosts", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	posts, err := uc.posts.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return uc.store(ctx, service.CacheKeyPosts, posts)
}

func (uc *WarmCacheUseCase) WarmProfiles(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "WarmProfiles", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	profiles, err := uc.profiles.LoadProfiles(ctx)
	if err != nil {
		span.RecordError(err)
		return err
	}
	return uc.store(ctx, service.CacheKeyProfiles, profiles)
}

func (uc *WarmCacheUseCase) store(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return uc.cache.Set(ctx, key, raw)
}
