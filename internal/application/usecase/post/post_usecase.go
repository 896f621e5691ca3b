package post

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

var tracer = otel.Tracer("post_usecase")

func loadPost(ctx context.Context, repo post.Repository, id uuid.UUID) (*post.Post, error) {
	p, err := repo.FindByID(ctx, id)
	if errors.Is(err, post.ErrPostNotFound) {
		return nil, apperror.NewNotFound("Post", id.String())
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to load post", err)
	}
	return p, nil
}

func loadAuthor(ctx context.Context, repo user.Repository, id uuid.UUID) (*user.User, error) {
	u, err := repo.FindByID(ctx, id)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, apperror.NewNotFound("User", id.String())
	}
	if err != nil {
		return nil, apperror.NewInternal("failed to load user", err)
	}
	return u, nil
}

// replacePost writes p back and drops the cached listing.
func replacePost(ctx context.Context, repo post.Repository, cache service.Cache, log logger.Logger, p *post.Post) error {
	err := repo.Replace(ctx, p)
	if errors.Is(err, post.ErrPostNotFound) {
		return apperror.NewNotFound("Post", p.ID.String())
	}
	if err != nil {
		return apperror.NewInternal("failed to save post", err)
	}
	invalidatePosts(ctx, cache, log)
	return nil
}

func invalidatePosts(ctx context.Context, cache service.Cache, log logger.Logger) {
	if err := cache.Delete(ctx, service.CacheKeyPosts); err != nil {
		log.Warn("Failed to invalidate post listing", zap.Error(err))
	}
}

func publish(publisher service.EventPublisher, log logger.Logger, payload service.PostEventPayload) {
	go func() {
		if err := publisher.PublishPostEvent(context.Background(), payload); err != nil {
			log.Error("Failed to publish Kafka post event", err,
				zap.String("event_type", string(payload.EventType)),
				zap.String("post_id", payload.PostID.String()))
		}
	}()
}
