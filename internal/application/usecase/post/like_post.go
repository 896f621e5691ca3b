package post

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type LikeInput struct {
	PostID uuid.UUID
	UserID uuid.UUID
}

type LikePostUseCase struct {
	postRepo  post.Repository
	cache     service.Cache
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewLikePostUseCase(pRepo post.Repository, cache service.Cache, publisher service.EventPublisher, log logger.Logger) *LikePostUseCase {
	return &LikePostUseCase{postRepo: pRepo, cache: cache, publisher: publisher, logger: log}
}

// Execute returns the likes after the caller's like was added. A repeated like fails with
// Conflict before anything is written.
func (uc *LikePostUseCase) Execute(ctx context.Context, input LikeInput) ([]post.Like, error) {
	ctx, span := tracer.Start(ctx, "LikePost")
	defer span.End()

	p, err := loadPost(ctx, uc.postRepo, input.PostID)
	if err != nil {
		return nil, err
	}
	if err := p.Like(input.UserID); err != nil {
		return nil, apperror.NewConflict("Post already liked", err.Error())
	}
	if err := replacePost(ctx, uc.postRepo, uc.cache, uc.logger, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	publish(uc.publisher, uc.logger, service.PostEventPayload{
		EventType:  service.PostEventTypeLiked,
		PostID:     p.ID,
		OwnerID:    p.User,
		ActorID:    input.UserID,
		OccurredAt: time.Now().UTC(),
	})
	return p.Likes, nil
}

type UnlikePostUseCase struct {
	postRepo  post.Repository
	cache     service.Cache
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewUnlikePostUseCase(pRepo post.Repository, cache service.Cache, publisher service.EventPublisher, log logger.Logger) *UnlikePostUseCase {
	return &UnlikePostUseCase{postRepo: pRepo, cache: cache, publisher: publisher, logger: log}
}

func (uc *UnlikePostUseCase) Execute(ctx context.Context, input LikeInput) ([]post.Like, error) {
	ctx, span := tracer.Start(ctx, "UnlikePost")
	defer span.End()

	p, err := loadPost(ctx, uc.postRepo, input.PostID)
	if err != nil {
		return nil, err
	}
	if err := p.Unlike(input.UserID); err != nil {
		return nil, apperror.NewConflict("Post has not yet been liked", err.Error())
	}
	if err := replacePost(ctx, uc.postRepo, uc.cache, uc.logger, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	publish(uc.publisher, uc.logger, service.PostEventPayload{
		EventType:  service.PostEventTypeUnliked,
		PostID:     p.ID,
		OwnerID:    p.User,
		ActorID:    input.UserID,
		OccurredAt: time.Now().UTC(),
	})
	return p.Likes, nil
}
