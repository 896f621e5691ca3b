package post

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/ownership"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type DeletePostUseCase struct {
	postRepo  post.Repository
	cache     service.Cache
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewDeletePostUseCase(pRepo post.Repository, cache service.Cache, publisher service.EventPublisher, log logger.Logger) *DeletePostUseCase {
	return &DeletePostUseCase{
		postRepo:  pRepo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

type DeletePostInput struct {
	PostID  uuid.UUID
	OwnerID uuid.UUID
}

func (uc *DeletePostUseCase) Execute(ctx context.Context, input DeletePostInput) error {
	ctx, span := tracer.Start(ctx, "DeletePost")
	defer span.End()

	p, err := loadPost(ctx, uc.postRepo, input.PostID)
	if err != nil {
		return err
	}
	if !ownership.IsOwner(p, input.OwnerID) {
		return apperror.NewPermissionDenied("User not authorized", post.ErrNotOwner.Error())
	}

	err = uc.postRepo.Delete(ctx, input.PostID)
	if errors.Is(err, post.ErrPostNotFound) {
		return apperror.NewNotFound("Post", input.PostID.String())
	}
	if err != nil {
		span.RecordError(err)
		return apperror.NewInternal("delete post failed", err)
	}

	invalidatePosts(ctx, uc.cache, uc.logger)
	publish(uc.publisher, uc.logger, service.PostEventPayload{
		EventType:  service.PostEventTypeDeleted,
		PostID:     input.PostID,
		OwnerID:    p.User,
		ActorID:    input.OwnerID,
		OccurredAt: time.Now().UTC(),
	})
	return nil
}
