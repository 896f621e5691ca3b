package post

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/validation"
)

type CreatePostUseCase struct {
	postRepo  post.Repository
	userRepo  user.Repository
	cache     service.Cache
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewCreatePostUseCase(pRepo post.Repository, uRepo user.Repository, cache service.Cache, publisher service.EventPublisher, log logger.Logger) *CreatePostUseCase {
	return &CreatePostUseCase{
		postRepo:  pRepo,
		userRepo:  uRepo,
		cache:     cache,
		publisher: publisher,
		logger:    log,
	}
}

type CreatePostInput struct {
	OwnerID uuid.UUID `json:"-"`
	Text    string    `json:"text" validate:"required"`
}

// Execute snapshots the author's current name and avatar into the post.
func (uc *CreatePostUseCase) Execute(ctx context.Context, input CreatePostInput) (*post.Post, error) {
	ctx, span := tracer.Start(ctx, "CreatePost")
	defer span.End()

	input.Text = strings.TrimSpace(input.Text)
	if err := validation.Check(input); err != nil {
		return nil, err
	}

	author, err := loadAuthor(ctx, uc.userRepo, input.OwnerID)
	if err != nil {
		return nil, err
	}

	newPost, err := post.New(author.ID, author.Name, author.Avatar, input.Text, time.Now().UTC())
	if err != nil {
		return nil, apperror.NewValidation([]string{"text is required"})
	}

	if err := uc.postRepo.Save(ctx, newPost); err != nil {
		span.RecordError(err)
		return nil, apperror.NewInternal("failed to save post", err)
	}
	span.SetAttributes(attribute.String("post_id", newPost.ID.String()))

	invalidatePosts(ctx, uc.cache, uc.logger)
	publish(uc.publisher, uc.logger, service.PostEventPayload{
		EventType:  service.PostEventTypeCreated,
		PostID:     newPost.ID,
		OwnerID:    newPost.User,
		ActorID:    newPost.User,
		OccurredAt: newPost.Date,
	})

	return newPost, nil
}
