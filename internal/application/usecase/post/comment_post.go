package post

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
	"github.com/khoahotran/devconnector/pkg/validation"
)

type AddCommentUseCase struct {
	postRepo  post.Repository
	userRepo  user.Repository
	cache     service.Cache
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewAddCommentUseCase(pRepo post.Repository, uRepo user.Repository, cache service.Cache, publisher service.EventPublisher, log logger.Logger) *AddCommentUseCase {
	return &AddCommentUseCase{postRepo: pRepo, userRepo: uRepo, cache: cache, publisher: publisher, logger: log}
}

type AddCommentInput struct {
	PostID uuid.UUID `json:"-"`
	UserID uuid.UUID `json:"-"`
	Text   string    `json:"text" validate:"required"`
}

func (uc *AddCommentUseCase) Execute(ctx context.Context, input AddCommentInput) (*post.Post, error) {
	ctx, span := tracer.Start(ctx, "AddComment")
	defer span.End()

	input.Text = strings.TrimSpace(input.Text)
	if err := validation.Check(input); err != nil {
		return nil, err
	}

	p, err := loadPost(ctx, uc.postRepo, input.PostID)
	if err != nil {
		return nil, err
	}
	author, err := loadAuthor(ctx, uc.userRepo, input.UserID)
	if err != nil {
		return nil, err
	}

	c, err := p.AddComment(author.ID, author.Name, author.Avatar, input.Text, time.Now().UTC())
	if err != nil {
		return nil, apperror.NewValidation([]string{"text is required"})
	}
	if err := replacePost(ctx, uc.postRepo, uc.cache, uc.logger, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	publish(uc.publisher, uc.logger, service.PostEventPayload{
		EventType:  service.PostEventTypeCommented,
		PostID:     p.ID,
		OwnerID:    p.User,
		ActorID:    input.UserID,
		OccurredAt: c.Date,
	})
	return p, nil
}

type RemoveCommentUseCase struct {
	postRepo  post.Repository
	cache     service.Cache
	publisher service.EventPublisher
	logger    logger.Logger
}

func NewRemoveCommentUseCase(pRepo post.Repository, cache service.Cache, publisher service.EventPublisher, log logger.Logger) *RemoveCommentUseCase {
	return &RemoveCommentUseCase{postRepo: pRepo, cache: cache, publisher: publisher, logger: log}
}

type RemoveCommentInput struct {
	PostID    uuid.UUID
	CommentID uuid.UUID
	UserID    uuid.UUID
}

func (uc *RemoveCommentUseCase) Execute(ctx context.Context, input RemoveCommentInput) (*post.Post, error) {
	ctx, span := tracer.Start(ctx, "RemoveComment")
	defer span.End()

	p, err := loadPost(ctx, uc.postRepo, input.PostID)
	if err != nil {
		return nil, err
	}

	switch err := p.RemoveComment(input.CommentID, input.UserID); {
	case errors.Is(err, post.ErrCommentNotFound):
		return nil, apperror.NewAppError(apperror.ErrNotFound, "Comment does not exist", input.CommentID.String(), nil)
	case errors.Is(err, post.ErrNotCommentAuthor):
		return nil, apperror.NewPermissionDenied("User not authorized", err.Error())
	case err != nil:
		return nil, apperror.NewInternal("failed to remove comment", err)
	}

	if err := replacePost(ctx, uc.postRepo, uc.cache, uc.logger, p); err != nil {
		span.RecordError(err)
		return nil, err
	}

	publish(uc.publisher, uc.logger, service.PostEventPayload{
		EventType:  service.PostEventTypeCommentRemoved,
		PostID:     p.ID,
		OwnerID:    p.User,
		ActorID:    input.UserID,
		OccurredAt: time.Now().UTC(),
	})
	return p, nil
}
