package post

import (
	"context"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/post"
)

type GetPostUseCase struct {
	postRepo post.Repository
}

func NewGetPostUseCase(pRepo post.Repository) *GetPostUseCase {
	return &GetPostUseCase{postRepo: pRepo}
}

func (uc *GetPostUseCase) Execute(ctx context.Context, postID uuid.UUID) (*post.Post, error) {
	ctx, span := tracer.Start(ctx, "GetPost")
	defer span.End()

	return loadPost(ctx, uc.postRepo, postID)
}
