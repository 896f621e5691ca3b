package post

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"

	"github.com/khoahotran/devconnector/internal/application/service"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type ListPostsUseCase struct {
	postRepo post.Repository
	cache    service.Cache
	logger   logger.Logger
}

func NewListPostsUseCase(pRepo post.Repository, cache service.Cache, log logger.Logger) *ListPostsUseCase {
	return &ListPostsUseCase{
		postRepo: pRepo,
		cache:    cache,
		logger:   log,
	}
}

// Execute returns every post, newest first, reading through the listing cache.
func (uc *ListPostsUseCase) Execute(ctx context.Context) ([]*post.Post, error) {
	ctx, span := tracer.Start(ctx, "ListPosts")
	defer span.End()

	if raw, _ := uc.cache.Get(ctx, service.CacheKeyPosts); raw != nil {
		var cached []*post.Post
		if err := json.Unmarshal(raw, &cached); err == nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return cached, nil
		}
		uc.logger.Warn("Dropping undecodable post listing cache")
	}

	posts, err := uc.Load(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if raw, err := json.Marshal(posts); err == nil {
		_ = uc.cache.Set(ctx, service.CacheKeyPosts, raw)
	}
	return posts, nil
}

// Load bypasses the cache.
func (uc *ListPostsUseCase) Load(ctx context.Context) ([]*post.Post, error) {
	posts, err := uc.postRepo.List(ctx)
	if err != nil {
		return nil, apperror.NewInternal("failed to list posts", err)
	}
	return posts, nil
}
