package feed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/adapters/event"
	"github.com/khoahotran/devconnector/adapters/memory"
	"github.com/khoahotran/devconnector/internal/application/service"
	postUC "github.com/khoahotran/devconnector/internal/application/usecase/post"
	profileUC "github.com/khoahotran/devconnector/internal/application/usecase/profile"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func TestWarmCache(t *testing.T) {
	ctx := context.Background()
	log := logger.NewNop()
	users := memory.NewUserRepo()
	posts := memory.NewPostRepo()
	profiles := memory.NewProfileRepo()
	cache := memory.NewCache()

	ann := &user.User{ID: uuid.New(), Name: "Ann", Email: "ann@x.com"}
	require.NoError(t, users.Create(ctx, ann))
	require.NoError(t, profiles.Save(ctx, profile.New(ann.ID, profile.Fields{Status: "Developer"}, time.Now())))
	p, err := post.New(ann.ID, ann.Name, "", "hello", time.Now())
	require.NoError(t, err)
	require.NoError(t, posts.Save(ctx, p))

	uc := NewWarmCacheUseCase(
		postUC.NewListPostsUseCase(posts, cache, log),
		profileUC.NewProfileUseCase(profiles, users, cache, event.NewNopPublisher(log), log),
		cache, log,
	)

	require.NoError(t, uc.HandlePostEvent(ctx, service.PostEventPayload{EventType: service.PostEventTypeCreated, PostID: p.ID}))
	raw, _ := cache.Get(ctx, service.CacheKeyPosts)
	var cachedPosts []post.Post
	require.NoError(t, json.Unmarshal(raw, &cachedPosts))
	require.Len(t, cachedPosts, 1)
	assert.Equal(t, p.ID, cachedPosts[0].ID)

	require.NoError(t, uc.HandleUserEvent(ctx, service.UserEventPayload{EventType: service.UserEventTypeRegistered, UserID: ann.ID}))
	raw, _ = cache.Get(ctx, service.CacheKeyProfiles)
	var cachedProfiles []profileUC.ProfileView
	require.NoError(t, json.Unmarshal(raw, &cachedProfiles))
	require.Len(t, cachedProfiles, 1)
	assert.Equal(t, "Ann", cachedProfiles[0].User.Name)
}
