package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/post"
)

type PostRepo struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*post.Post
}

var _ post.Repository = (*PostRepo)(nil)

func NewPostRepo() *PostRepo {
	return &PostRepo{posts: make(map[uuid.UUID]*post.Post)}
}

func (r *PostRepo) Save(_ context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = p.Clone()
	return nil
}

func (r *PostRepo) Replace(_ context.Context, p *post.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[p.ID]; !ok {
		return post.ErrPostNotFound
	}
	r.posts[p.ID] = p.Clone()
	return nil
}

func (r *PostRepo) FindByID(_ context.Context, id uuid.UUID) (*post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, post.ErrPostNotFound
	}
	return p.Clone(), nil
}

func (r *PostRepo) List(_ context.Context) ([]*post.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*post.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *PostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return post.ErrPostNotFound
	}
	delete(r.posts, id)
	return nil
}
