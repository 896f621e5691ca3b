// Package memory keeps aggregates in process. It backs the "memory" driver and the use case
// tests, and honours the same uniqueness rules as the database adapters.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/user"
)

type UserRepo struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]user.User
	byEmail map[string]uuid.UUID
}

var _ user.Repository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo {
	return &UserRepo{
		byID:    make(map[uuid.UUID]user.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

func (r *UserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := user.NormalizeEmail(u.Email)
	if _, taken := r.byEmail[email]; taken {
		return user.ErrEmailTaken
	}
	stored := *u
	stored.Email = email
	r.byID[u.ID] = stored
	r.byEmail[email] = u.ID
	return nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[user.NormalizeEmail(email)]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u := r.byID[id]
	return &u, nil
}

func (r *UserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[uuid.UUID]*user.User, len(ids))
	for _, id := range ids {
		if u, ok := r.byID[id]; ok {
			out[id] = &u
		}
	}
	return out, nil
}

func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return user.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}
