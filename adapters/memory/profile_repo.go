package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/khoahotran/devconnector/internal/domain/profile"
)

type ProfileRepo struct {
	mu      sync.RWMutex
	byOwner map[uuid.UUID]*profile.Profile
}

var _ profile.Repository = (*ProfileRepo)(nil)

func NewProfileRepo() *ProfileRepo {
	return &ProfileRepo{byOwner: make(map[uuid.UUID]*profile.Profile)}
}

func (r *ProfileRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) (*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byOwner[ownerID]
	if !ok {
		return nil, profile.ErrProfileNotFound
	}
	return p.Clone(), nil
}

// List orders by creation date so reads are stable across calls.
func (r *ProfileRepo) List(_ context.Context) ([]*profile.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*profile.Profile, 0, len(r.byOwner))
	for _, p := range r.byOwner {
		out = append(out, p.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

// Save keeps one profile per owner: a second profile with a different id for the same
// owner is rejected.
func (r *ProfileRepo) Save(_ context.Context, p *profile.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byOwner[p.OwnerID]; ok && existing.ID != p.ID {
		return profile.ErrProfileExists
	}
	r.byOwner[p.OwnerID] = p.Clone()
	return nil
}

func (r *ProfileRepo) DeleteByOwner(_ context.Context, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byOwner[ownerID]; !ok {
		return profile.ErrProfileNotFound
	}
	delete(r.byOwner, ownerID)
	return nil
}
