package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"caretrust/database/repository"
	"caretrust/models"
)

type UserRepo struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]models.User)}
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) ListByRole(_ context.Context, role string) ([]models.User, error) {
	return r.filter(func(u models.User) bool { return u.Role == role }), nil
}

func (r *UserRepo) ListActiveByRole(_ context.Context, role string) ([]models.User, error) {
	return r.filter(func(u models.User) bool { return u.Role == role && u.IsActive }), nil
}

func (r *UserRepo) Upsert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	} else if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

// filter returns matches ordered by id so callers see a stable order.
func (r *UserRepo) filter(keep func(models.User) bool) []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.User
	for _, u := range r.users {
		if keep(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
