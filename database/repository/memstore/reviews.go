package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"caretrust/database/repository"
	"caretrust/models"

	"github.com/google/uuid"
)

type ReviewRepo struct {
	mu      sync.RWMutex
	reviews map[string]models.Review
}

func NewReviewRepo() *ReviewRepo {
	return &ReviewRepo{reviews: make(map[string]models.Review)}
}

func (r *ReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if _, exists := r.reviews[review.ID]; exists {
		return repository.ErrDuplicate
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	r.reviews[review.ID] = *review
	return nil
}

func (r *ReviewRepo) GetByID(_ context.Context, id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rv, ok := r.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &rv, nil
}

func (r *ReviewRepo) ListByRevieweeInRange(_ context.Context, revieweeID string, start, end time.Time) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Review
	for _, rv := range r.reviews {
		if rv.RevieweeID == revieweeID && inRange(rv.CreatedAt, start, end) {
			out = append(out, rv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}
