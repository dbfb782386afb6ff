package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"caretrust/database/repository"
	"caretrust/models"
)

type BookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *BookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *BookingRepo) ListByCaregiverInRange(_ context.Context, caregiverID string, start, end time.Time) ([]models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Booking
	for _, b := range r.bookings {
		if b.CaregiverID == caregiverID && inRange(b.CreatedAt, start, end) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *BookingRepo) Upsert(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bookings[booking.ID] = *booking
	return nil
}

// inRange reports t in [start, end).
func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
