package bookingRepo

import (
	"context"
	"time"

	"caretrust/models"
)

// BookingRepository reads the booking mirror. Writes only come from the booking event ingest.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// ListByCaregiverInRange returns bookings for caregiverID created in [start, end).
	ListByCaregiverInRange(ctx context.Context, caregiverID string, start, end time.Time) ([]models.Booking, error)
	// Upsert mirrors the latest image of a booking.
	Upsert(ctx context.Context, booking *models.Booking) error
}
