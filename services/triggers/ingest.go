package triggers

import (
	"context"
	"errors"
	"fmt"
	"math"

	"caretrust/database/repository"
	"caretrust/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidEvent marks an ingest payload that can never be processed.
var ErrInvalidEvent = errors.New("invalid event")

// IngestReview stores a review and queues review:created. Re-ingesting a stored review
// queues the event again and returns the stored copy.
func (t *Triggers) IngestReview(ctx context.Context, review models.Review) (*models.Review, error) {
	if review.RevieweeID == "" {
		return nil, fmt.Errorf("%w: revieweeId is required", ErrInvalidEvent)
	}
	if math.IsNaN(review.Rating) || review.Rating < 0 || review.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidEvent)
	}
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = t.now()
	}

	stored := &review
	if err := t.Reviews.Create(ctx, &review); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("failed to store review %s: %w", review.ID, err)
		}
		existing, err := t.Reviews.GetByID(ctx, review.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load review %s: %w", review.ID, err)
		}
		stored = existing
	}

	if err := t.Events.PublishReviewCreated(ctx, *stored); err != nil {
		t.logger().Error("Failed to publish review created event", zap.String("reviewId", stored.ID), zap.Error(err))
		return stored, err
	}
	return stored, nil
}

// IngestBookingUpdate mirrors the new booking image and queues booking:updated with the
// previously stored image as the before state.
func (t *Triggers) IngestBookingUpdate(ctx context.Context, after models.Booking) error {
	if after.ID == "" || after.Status == "" {
		return fmt.Errorf("%w: booking id and status are required", ErrInvalidEvent)
	}
	if after.UpdatedAt.IsZero() {
		after.UpdatedAt = t.now()
	}

	var before models.Booking
	prev, err := t.Bookings.GetByID(ctx, after.ID)
	switch {
	case err == nil:
		before = *prev
	case errors.Is(err, repository.ErrNotFound):
	default:
		return fmt.Errorf("failed to load booking %s: %w", after.ID, err)
	}

	if err := t.Bookings.Upsert(ctx, &after); err != nil {
		return fmt.Errorf("failed to store booking %s: %w", after.ID, err)
	}
	return t.Events.PublishBookingUpdated(ctx, before, after)
}
