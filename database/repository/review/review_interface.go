package reviewRepo

import (
	"context"
	"time"

	"caretrust/models"
)

type ReviewRepository interface {
	// Create inserts a review; a review with an existing id yields repository.ErrDuplicate.
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	// ListByRevieweeInRange returns reviews of revieweeID created in [start, end).
	ListByRevieweeInRange(ctx context.Context, revieweeID string, start, end time.Time) ([]models.Review, error)
}
