package incidentRepo

import (
	"context"
	"time"

	"caretrust/models"
)

// IncidentRepository stores incidents. Incidents are never deleted.
type IncidentRepository interface {
	// Create inserts a new incident. A second incident for the same source review
	// yields repository.ErrDuplicate.
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	// GetBySourceReview returns the incident generated from reviewID, or repository.ErrNotFound.
	GetBySourceReview(ctx context.Context, reviewID string) (*models.Incident, error)
	// Latest returns the most recently created incident, or repository.ErrNotFound when there are none.
	Latest(ctx context.Context) (*models.Incident, error)
	// ListByCaregiverInRange returns incidents about caregiverID created in [start, end).
	ListByCaregiverInRange(ctx context.Context, caregiverID string, start, end time.Time) ([]models.Incident, error)
	// Update applies a field-level patch, appending the timeline entry if present.
	Update(ctx context.Context, id string, update models.IncidentUpdate) error
}
