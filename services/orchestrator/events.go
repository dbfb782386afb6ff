package orchestrator

import (
	"context"
	"fmt"

	"caretrust/models"
	"caretrust/services/quality"

	"go.uber.org/zap"
)

// OnBookingUpdated recomputes the booking's caregiver when the booking has just moved
// into completed. Any other change returns (nil, nil).
func (o *Orchestrator) OnBookingUpdated(ctx context.Context, before, after models.Booking) (*models.QualityMetrics, error) {
	if before.Status == models.BookingCompleted || after.Status != models.BookingCompleted {
		return nil, nil
	}
	if after.CaregiverID == "" {
		return nil, fmt.Errorf("booking %s has no caregiver", after.ID)
	}

	transitionAt := after.UpdatedAt
	if transitionAt.IsZero() {
		transitionAt = o.now()
	}
	m, err := o.Quality.CalculateCaregiverMetrics(ctx, after.CaregiverID, quality.WindowEnding(transitionAt, o.WindowDays))
	if err != nil {
		o.logger().Error("Error updating metrics on booking completion",
			zap.String("bookingId", after.ID), zap.String("caregiverId", after.CaregiverID), zap.Error(err))
		return nil, err
	}
	o.logger().Info("Metrics updated after booking completion",
		zap.String("bookingId", after.ID), zap.String("caregiverId", after.CaregiverID))
	return m, nil
}

// RecomputeCaregiver recomputes one caregiver over the window ending now.
func (o *Orchestrator) RecomputeCaregiver(ctx context.Context, caregiverID string) (*models.QualityMetrics, error) {
	return o.Quality.CalculateCaregiverMetrics(ctx, caregiverID, quality.WindowEnding(o.now(), o.WindowDays))
}
