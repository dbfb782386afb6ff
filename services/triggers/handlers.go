package triggers

import (
	"context"
	"errors"
	"fmt"

	"caretrust/models"
	"caretrust/services/escalation"
	"caretrust/services/orchestrator"

	"go.uber.org/zap"
)

// OnReviewCreated opens an incident for a low-rated review.
func (t *Triggers) OnReviewCreated(ctx context.Context, review models.Review) (*models.Incident, error) {
	inc, err := t.IncidentSvc.CreateFromReview(ctx, review)
	if err != nil {
		t.logger().Error("Error processing review",
			zap.String("reviewId", review.ID), zap.Error(err))
		return nil, err
	}
	return inc, nil
}

// OnIncidentCreated escalates a critical incident unless a previous delivery already did.
func (t *Triggers) OnIncidentCreated(ctx context.Context, event models.Incident) (*escalation.FanOutResult, error) {
	if event.ID == "" {
		return nil, errors.New("incident event has no id")
	}
	current, err := t.Incidents.GetByID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load incident %s: %w", event.ID, err)
	}
	if current.AutoEscalated {
		t.logger().Info("Incident already escalated", zap.String("incidentNumber", current.IncidentNumber))
		return &escalation.FanOutResult{Skipped: true}, nil
	}
	return t.Escalation.EscalateCritical(ctx, *current)
}

func (t *Triggers) OnBookingUpdated(ctx context.Context, before, after models.Booking) (*models.QualityMetrics, error) {
	return t.Orchestrator.OnBookingUpdated(ctx, before, after)
}

func (t *Triggers) OnScheduledMetrics(ctx context.Context) (*orchestrator.BatchReport, error) {
	report, err := t.Orchestrator.RunScheduled(ctx)
	if err != nil {
		t.logger().Error("Scheduled metrics run failed", zap.Error(err))
		return nil, err
	}
	return report, nil
}

func (t *Triggers) OnRecompute(ctx context.Context, caregiverID string) (*models.QualityMetrics, error) {
	if caregiverID == "" {
		return nil, errors.New("caregiver id is required")
	}
	return t.Orchestrator.RecomputeCaregiver(ctx, caregiverID)
}
