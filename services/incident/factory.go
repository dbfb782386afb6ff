package incident

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caretrust/database/repository"
	"caretrust/metrics"
	"caretrust/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// LowRatingThreshold is the highest rating that still opens an incident.
	LowRatingThreshold = 2.0
	highSeverityRating = 1.5
)

// Synthetic reporter used for generated incidents.
const (
	SystemReporterID   = "system"
	SystemReporterName = "Automated System"
	SystemReporterRole = "system"
)

var autoTags = []string{"low-rating", "auto-generated", "service-quality"}

func QualifiesForIncident(review models.Review) bool {
	return review.Rating <= LowRatingThreshold
}

func SeverityForRating(rating float64) string {
	if rating <= highSeverityRating {
		return models.SeverityHigh
	}
	return models.SeverityMedium
}

// BuildFromReview assembles the incident a low review generates. It does not persist anything.
func BuildFromReview(review models.Review, number string, now time.Time) models.Incident {
	comment := review.Comment
	if comment == "" {
		comment = "No comment provided"
	}

	return models.Incident{
		ID:             uuid.New().String(),
		IncidentNumber: number,
		Type:           models.IncidentTypeServiceQuality,
		Severity:       SeverityForRating(review.Rating),
		Status:         models.IncidentReported,
		ReporterID:     SystemReporterID,
		ReporterName:   SystemReporterName,
		ReporterRole:   SystemReporterRole,
		BookingID:      review.BookingID,
		SourceReviewID: review.ID,
		CaregiverID:    review.RevieweeID,
		CaregiverName:  review.RevieweeName,
		ClientID:       review.ReviewerID,
		ClientName:     review.ReviewerName,
		Title:          fmt.Sprintf("Low Rating Alert: %.1f stars", review.Rating),
		Description: fmt.Sprintf(
			"Automatically generated incident due to low rating (%.1f/5.0).\n\nReview Comment: %s",
			review.Rating, comment,
		),
		IncidentDate: review.CreatedAt,
		Tags:         append([]string(nil), autoTags...),
		Evidence:     []string{},
		InvestigationTimeline: []models.TimelineEntry{{
			Action:      "Incident Created",
			PerformedBy: "System",
			Timestamp:   now,
			Notes:       "Auto-generated from low rating review",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateFromReview opens an incident for a qualifying review and notifies the caregiver
// and admins. Non-qualifying reviews return (nil, nil). A review that already produced an
// incident returns that incident without notifying again.
func (s *DefaultIncidentService) CreateFromReview(ctx context.Context, review models.Review) (*models.Incident, error) {
	if !QualifiesForIncident(review) {
		return nil, nil
	}
	logger := s.logger().With(zap.String("reviewId", review.ID), zap.Float64("rating", review.Rating))

	if review.ID != "" {
		existing, err := s.Repo.GetBySourceReview(ctx, review.ID)
		if err == nil {
			logger.Info("Incident already exists for review", zap.String("incidentNumber", existing.IncidentNumber))
			return existing, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to check existing incident: %w", err)
		}
	}

	number, err := s.Allocator.Next(ctx)
	if err != nil {
		logger.Error("Incident number allocation failed", zap.Error(err))
		return nil, err
	}

	inc := BuildFromReview(review, number, s.now())
	if err := s.Repo.Create(ctx, &inc); err != nil {
		if errors.Is(err, repository.ErrDuplicate) && review.ID != "" {
			// a concurrent delivery of the same review won the insert
			if existing, getErr := s.Repo.GetBySourceReview(ctx, review.ID); getErr == nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("failed to persist incident %s: %w", number, err)
	}
	metrics.IncidentsCreated.WithLabelValues("review").Inc()
	logger.Info("Low rating incident created", zap.String("incidentNumber", inc.IncidentNumber), zap.String("severity", inc.Severity))

	s.publishCreated(ctx, inc)

	if s.Notifier != nil {
		result, err := s.Notifier.NotifyLowRating(ctx, inc, review)
		if err != nil {
			logger.Warn("Low rating notification skipped", zap.Error(err))
		} else {
			logger.Info("Low rating notifications settled",
				zap.Int("attempted", result.Attempted),
				zap.Int("delivered", result.Delivered),
				zap.Int("failed", result.Failed),
			)
		}
	}
	return &inc, nil
}

func (s *DefaultIncidentService) publishCreated(ctx context.Context, inc models.Incident) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishIncidentCreated(ctx, inc); err != nil {
		s.logger().Error("Failed to publish incident created event",
			zap.String("incidentId", inc.ID), zap.Error(err))
	}
}
