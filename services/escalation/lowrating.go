package escalation

import (
	"context"
	"errors"
	"fmt"

	"caretrust/database/repository"
	"caretrust/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lowRatingSubjectMessage = "A low rating has triggered an automatic quality review. Please review the feedback."

// NotifyLowRating tells the rated caregiver and every admin about an incident opened
// from a low review. All notifications go out in one settle-all batch.
func (s *DefaultEscalationService) NotifyLowRating(ctx context.Context, incident models.Incident, review models.Review) (*FanOutResult, error) {
	if incident.ID == "" {
		return nil, errors.New("escalation: incident id is required")
	}
	result := &FanOutResult{}
	now := s.now()
	logger := s.logger().With(zap.String("incidentId", incident.ID))

	// the caregiver is notified even when their account cannot be loaded; only the push is lost
	subject := recipient{UserID: incident.CaregiverID, Subject: true}
	u, err := s.Users.GetByID(ctx, incident.CaregiverID)
	switch {
	case err == nil:
		subject.Token = u.FCMToken
		result.record(StepResolveSubject, nil)
	case errors.Is(err, repository.ErrNotFound):
		result.record(StepResolveSubject, nil)
	default:
		result.record(StepResolveSubject, err)
		logger.Warn("Caregiver lookup failed", zap.String("caregiverId", incident.CaregiverID), zap.Error(err))
	}

	var admins []recipient
	adminUsers, err := s.Users.ListByRole(ctx, models.RoleAdmin)
	result.record(StepResolveAdmins, err)
	if err != nil {
		logger.Error("Admin lookup failed", zap.Error(err))
	} else {
		admins = recipientsFromUsers(adminUsers)
	}

	adminMessage := fmt.Sprintf("%s received a %.1f star rating. Incident %s created.",
		review.RevieweeName, review.Rating, incident.IncidentNumber)

	recipients := append([]recipient{subject}, admins...)
	s.fanOut(ctx, recipients, func(r recipient) models.Notification {
		n := models.Notification{
			ID:        uuid.New().String(),
			UserID:    r.UserID,
			RelatedID: incident.ID,
			Priority:  models.PriorityMedium,
			CreatedAt: now,
		}
		if r.Subject {
			n.Title = "Low Rating Received"
			n.Message = lowRatingSubjectMessage
			n.Type = models.NotificationIncidentCreated
		} else {
			n.Title = "Low Rating Alert"
			n.Message = adminMessage
			n.Type = models.NotificationLowRatingAlert
		}
		return n
	}, result)

	logger.Info("Low rating notifications sent",
		zap.Int("attempted", result.Attempted),
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
