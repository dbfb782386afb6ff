package escalation

import (
	"context"
	"errors"

	"caretrust/metrics"
	"caretrust/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const AutoEscalationReason = "Automatically escalated due to critical severity"

// EscalateCritical alerts admins about a critical incident. It runs three steps in
// order: store an urgent admin alert, flag the incident as auto-escalated, notify every
// admin. A failed step is recorded and the next step still runs; the flag is never
// rolled back by a failed fan-out. Non-critical incidents are skipped.
func (s *DefaultEscalationService) EscalateCritical(ctx context.Context, incident models.Incident) (*FanOutResult, error) {
	if incident.ID == "" {
		return nil, errors.New("escalation: incident id is required")
	}
	result := &FanOutResult{}
	if incident.Severity != models.SeverityCritical {
		result.Skipped = true
		return result, nil
	}
	logger := s.logger().With(zap.String("incidentId", incident.ID), zap.String("incidentNumber", incident.IncidentNumber))
	now := s.now()

	alert := models.AdminAlert{
		ID:             uuid.New().String(),
		Type:           models.NotificationCriticalIncident,
		Title:          "Critical Incident: " + incident.IncidentNumber,
		Message:        "A critical incident has been reported: " + incident.Title,
		IncidentID:     incident.ID,
		IncidentNumber: incident.IncidentNumber,
		Severity:       incident.Severity,
		ReporterID:     incident.ReporterID,
		ReporterName:   incident.ReporterName,
		Priority:       models.PriorityUrgent,
		IsRead:         false,
		CreatedAt:      now,
	}
	err := s.Notifications.CreateAdminAlert(ctx, &alert)
	result.record(StepAdminAlert, err)
	if err != nil {
		logger.Error("Admin alert write failed", zap.Error(err))
	}

	flagged := true
	reason := AutoEscalationReason
	err = s.Incidents.Update(ctx, incident.ID, models.IncidentUpdate{
		AutoEscalated:    &flagged,
		EscalatedAt:      &now,
		EscalationReason: &reason,
		UpdatedAt:        now,
	})
	result.record(StepEscalationFlag, err)
	if err != nil {
		logger.Error("Escalation flag update failed", zap.Error(err))
	}

	admins, err := s.Users.ListByRole(ctx, models.RoleAdmin)
	result.record(StepResolveAdmins, err)
	if err != nil {
		logger.Error("Admin lookup failed", zap.Error(err))
	} else {
		s.fanOut(ctx, recipientsFromUsers(admins), func(r recipient) models.Notification {
			return models.Notification{
				ID:        uuid.New().String(),
				UserID:    r.UserID,
				Title:     "🚨 Critical Incident Alert",
				Message:   incident.IncidentNumber + ": " + incident.Title,
				Type:      models.NotificationCriticalIncident,
				RelatedID: incident.ID,
				Priority:  models.PriorityHigh,
				CreatedAt: now,
			}
		}, result)
	}

	metrics.Escalations.WithLabelValues("auto").Inc()
	logger.Info("Critical incident escalated",
		zap.Int("attempted", result.Attempted),
		zap.Int("delivered", result.Delivered),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}
