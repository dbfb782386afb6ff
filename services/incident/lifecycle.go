package incident

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"caretrust/database/repository"
	"caretrust/metrics"
	"caretrust/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor identifies who performed a lifecycle action.
type Actor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (a Actor) label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// ReportInput is a manually filed incident.
type ReportInput struct {
	Type          string    `json:"type" binding:"required"`
	Severity      string    `json:"severity" binding:"required"`
	ReporterID    string    `json:"reporterId"`
	ReporterName  string    `json:"reporterName"`
	ReporterRole  string    `json:"reporterRole"`
	BookingID     string    `json:"bookingId"`
	CaregiverID   string    `json:"caregiverId" binding:"required"`
	CaregiverName string    `json:"caregiverName"`
	ClientID      string    `json:"clientId"`
	ClientName    string    `json:"clientName"`
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	IncidentDate  time.Time `json:"incidentDate"`
	Location      *string   `json:"location"`
	Tags          []string  `json:"tags"`
	Evidence      []string  `json:"evidence"`
}

var allowedTransitions = map[string][]string{
	models.IncidentReported:      {models.IncidentInvestigating, models.IncidentEscalated, models.IncidentResolved, models.IncidentClosed},
	models.IncidentInvestigating: {models.IncidentEscalated, models.IncidentResolved, models.IncidentClosed},
	models.IncidentEscalated:     {models.IncidentInvestigating, models.IncidentResolved, models.IncidentClosed},
	models.IncidentResolved:      {models.IncidentInvestigating, models.IncidentClosed},
	models.IncidentClosed:        {},
}

// CanTransition reports whether an incident in status from may move to status to.
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func validSeverity(s string) bool {
	switch s {
	case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
		return true
	}
	return false
}

// Report files a human-reported incident. Critical incidents are escalated through the
// created event, or inline when the event cannot be published.
func (s *DefaultIncidentService) Report(ctx context.Context, in ReportInput) (*models.Incident, error) {
	if strings.TrimSpace(in.Title) == "" || in.CaregiverID == "" || in.Type == "" {
		return nil, newInputError("type, title and caregiverId are required")
	}
	if !validSeverity(in.Severity) {
		return nil, newInputError(fmt.Sprintf("unknown severity %q", in.Severity))
	}

	number, err := s.Allocator.Next(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	incidentDate := in.IncidentDate
	if incidentDate.IsZero() {
		incidentDate = now
	}
	reporter := in.ReporterName
	if reporter == "" {
		reporter = in.ReporterID
	}

	inc := models.Incident{
		ID:             uuid.New().String(),
		IncidentNumber: number,
		Type:           in.Type,
		Severity:       in.Severity,
		Status:         models.IncidentReported,
		ReporterID:     in.ReporterID,
		ReporterName:   in.ReporterName,
		ReporterRole:   in.ReporterRole,
		BookingID:      in.BookingID,
		CaregiverID:    in.CaregiverID,
		CaregiverName:  in.CaregiverName,
		ClientID:       in.ClientID,
		ClientName:     in.ClientName,
		Title:          in.Title,
		Description:    in.Description,
		IncidentDate:   incidentDate,
		Location:       in.Location,
		Tags:           append([]string{}, in.Tags...),
		Evidence:       append([]string{}, in.Evidence...),
		InvestigationTimeline: []models.TimelineEntry{{
			Action:      "Incident Reported",
			PerformedBy: reporter,
			Timestamp:   now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, &inc); err != nil {
		return nil, fmt.Errorf("failed to persist incident %s: %w", number, err)
	}
	metrics.IncidentsCreated.WithLabelValues("report").Inc()
	s.logger().Info("Incident reported",
		zap.String("incidentNumber", inc.IncidentNumber),
		zap.String("severity", inc.Severity),
		zap.String("caregiverId", inc.CaregiverID),
	)

	published := false
	if s.Events != nil {
		if err := s.Events.PublishIncidentCreated(ctx, inc); err != nil {
			s.logger().Error("Failed to publish incident created event", zap.String("incidentId", inc.ID), zap.Error(err))
		} else {
			published = true
		}
	}
	if inc.Severity != models.SeverityCritical {
		return &inc, nil
	}
	if !published && s.Escalator != nil {
		if _, err := s.Escalator.EscalateCritical(ctx, inc); err != nil {
			s.logger().Error("Inline escalation failed", zap.String("incidentId", inc.ID), zap.Error(err))
		}
	}
	// an inline dispatcher may already have escalated it
	if fresh, err := s.Repo.GetByID(ctx, inc.ID); err == nil {
		return fresh, nil
	}
	return &inc, nil
}

func (s *DefaultIncidentService) Get(ctx context.Context, id string) (*models.Incident, error) {
	inc, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load incident %s: %w", id, err)
	}
	return inc, nil
}

func (s *DefaultIncidentService) Assign(ctx context.Context, id string, actor Actor, assigneeID, assigneeName string) (*models.Incident, error) {
	if assigneeID == "" {
		return nil, newInputError("assigneeId is required")
	}
	return s.mutate(ctx, id, "", func(inc *models.Incident, now time.Time) models.IncidentUpdate {
		label := assigneeName
		if label == "" {
			label = assigneeID
		}
		return models.IncidentUpdate{
			AssignedTo:     &assigneeID,
			AssignedToName: &assigneeName,
			Timeline: &models.TimelineEntry{
				Action:      "Assigned",
				PerformedBy: actor.label(),
				Timestamp:   now,
				Notes:       "Assigned to " + label,
			},
		}
	})
}

func (s *DefaultIncidentService) StartInvestigation(ctx context.Context, id string, actor Actor, notes string) (*models.Incident, error) {
	return s.mutate(ctx, id, models.IncidentInvestigating, func(_ *models.Incident, now time.Time) models.IncidentUpdate {
		return models.IncidentUpdate{
			Timeline: &models.TimelineEntry{Action: "Investigation Started", PerformedBy: actor.label(), Timestamp: now, Notes: notes},
		}
	})
}

func (s *DefaultIncidentService) Escalate(ctx context.Context, id string, actor Actor, reason string) (*models.Incident, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, newInputError("escalation reason is required")
	}
	inc, err := s.mutate(ctx, id, models.IncidentEscalated, func(_ *models.Incident, now time.Time) models.IncidentUpdate {
		by := actor.ID
		return models.IncidentUpdate{
			EscalatedAt:      &now,
			EscalatedBy:      &by,
			EscalationReason: &reason,
			Timeline:         &models.TimelineEntry{Action: "Escalated", PerformedBy: actor.label(), Timestamp: now, Notes: reason},
		}
	})
	if err == nil {
		metrics.Escalations.WithLabelValues("manual").Inc()
	}
	return inc, err
}

func (s *DefaultIncidentService) Resolve(ctx context.Context, id string, actor Actor, resolution string) (*models.Incident, error) {
	if strings.TrimSpace(resolution) == "" {
		return nil, newInputError("resolution is required")
	}
	return s.mutate(ctx, id, models.IncidentResolved, func(_ *models.Incident, now time.Time) models.IncidentUpdate {
		by := actor.ID
		return models.IncidentUpdate{
			Resolution: &resolution,
			ResolvedAt: &now,
			ResolvedBy: &by,
			Timeline:   &models.TimelineEntry{Action: "Resolved", PerformedBy: actor.label(), Timestamp: now, Notes: resolution},
		}
	})
}

func (s *DefaultIncidentService) Close(ctx context.Context, id string, actor Actor, notes string) (*models.Incident, error) {
	return s.mutate(ctx, id, models.IncidentClosed, func(_ *models.Incident, now time.Time) models.IncidentUpdate {
		return models.IncidentUpdate{
			ClosedAt: &now,
			Timeline: &models.TimelineEntry{Action: "Closed", PerformedBy: actor.label(), Timestamp: now, Notes: notes},
		}
	})
}

func (s *DefaultIncidentService) AddNote(ctx context.Context, id string, actor Actor, notes string) (*models.Incident, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, newInputError("note text is required")
	}
	return s.mutate(ctx, id, "", func(_ *models.Incident, now time.Time) models.IncidentUpdate {
		return models.IncidentUpdate{
			Timeline: &models.TimelineEntry{Action: "Note Added", PerformedBy: actor.label(), Timestamp: now, Notes: notes},
		}
	})
}

// mutate loads the incident, checks the move to status (empty keeps the current status,
// but closed incidents still reject it), writes the patch and returns the patched incident.
func (s *DefaultIncidentService) mutate(
	ctx context.Context,
	id, status string,
	build func(inc *models.Incident, now time.Time) models.IncidentUpdate,
) (*models.Incident, error) {
	inc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if status == "" {
		if inc.Status == models.IncidentClosed {
			return nil, &IncidentError{Code: "incidentClosed", Message: "incident " + inc.IncidentNumber + " is closed", Err: ErrInvalidTransition}
		}
	} else if !CanTransition(inc.Status, status) {
		return nil, newTransitionError(inc.Status, status)
	}

	now := s.now()
	update := build(inc, now)
	if status != "" {
		update.Status = &status
	}
	update.UpdatedAt = now

	if err := s.Repo.Update(ctx, id, update); err != nil {
		return nil, fmt.Errorf("failed to update incident %s: %w", id, err)
	}
	update.Apply(inc)

	s.logger().Info("Incident updated",
		zap.String("incidentNumber", inc.IncidentNumber),
		zap.String("status", inc.Status),
	)
	return inc, nil
}
