// Package triggers reacts to review, incident and booking events. Every handler is safe
// to run more than once for the same event.
package triggers

import (
	"context"
	"time"

	bookingRepo "caretrust/database/repository/booking"
	incidentRepo "caretrust/database/repository/incident"
	reviewRepo "caretrust/database/repository/review"
	"caretrust/models"
	"caretrust/services/escalation"
	"caretrust/services/incident"
	"caretrust/services/orchestrator"

	"go.uber.org/zap"
)

// EventSink queues follow-up work. tasks.Publisher implements it.
type EventSink interface {
	PublishReviewCreated(ctx context.Context, review models.Review) error
	PublishBookingUpdated(ctx context.Context, before, after models.Booking) error
	RequestRecompute(ctx context.Context, caregiverID string) error
	RequestScheduledRun(ctx context.Context) error
}

type Triggers struct {
	Reviews      reviewRepo.ReviewRepository
	Bookings     bookingRepo.BookingRepository
	Incidents    incidentRepo.IncidentRepository
	IncidentSvc  incident.IncidentService
	Escalation   escalation.EscalationService
	Orchestrator *orchestrator.Orchestrator
	Events       EventSink
	Logger       *zap.Logger
	Now          func() time.Time
}

func (t *Triggers) now() time.Time {
	if t.Now == nil {
		return time.Now().UTC()
	}
	return t.Now().UTC()
}

func (t *Triggers) logger() *zap.Logger {
	if t.Logger == nil {
		return zap.NewNop()
	}
	return t.Logger
}
