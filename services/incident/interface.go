package incident

import (
	"context"
	"time"

	incidentRepo "caretrust/database/repository/incident"
	"caretrust/models"
	"caretrust/services/escalation"

	"go.uber.org/zap"
)

// IncidentService opens incidents and moves them through their lifecycle.
type IncidentService interface {
	CreateFromReview(ctx context.Context, review models.Review) (*models.Incident, error)
	Report(ctx context.Context, in ReportInput) (*models.Incident, error)
	Get(ctx context.Context, id string) (*models.Incident, error)
	Assign(ctx context.Context, id string, actor Actor, assigneeID, assigneeName string) (*models.Incident, error)
	StartInvestigation(ctx context.Context, id string, actor Actor, notes string) (*models.Incident, error)
	Escalate(ctx context.Context, id string, actor Actor, reason string) (*models.Incident, error)
	Resolve(ctx context.Context, id string, actor Actor, resolution string) (*models.Incident, error)
	Close(ctx context.Context, id string, actor Actor, notes string) (*models.Incident, error)
	AddNote(ctx context.Context, id string, actor Actor, notes string) (*models.Incident, error)
}

// LowRatingNotifier is the slice of the escalation service the factory needs.
type LowRatingNotifier interface {
	NotifyLowRating(ctx context.Context, incident models.Incident, review models.Review) (*escalation.FanOutResult, error)
}

// CriticalEscalator runs critical escalation inline when the created event cannot be published.
type CriticalEscalator interface {
	EscalateCritical(ctx context.Context, incident models.Incident) (*escalation.FanOutResult, error)
}

// EventPublisher announces newly stored incidents to downstream triggers.
type EventPublisher interface {
	PublishIncidentCreated(ctx context.Context, incident models.Incident) error
}

// DefaultIncidentService implements IncidentService.
type DefaultIncidentService struct {
	Repo      incidentRepo.IncidentRepository
	Allocator *IdentifierAllocator
	Notifier  LowRatingNotifier
	Escalator CriticalEscalator
	Events    EventPublisher
	Logger    *zap.Logger
	Now       func() time.Time
}

func NewDefaultIncidentService(
	repo incidentRepo.IncidentRepository,
	allocator *IdentifierAllocator,
	notifier *escalation.DefaultEscalationService,
	events EventPublisher,
	logger *zap.Logger,
) *DefaultIncidentService {
	svc := &DefaultIncidentService{
		Repo:      repo,
		Allocator: allocator,
		Events:    events,
		Logger:    logger,
		Now:       time.Now,
	}
	if notifier != nil {
		svc.Notifier = notifier
		svc.Escalator = notifier
	}
	return svc
}

func (s *DefaultIncidentService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *DefaultIncidentService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
