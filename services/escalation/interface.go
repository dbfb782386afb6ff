package escalation

import (
	"context"
	"time"

	incidentRepo "caretrust/database/repository/incident"
	notificationRepo "caretrust/database/repository/notification"
	userRepo "caretrust/database/repository/user"
	"caretrust/models"

	"go.uber.org/zap"
)

// EscalationService fans incident notifications out to the people who must see them.
// Both modes are best-effort and report outcomes instead of failing.
type EscalationService interface {
	EscalateCritical(ctx context.Context, incident models.Incident) (*FanOutResult, error)
	NotifyLowRating(ctx context.Context, incident models.Incident, review models.Review) (*FanOutResult, error)
}

const defaultMaxConcurrency = 8

// DefaultEscalationService implements EscalationService.
type DefaultEscalationService struct {
	Users          userRepo.UserRepository
	Incidents      incidentRepo.IncidentRepository
	Notifications  notificationRepo.NotificationRepository
	Pusher         Pusher
	Logger         *zap.Logger
	Now            func() time.Time
	MaxConcurrency int
}

func NewDefaultEscalationService(
	users userRepo.UserRepository,
	incidents incidentRepo.IncidentRepository,
	notifications notificationRepo.NotificationRepository,
	pusher Pusher,
	logger *zap.Logger,
) *DefaultEscalationService {
	if pusher == nil {
		pusher = NopPusher{}
	}
	return &DefaultEscalationService{
		Users:          users,
		Incidents:      incidents,
		Notifications:  notifications,
		Pusher:         pusher,
		Logger:         logger,
		Now:            time.Now,
		MaxConcurrency: defaultMaxConcurrency,
	}
}

func (s *DefaultEscalationService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *DefaultEscalationService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultEscalationService) maxConcurrency() int {
	if s.MaxConcurrency <= 0 {
		return defaultMaxConcurrency
	}
	return s.MaxConcurrency
}
