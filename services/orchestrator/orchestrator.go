package orchestrator

import (
	"context"
	"time"

	userRepo "caretrust/database/repository/user"
	"caretrust/models"
	"caretrust/services/quality"

	"go.uber.org/zap"
)

// MetricsCalculator is the part of the quality service a batch run drives.
type MetricsCalculator interface {
	CalculateCaregiverMetrics(ctx context.Context, caregiverID string, window quality.Window) (*models.QualityMetrics, error)
	CalculatePlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error)
}

const (
	defaultWorkers     = 16
	defaultTaskTimeout = 30 * time.Second
)

// Orchestrator runs caregiver metric computations, either for every active caregiver
// on a schedule or for one caregiver after a booking completes.
type Orchestrator struct {
	Users       userRepo.UserRepository
	Quality     MetricsCalculator
	Logger      *zap.Logger
	Now         func() time.Time
	WindowDays  int
	MaxWorkers  int
	TaskTimeout time.Duration
}

func NewOrchestrator(users userRepo.UserRepository, calc MetricsCalculator, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		Users:       users,
		Quality:     calc,
		Logger:      logger,
		Now:         time.Now,
		WindowDays:  quality.DefaultWindowDays,
		MaxWorkers:  defaultWorkers,
		TaskTimeout: defaultTaskTimeout,
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now().UTC()
	}
	return o.Now().UTC()
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Orchestrator) workers() int {
	if o.MaxWorkers <= 0 {
		return defaultWorkers
	}
	return o.MaxWorkers
}

func (o *Orchestrator) taskTimeout() time.Duration {
	if o.TaskTimeout <= 0 {
		return defaultTaskTimeout
	}
	return o.TaskTimeout
}
