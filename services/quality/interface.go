package quality

import (
	"context"
	"time"

	bookingRepo "caretrust/database/repository/booking"
	incidentRepo "caretrust/database/repository/incident"
	metricsRepo "caretrust/database/repository/metrics"
	rankingRepo "caretrust/database/repository/ranking"
	reviewRepo "caretrust/database/repository/review"
	"caretrust/models"

	"go.uber.org/zap"
)

// QualityService computes and serves caregiver and platform quality snapshots.
type QualityService interface {
	CalculateCaregiverMetrics(ctx context.Context, caregiverID string, window Window) (*models.QualityMetrics, error)
	CalculatePlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error)
	LatestForCaregiver(ctx context.Context, caregiverID string) (*models.QualityMetrics, error)
	LatestPlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error)
	Leaderboard(ctx context.Context, n int) ([]rankingRepo.Entry, error)
}

const DefaultSnapshotLimit = 1000

// DefaultQualityService implements QualityService.
type DefaultQualityService struct {
	Bookings      bookingRepo.BookingRepository
	Reviews       reviewRepo.ReviewRepository
	Incidents     incidentRepo.IncidentRepository
	Metrics       metricsRepo.MetricsRepository
	Ranking       rankingRepo.Ranking
	Logger        *zap.Logger
	Now           func() time.Time
	SnapshotLimit int
}

func NewDefaultQualityService(
	bookings bookingRepo.BookingRepository,
	reviews reviewRepo.ReviewRepository,
	incidents incidentRepo.IncidentRepository,
	metrics metricsRepo.MetricsRepository,
	ranking rankingRepo.Ranking,
	logger *zap.Logger,
) *DefaultQualityService {
	return &DefaultQualityService{
		Bookings:      bookings,
		Reviews:       reviews,
		Incidents:     incidents,
		Metrics:       metrics,
		Ranking:       ranking,
		Logger:        logger,
		Now:           time.Now,
		SnapshotLimit: DefaultSnapshotLimit,
	}
}

func (s *DefaultQualityService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *DefaultQualityService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
