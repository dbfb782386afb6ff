package quality

import (
	"context"
	"fmt"

	rankingRepo "caretrust/database/repository/ranking"
	"caretrust/metrics"
	"caretrust/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// CalculateCaregiverMetrics fetches the caregiver's records for window, derives a new
// snapshot, stores it and updates the leaderboard. Any fetch failure aborts this
// caregiver only.
func (s *DefaultQualityService) CalculateCaregiverMetrics(ctx context.Context, caregiverID string, window Window) (*models.QualityMetrics, error) {
	if caregiverID == "" {
		return nil, fmt.Errorf("caregiver id is required")
	}
	if err := window.Validate(); err != nil {
		return nil, err
	}
	logger := s.logger().With(zap.String("caregiverId", caregiverID))

	var (
		bookings  []models.Booking
		reviews   []models.Review
		incidents []models.Incident
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if bookings, err = s.Bookings.ListByCaregiverInRange(gctx, caregiverID, window.Start, window.End); err != nil {
			return fmt.Errorf("fetch bookings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if reviews, err = s.Reviews.ListByRevieweeInRange(gctx, caregiverID, window.Start, window.End); err != nil {
			return fmt.Errorf("fetch reviews: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if incidents, err = s.Incidents.ListByCaregiverInRange(gctx, caregiverID, window.Start, window.End); err != nil {
			return fmt.Errorf("fetch incidents: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.MetricsComputations.WithLabelValues("failed").Inc()
		logger.Warn("Quality metrics fetch failed", zap.Error(err))
		return nil, fmt.Errorf("caregiver %s: %w", caregiverID, err)
	}

	// a caller that gave up must not find a late snapshot in the rollup
	if err := ctx.Err(); err != nil {
		metrics.MetricsComputations.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("caregiver %s: %w", caregiverID, err)
	}

	snapshot := ComputeMetrics(caregiverID, window, bookings, reviews, incidents, s.now())
	snapshot.ID = uuid.New().String()
	if err := s.Metrics.SaveQualityMetrics(ctx, &snapshot); err != nil {
		metrics.MetricsComputations.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("caregiver %s: %w", caregiverID, err)
	}
	metrics.MetricsComputations.WithLabelValues("succeeded").Inc()

	if s.Ranking != nil {
		if err := s.Ranking.Record(ctx, caregiverID, snapshot.QualityScore); err != nil {
			logger.Warn("Leaderboard update failed", zap.Error(err))
		}
	}

	logger.Debug("Quality metrics calculated",
		zap.Float64("qualityScore", snapshot.QualityScore),
		zap.String("tier", snapshot.PerformanceTier),
		zap.Bool("needsAttention", snapshot.NeedsAttention),
	)
	return &snapshot, nil
}

// CalculatePlatformMetrics rolls the newest snapshot of each caregiver, taken from the
// most recent SnapshotLimit snapshots, into a platform record. With no snapshots it
// writes nothing and returns (nil, nil).
func (s *DefaultQualityService) CalculatePlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error) {
	limit := s.SnapshotLimit
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}
	recent, err := s.Metrics.LatestQualityMetrics(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load quality snapshots: %w", err)
	}

	pm, ok := Rollup(LatestPerCaregiver(recent), s.now())
	if !ok {
		s.logger().Info("No quality snapshots to roll up")
		return nil, nil
	}
	pm.ID = uuid.New().String()
	pm.SnapshotsConsidered = len(recent)

	if err := s.Metrics.SavePlatformMetrics(ctx, pm); err != nil {
		return nil, err
	}
	metrics.PlatformQualityScore.Set(pm.AverageQualityScore)

	s.logger().Info("Platform metrics calculated",
		zap.Int("caregivers", pm.TotalCaregivers),
		zap.Int("snapshots", pm.SnapshotsConsidered),
		zap.Float64("averageQualityScore", pm.AverageQualityScore),
	)
	return pm, nil
}

func (s *DefaultQualityService) LatestForCaregiver(ctx context.Context, caregiverID string) (*models.QualityMetrics, error) {
	return s.Metrics.LatestForCaregiver(ctx, caregiverID)
}

func (s *DefaultQualityService) LatestPlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error) {
	return s.Metrics.LatestPlatformMetrics(ctx)
}

func (s *DefaultQualityService) Leaderboard(ctx context.Context, n int) ([]rankingRepo.Entry, error) {
	if s.Ranking == nil {
		return nil, nil
	}
	return s.Ranking.Top(ctx, n)
}
