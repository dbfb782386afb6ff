package metricsRepo

import (
	"context"

	"caretrust/models"
)

// MetricsRepository stores quality and platform snapshots. Both are append-only.
type MetricsRepository interface {
	SaveQualityMetrics(ctx context.Context, m *models.QualityMetrics) error
	// LatestQualityMetrics returns up to limit snapshots ordered by calculatedAt descending.
	LatestQualityMetrics(ctx context.Context, limit int) ([]models.QualityMetrics, error)
	// LatestForCaregiver returns the newest snapshot for caregiverID, or repository.ErrNotFound.
	LatestForCaregiver(ctx context.Context, caregiverID string) (*models.QualityMetrics, error)

	SavePlatformMetrics(ctx context.Context, m *models.PlatformMetrics) error
	// LatestPlatformMetrics returns the newest rollup, or repository.ErrNotFound.
	LatestPlatformMetrics(ctx context.Context) (*models.PlatformMetrics, error)
}
