package memstore

import (
	"context"
	"sort"
	"sync"

	"caretrust/database/repository"
	"caretrust/models"

	"github.com/google/uuid"
)

type MetricsRepo struct {
	mu       sync.RWMutex
	quality  []models.QualityMetrics
	platform []models.PlatformMetrics
}

func NewMetricsRepo() *MetricsRepo {
	return &MetricsRepo{}
}

func (r *MetricsRepo) SaveQualityMetrics(ctx context.Context, m *models.QualityMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.quality = append(r.quality, *m)
	return nil
}

func (r *MetricsRepo) LatestQualityMetrics(_ context.Context, limit int) ([]models.QualityMetrics, error) {
	r.mu.RLock()
	out := append([]models.QualityMetrics(nil), r.quality...)
	r.mu.RUnlock()

	// newest first; among equal timestamps the later write wins
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CalculatedAt.After(out[j].CalculatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MetricsRepo) LatestForCaregiver(ctx context.Context, caregiverID string) (*models.QualityMetrics, error) {
	all, _ := r.LatestQualityMetrics(ctx, 0)
	for _, m := range all {
		if m.CaregiverID == caregiverID {
			return &m, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *MetricsRepo) SavePlatformMetrics(ctx context.Context, m *models.PlatformMetrics) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	r.platform = append(r.platform, *m)
	return nil
}

func (r *MetricsRepo) LatestPlatformMetrics(_ context.Context) (*models.PlatformMetrics, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.platform) == 0 {
		return nil, repository.ErrNotFound
	}
	latest := r.platform[len(r.platform)-1]
	return &latest, nil
}

// PlatformSnapshots returns every stored rollup in write order.
func (r *MetricsRepo) PlatformSnapshots() []models.PlatformMetrics {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.PlatformMetrics(nil), r.platform...)
}
