package quality

import (
	"context"
	"errors"
	"testing"
	"time"

	"caretrust/database/repository/memstore"
	"caretrust/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingReviews struct {
	*memstore.ReviewRepo
}

func (failingReviews) ListByRevieweeInRange(context.Context, string, time.Time, time.Time) ([]models.Review, error) {
	return nil, errors.New("reviews timed out")
}

func newQualityService(store *memstore.Store) *DefaultQualityService {
	svc := NewDefaultQualityService(store.Bookings, store.Reviews, store.Incidents, store.Metrics, store.Ranking, zap.NewNop())
	svc.Now = func() time.Time { return calcNow }
	return svc
}

func TestCalculateCaregiverMetrics_UsesHalfOpenWindow(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	w := DefaultWindow(calcNow)

	for _, b := range []models.Booking{
		{ID: "b-start", CaregiverID: "cg-1", ClientID: "c1", Status: models.BookingCompleted, CreatedAt: w.Start},
		{ID: "b-mid", CaregiverID: "cg-1", ClientID: "c1", Status: models.BookingCompleted, CreatedAt: at(24)},
		{ID: "b-end", CaregiverID: "cg-1", ClientID: "c2", Status: models.BookingCompleted, CreatedAt: w.End},
		{ID: "b-old", CaregiverID: "cg-1", ClientID: "c3", Status: models.BookingCompleted, CreatedAt: w.Start.Add(-time.Second)},
		{ID: "b-other", CaregiverID: "cg-2", ClientID: "c1", Status: models.BookingCompleted, CreatedAt: at(24)},
	} {
		b := b
		require.NoError(t, store.Bookings.Upsert(ctx, &b))
	}
	require.NoError(t, store.Reviews.Create(ctx, &models.Review{ID: "r1", RevieweeID: "cg-1", Rating: 4, CreatedAt: at(5)}))
	require.NoError(t, store.Incidents.Create(ctx, &models.Incident{IncidentNumber: "INC-2026-000001", CaregiverID: "cg-1", Severity: models.SeverityLow, CreatedAt: at(5)}))

	m, err := newQualityService(store).CalculateCaregiverMetrics(ctx, "cg-1", w)
	require.NoError(t, err)

	assert.NotEmpty(t, m.ID)
	assert.Equal(t, 2, m.TotalBookings)
	assert.Equal(t, 1, m.UniqueClients)
	assert.Equal(t, 1, m.RepeatClients)
	assert.Equal(t, 1, m.TotalReviews)
	assert.Equal(t, 1, m.TotalIncidents)

	stored, err := store.Metrics.LatestForCaregiver(ctx, "cg-1")
	require.NoError(t, err)
	assert.Equal(t, m.ID, stored.ID)

	top, err := store.Ranking.Top(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "cg-1", top[0].CaregiverID)
	assert.InDelta(t, m.QualityScore, top[0].QualityScore, 1e-9)
}

func TestCalculateCaregiverMetrics_FetchFailureWritesNothing(t *testing.T) {
	store := memstore.New()
	svc := newQualityService(store)
	svc.Reviews = failingReviews{store.Reviews}

	_, err := svc.CalculateCaregiverMetrics(context.Background(), "cg-1", DefaultWindow(calcNow))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reviews timed out")

	_, err = store.Metrics.LatestForCaregiver(context.Background(), "cg-1")
	assert.Error(t, err)
}

func TestCalculateCaregiverMetrics_CancelledContextWritesNothing(t *testing.T) {
	store := memstore.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newQualityService(store).CalculateCaregiverMetrics(ctx, "cg-1", DefaultWindow(calcNow))
	require.ErrorIs(t, err, context.Canceled)

	all, err := store.Metrics.LatestQualityMetrics(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, all)
	top, err := store.Ranking.Top(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestCalculateCaregiverMetrics_RejectsBadInput(t *testing.T) {
	svc := newQualityService(memstore.New())
	_, err := svc.CalculateCaregiverMetrics(context.Background(), "", DefaultWindow(calcNow))
	assert.Error(t, err)
	_, err = svc.CalculateCaregiverMetrics(context.Background(), "cg-1", Window{Start: calcNow, End: calcNow.Add(-time.Hour)})
	assert.Error(t, err)
}

func TestCalculatePlatformMetrics_EmptyStoreWritesNothing(t *testing.T) {
	store := memstore.New()
	pm, err := newQualityService(store).CalculatePlatformMetrics(context.Background())
	require.NoError(t, err)
	assert.Nil(t, pm)
	assert.Empty(t, store.Metrics.PlatformSnapshots())
}

func TestCalculatePlatformMetrics_DeduplicatesToLatestPerCaregiver(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	for _, s := range []models.QualityMetrics{
		snapshot("cg-1", 50, calcNow.Add(-2*time.Hour)),
		snapshot("cg-2", 70, calcNow.Add(-time.Hour)),
		snapshot("cg-1", 90, calcNow.Add(-time.Minute)),
	} {
		s := s
		require.NoError(t, store.Metrics.SaveQualityMetrics(ctx, &s))
	}

	pm, err := newQualityService(store).CalculatePlatformMetrics(ctx)
	require.NoError(t, err)
	require.NotNil(t, pm)
	assert.Equal(t, 2, pm.TotalCaregivers)
	assert.Equal(t, 3, pm.SnapshotsConsidered)
	assert.InDelta(t, 80.0, pm.AverageQualityScore, 1e-9)
	assert.Equal(t, calcNow, pm.CalculatedAt)

	saved := store.Metrics.PlatformSnapshots()
	require.Len(t, saved, 1)
	assert.Equal(t, pm.ID, saved[0].ID)
}

func TestCalculatePlatformMetrics_RespectsSnapshotLimit(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	for i, id := range []string{"cg-1", "cg-2", "cg-3"} {
		s := snapshot(id, 60, calcNow.Add(time.Duration(i)*time.Minute))
		require.NoError(t, store.Metrics.SaveQualityMetrics(ctx, &s))
	}
	svc := newQualityService(store)
	svc.SnapshotLimit = 2

	pm, err := svc.CalculatePlatformMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, pm.TotalCaregivers)
}

func TestLeaderboard(t *testing.T) {
	store := memstore.New()
	ctx := context.Background()
	require.NoError(t, store.Ranking.Record(ctx, "cg-1", 70))
	require.NoError(t, store.Ranking.Record(ctx, "cg-2", 95))
	require.NoError(t, store.Ranking.Record(ctx, "cg-1", 80))

	top, err := newQualityService(store).Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "cg-2", top[0].CaregiverID)
	assert.Equal(t, 80.0, top[1].QualityScore)
}
