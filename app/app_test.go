package app

import (
	"context"
	"testing"
	"time"

	"caretrust/database/repository/memstore"
	"caretrust/models"
	"caretrust/services/incident"
	"caretrust/services/tasks"
	"caretrust/services/triggers"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pipelineNow = time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

func newPipeline(t *testing.T) (*App, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	ctx := context.Background()
	for _, u := range []models.User{
		{ID: "cg-1", Name: "Grace", Role: models.RoleCaregiver, IsActive: true},
		{ID: "cg-2", Name: "Tom", Role: models.RoleCaregiver, IsActive: true},
		{ID: "admin-1", Name: "Ada", Role: models.RoleAdmin, IsActive: true},
		{ID: "admin-2", Name: "Lin", Role: models.RoleAdmin, IsActive: true},
	} {
		u := u
		require.NoError(t, store.Users.Upsert(ctx, &u))
	}
	a := Build(MemoryRepositories(store), Options{Now: func() time.Time { return pipelineNow }})
	return a, store
}

func TestPipeline_LowReviewOpensIncidentAndNotifies(t *testing.T) {
	a, store := newPipeline(t)
	ctx := context.Background()

	review, err := a.Triggers.IngestReview(ctx, models.Review{
		ID: "rev-1", RevieweeID: "cg-1", RevieweeName: "Grace", Rating: 1.0, Comment: "late",
	})
	require.NoError(t, err)
	assert.Equal(t, pipelineNow, review.CreatedAt)

	incidents := store.Incidents.All()
	require.Len(t, incidents, 1)
	assert.Equal(t, "INC-2026-000001", incidents[0].IncidentNumber)
	assert.Equal(t, models.SeverityHigh, incidents[0].Severity)
	assert.Equal(t, "rev-1", incidents[0].SourceReviewID)

	// subject plus two admins, and no critical alert for a high incident
	assert.Len(t, store.Notifications.Notifications(), 3)
	assert.Empty(t, store.Notifications.AdminAlerts())
	assert.False(t, incidents[0].AutoEscalated)
}

func TestPipeline_ReingestedReviewIsIdempotent(t *testing.T) {
	a, store := newPipeline(t)
	ctx := context.Background()
	r := models.Review{ID: "rev-1", RevieweeID: "cg-1", Rating: 2.0, CreatedAt: pipelineNow.Add(-time.Hour)}

	_, err := a.Triggers.IngestReview(ctx, r)
	require.NoError(t, err)
	again, err := a.Triggers.IngestReview(ctx, r)
	require.NoError(t, err)

	assert.Equal(t, pipelineNow.Add(-time.Hour), again.CreatedAt)
	assert.Len(t, store.Incidents.All(), 1)
	assert.Len(t, store.Notifications.Notifications(), 3)
}

func TestPipeline_HighReviewOpensNothing(t *testing.T) {
	a, store := newPipeline(t)
	_, err := a.Triggers.IngestReview(context.Background(), models.Review{ID: "rev-1", RevieweeID: "cg-1", Rating: 4.5})
	require.NoError(t, err)
	assert.Empty(t, store.Incidents.All())
	assert.Empty(t, store.Notifications.Notifications())
}

func TestPipeline_InvalidReview(t *testing.T) {
	a, _ := newPipeline(t)
	_, err := a.Triggers.IngestReview(context.Background(), models.Review{RevieweeID: "cg-1", Rating: 7})
	assert.ErrorIs(t, err, triggers.ErrInvalidEvent)
	_, err = a.Triggers.IngestReview(context.Background(), models.Review{Rating: 1})
	assert.ErrorIs(t, err, triggers.ErrInvalidEvent)
}

func TestPipeline_CriticalReportEscalatesOnce(t *testing.T) {
	a, store := newPipeline(t)
	ctx := context.Background()

	inc, err := a.Incidents.Report(ctx, incident.ReportInput{
		Type:        "safety",
		Severity:    models.SeverityCritical,
		ReporterID:  "client-9",
		CaregiverID: "cg-2",
		Title:       "Client fell during visit",
	})
	require.NoError(t, err)

	stored, err := store.Incidents.GetByID(ctx, inc.ID)
	require.NoError(t, err)
	assert.True(t, stored.AutoEscalated)
	require.Len(t, store.Notifications.AdminAlerts(), 1)
	assert.Len(t, store.Notifications.Notifications(), 2)

	// a redelivered event finds the flag and does nothing
	result, err := a.Triggers.OnIncidentCreated(ctx, *inc)
	require.NoError(t, err)
	assert.True(t, result.Skipped)
	assert.Len(t, store.Notifications.AdminAlerts(), 1)
}

func TestPipeline_BookingCompletionRecomputesCaregiver(t *testing.T) {
	a, store := newPipeline(t)
	ctx := context.Background()

	booked := pipelineNow.Add(-48 * time.Hour)
	bk := models.Booking{ID: "bk-1", CaregiverID: "cg-1", ClientID: "cl-1", Status: models.BookingInProgress, CreatedAt: booked}
	require.NoError(t, a.Triggers.IngestBookingUpdate(ctx, bk))
	_, err := store.Metrics.LatestForCaregiver(ctx, "cg-1")
	require.Error(t, err)

	bk.Status = models.BookingCompleted
	require.NoError(t, a.Triggers.IngestBookingUpdate(ctx, bk))

	m, err := store.Metrics.LatestForCaregiver(ctx, "cg-1")
	require.NoError(t, err)
	assert.Equal(t, 1, m.TotalBookings)
	assert.Equal(t, 1, m.CompletedBookings)
	assert.Equal(t, pipelineNow, m.CalculationPeriodEnd)

	top, err := a.Quality.Leaderboard(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "cg-1", top[0].CaregiverID)

	// a second completed image is not a transition
	require.NoError(t, a.Triggers.IngestBookingUpdate(ctx, bk))
	entries, err := store.Metrics.LatestQualityMetrics(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPipeline_BookingCompletionWindowEndsAtEventTime(t *testing.T) {
	a, store := newPipeline(t)
	ctx := context.Background()

	completedAt := pipelineNow.AddDate(0, 0, -3)
	bk := models.Booking{ID: "bk-7", CaregiverID: "cg-2", Status: models.BookingInProgress, CreatedAt: completedAt.Add(-6 * time.Hour)}
	require.NoError(t, a.Triggers.IngestBookingUpdate(ctx, bk))

	bk.Status = models.BookingCompleted
	bk.UpdatedAt = completedAt
	require.NoError(t, a.Triggers.IngestBookingUpdate(ctx, bk))

	m, err := store.Metrics.LatestForCaregiver(ctx, "cg-2")
	require.NoError(t, err)
	assert.Equal(t, completedAt, m.CalculationPeriodEnd)
	assert.Equal(t, completedAt.AddDate(0, 0, -90), m.CalculationPeriodStart)

	stored, err := store.Bookings.GetByID(ctx, "bk-7")
	require.NoError(t, err)
	assert.Equal(t, completedAt, stored.UpdatedAt)
}

func TestPipeline_ScheduledRunWritesRollup(t *testing.T) {
	a, store := newPipeline(t)
	require.NoError(t, a.Publisher.RequestScheduledRun(context.Background()))

	rollups := store.Metrics.PlatformSnapshots()
	require.Len(t, rollups, 1)
	assert.Equal(t, 2, rollups[0].TotalCaregivers)
}

func TestPipeline_MalformedPayloadIsNotRetried(t *testing.T) {
	a, _ := newPipeline(t)
	err := a.Mux.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeReviewCreated, []byte("{")))
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
