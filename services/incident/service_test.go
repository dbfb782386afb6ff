package incident

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"caretrust/database/repository/memstore"
	"caretrust/models"
	"caretrust/services/escalation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeNotifier struct {
	mu        sync.Mutex
	lowRating []string
	critical  []string
}

func (f *fakeNotifier) NotifyLowRating(_ context.Context, inc models.Incident, _ models.Review) (*escalation.FanOutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lowRating = append(f.lowRating, inc.ID)
	return &escalation.FanOutResult{Attempted: 1, Delivered: 1}, nil
}

func (f *fakeNotifier) EscalateCritical(_ context.Context, inc models.Incident) (*escalation.FanOutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.critical = append(f.critical, inc.ID)
	return &escalation.FanOutResult{}, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []models.Incident
	err       error
	onPublish func(models.Incident)
}

func (f *fakePublisher) PublishIncidentCreated(_ context.Context, inc models.Incident) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, inc)
	if f.onPublish != nil {
		f.onPublish(inc)
	}
	return nil
}

func newTestService(store *memstore.Store) (*DefaultIncidentService, *fakeNotifier, *fakePublisher) {
	notifier := &fakeNotifier{}
	events := &fakePublisher{}
	svc := &DefaultIncidentService{
		Repo:      store.Incidents,
		Allocator: newAllocator(store),
		Notifier:  notifier,
		Escalator: notifier,
		Events:    events,
		Logger:    zap.NewNop(),
		Now:       func() time.Time { return fixedNow },
	}
	return svc, notifier, events
}

func lowReview(id string, rating float64, comment string) models.Review {
	return models.Review{
		ID:           id,
		BookingID:    "bk-1",
		ReviewerID:   "client-1",
		ReviewerName: "Pat",
		RevieweeID:   "cg-1",
		RevieweeName: "Grace",
		Rating:       rating,
		Comment:      comment,
		CreatedAt:    fixedNow.Add(-time.Hour),
	}
}

func TestSeverityForRating(t *testing.T) {
	assert.Equal(t, models.SeverityHigh, SeverityForRating(1.5))
	assert.Equal(t, models.SeverityHigh, SeverityForRating(0))
	assert.Equal(t, models.SeverityMedium, SeverityForRating(1.6))
	assert.Equal(t, models.SeverityMedium, SeverityForRating(2.0))
}

func TestQualifiesForIncident(t *testing.T) {
	assert.True(t, QualifiesForIncident(models.Review{Rating: 2.0}))
	assert.True(t, QualifiesForIncident(models.Review{Rating: 0.5}))
	assert.False(t, QualifiesForIncident(models.Review{Rating: 2.1}))
}

func TestBuildFromReview(t *testing.T) {
	inc := BuildFromReview(lowReview("rev-1", 1.5, "Arrived late"), "INC-2026-000001", fixedNow)

	assert.Equal(t, "INC-2026-000001", inc.IncidentNumber)
	assert.Equal(t, models.IncidentTypeServiceQuality, inc.Type)
	assert.Equal(t, models.SeverityHigh, inc.Severity)
	assert.Equal(t, models.IncidentReported, inc.Status)
	assert.Equal(t, "system", inc.ReporterID)
	assert.Equal(t, "Automated System", inc.ReporterName)
	assert.Equal(t, "system", inc.ReporterRole)
	assert.Equal(t, "cg-1", inc.CaregiverID)
	assert.Equal(t, "Grace", inc.CaregiverName)
	assert.Equal(t, "client-1", inc.ClientID)
	assert.Equal(t, "bk-1", inc.BookingID)
	assert.Equal(t, "rev-1", inc.SourceReviewID)
	assert.Equal(t, "Low Rating Alert: 1.5 stars", inc.Title)
	assert.Equal(t, "Automatically generated incident due to low rating (1.5/5.0).\n\nReview Comment: Arrived late", inc.Description)
	assert.Equal(t, []string{"low-rating", "auto-generated", "service-quality"}, inc.Tags)
	assert.Empty(t, inc.Evidence)
	assert.Nil(t, inc.Location)
	assert.Nil(t, inc.AssignedTo)
	assert.Nil(t, inc.AssignedToName)
	assert.Nil(t, inc.Resolution)
	assert.Nil(t, inc.ResolvedAt)
	assert.Nil(t, inc.ResolvedBy)
	assert.Nil(t, inc.EscalatedAt)
	assert.Nil(t, inc.EscalatedBy)
	assert.Nil(t, inc.ClosedAt)
	assert.False(t, inc.AutoEscalated)
	assert.Equal(t, fixedNow.Add(-time.Hour), inc.IncidentDate)

	require.Len(t, inc.InvestigationTimeline, 1)
	assert.Equal(t, "Incident Created", inc.InvestigationTimeline[0].Action)
	assert.Equal(t, "System", inc.InvestigationTimeline[0].PerformedBy)
	assert.Equal(t, fixedNow, inc.InvestigationTimeline[0].Timestamp)
}

func TestBuildFromReview_EmptyComment(t *testing.T) {
	inc := BuildFromReview(lowReview("rev-1", 1.6, ""), "INC-2026-000002", fixedNow)
	assert.Equal(t, models.SeverityMedium, inc.Severity)
	assert.Contains(t, inc.Description, "Review Comment: No comment provided")
}

func TestCreateFromReview_SkipsAcceptableRatings(t *testing.T) {
	store := memstore.New()
	svc, notifier, events := newTestService(store)

	inc, err := svc.CreateFromReview(context.Background(), lowReview("rev-ok", 2.1, "fine"))
	require.NoError(t, err)
	assert.Nil(t, inc)
	assert.Empty(t, store.Incidents.All())
	assert.Empty(t, notifier.lowRating)
	assert.Empty(t, events.published)
}

func TestCreateFromReview_PersistsNotifiesAndPublishes(t *testing.T) {
	store := memstore.New()
	svc, notifier, events := newTestService(store)

	inc, err := svc.CreateFromReview(context.Background(), lowReview("rev-1", 1.0, "rude"))
	require.NoError(t, err)
	require.NotNil(t, inc)
	assert.Equal(t, "INC-2026-000001", inc.IncidentNumber)
	assert.Equal(t, models.SeverityHigh, inc.Severity)

	stored, err := store.Incidents.GetBySourceReview(context.Background(), "rev-1")
	require.NoError(t, err)
	assert.Equal(t, inc.ID, stored.ID)
	assert.Equal(t, []string{inc.ID}, notifier.lowRating)
	require.Len(t, events.published, 1)
	assert.Equal(t, inc.ID, events.published[0].ID)
}

func TestCreateFromReview_RedeliveryReturnsExistingIncident(t *testing.T) {
	store := memstore.New()
	svc, notifier, _ := newTestService(store)
	review := lowReview("rev-dup", 2.0, "")

	first, err := svc.CreateFromReview(context.Background(), review)
	require.NoError(t, err)
	second, err := svc.CreateFromReview(context.Background(), review)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.Incidents.All(), 1)
	assert.Len(t, notifier.lowRating, 1)
}

func TestCreateFromReview_SurfacesMalformedNumbers(t *testing.T) {
	store := memstore.New()
	storeIncident(t, store, "INC-2026-broken", fixedNow.Add(-time.Minute))
	svc, notifier, _ := newTestService(store)

	_, err := svc.CreateFromReview(context.Background(), lowReview("rev-2", 1.0, ""))
	assert.True(t, errors.Is(err, ErrMalformedIncidentNumber))
	assert.Empty(t, notifier.lowRating)
}

func TestCreateFromReview_ConsecutiveReviewsGetSequentialNumbers(t *testing.T) {
	store := memstore.New()
	svc, _, _ := newTestService(store)

	a, err := svc.CreateFromReview(context.Background(), lowReview("rev-a", 1.0, ""))
	require.NoError(t, err)
	b, err := svc.CreateFromReview(context.Background(), lowReview("rev-b", 2.0, ""))
	require.NoError(t, err)
	assert.Equal(t, "INC-2026-000001", a.IncidentNumber)
	assert.Equal(t, "INC-2026-000002", b.IncidentNumber)
}
