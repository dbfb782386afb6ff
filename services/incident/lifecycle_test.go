package incident

import (
	"context"
	"errors"
	"testing"

	"caretrust/database/repository"
	"caretrust/database/repository/memstore"
	"caretrust/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = Actor{ID: "admin-1", Name: "Ada"}

func reportInput(severity string) ReportInput {
	return ReportInput{
		Type:          "safety",
		Severity:      severity,
		ReporterID:    "client-1",
		ReporterName:  "Pat",
		ReporterRole:  models.RoleClient,
		CaregiverID:   "cg-1",
		CaregiverName: "Grace",
		Title:         "Medication missed",
		Description:   "Evening dose skipped",
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(models.IncidentReported, models.IncidentInvestigating))
	assert.True(t, CanTransition(models.IncidentEscalated, models.IncidentResolved))
	assert.True(t, CanTransition(models.IncidentResolved, models.IncidentInvestigating))
	assert.False(t, CanTransition(models.IncidentResolved, models.IncidentEscalated))
	assert.False(t, CanTransition(models.IncidentClosed, models.IncidentInvestigating))
	assert.False(t, CanTransition(models.IncidentReported, models.IncidentReported))
	assert.False(t, CanTransition("unknown", models.IncidentClosed))
}

func TestReport_ValidatesInput(t *testing.T) {
	svc, _, _ := newTestService(memstore.New())

	_, err := svc.Report(context.Background(), ReportInput{Severity: models.SeverityLow})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	in := reportInput("severe")
	_, err = svc.Report(context.Background(), in)
	var ie *IncidentError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "invalidInput", ie.Code)
}

func TestReport_PublishesCreatedEvent(t *testing.T) {
	store := memstore.New()
	svc, notifier, events := newTestService(store)

	inc, err := svc.Report(context.Background(), reportInput(models.SeverityCritical))
	require.NoError(t, err)
	assert.Equal(t, "INC-2026-000001", inc.IncidentNumber)
	assert.Equal(t, models.IncidentReported, inc.Status)
	assert.Equal(t, fixedNow, inc.IncidentDate)
	require.Len(t, inc.InvestigationTimeline, 1)
	assert.Equal(t, "Pat", inc.InvestigationTimeline[0].PerformedBy)

	require.Len(t, events.published, 1)
	assert.Empty(t, notifier.critical, "escalation belongs to the event consumer")
}

func TestReport_EscalatesInlineWhenPublishFails(t *testing.T) {
	store := memstore.New()
	svc, notifier, events := newTestService(store)
	events.err = errors.New("queue down")

	inc, err := svc.Report(context.Background(), reportInput(models.SeverityCritical))
	require.NoError(t, err)
	assert.Equal(t, []string{inc.ID}, notifier.critical)

	_, err = svc.Report(context.Background(), reportInput(models.SeverityLow))
	require.NoError(t, err)
	assert.Len(t, notifier.critical, 1)
}

func TestReport_ReturnsStateWrittenBySynchronousConsumer(t *testing.T) {
	store := memstore.New()
	svc, _, events := newTestService(store)
	events.onPublish = func(inc models.Incident) {
		flagged := true
		_ = store.Incidents.Update(context.Background(), inc.ID, models.IncidentUpdate{AutoEscalated: &flagged, UpdatedAt: fixedNow})
	}

	inc, err := svc.Report(context.Background(), reportInput(models.SeverityCritical))
	require.NoError(t, err)
	assert.True(t, inc.AutoEscalated)
}

func TestLifecycle_HappyPath(t *testing.T) {
	store := memstore.New()
	svc, _, _ := newTestService(store)
	ctx := context.Background()

	inc, err := svc.Report(ctx, reportInput(models.SeverityMedium))
	require.NoError(t, err)

	inc, err = svc.Assign(ctx, inc.ID, admin, "admin-2", "Ben")
	require.NoError(t, err)
	require.NotNil(t, inc.AssignedTo)
	assert.Equal(t, "admin-2", *inc.AssignedTo)
	assert.Equal(t, models.IncidentReported, inc.Status)

	inc, err = svc.StartInvestigation(ctx, inc.ID, admin, "calling client")
	require.NoError(t, err)
	assert.Equal(t, models.IncidentInvestigating, inc.Status)

	inc, err = svc.Escalate(ctx, inc.ID, admin, "pattern across visits")
	require.NoError(t, err)
	assert.Equal(t, models.IncidentEscalated, inc.Status)
	require.NotNil(t, inc.EscalatedBy)
	assert.Equal(t, "admin-1", *inc.EscalatedBy)
	assert.False(t, inc.AutoEscalated)

	inc, err = svc.Resolve(ctx, inc.ID, admin, "retrained")
	require.NoError(t, err)
	assert.Equal(t, models.IncidentResolved, inc.Status)
	require.NotNil(t, inc.ResolvedAt)
	assert.Equal(t, fixedNow, *inc.ResolvedAt)

	inc, err = svc.AddNote(ctx, inc.ID, admin, "follow-up booked")
	require.NoError(t, err)

	inc, err = svc.Close(ctx, inc.ID, admin, "")
	require.NoError(t, err)
	assert.Equal(t, models.IncidentClosed, inc.Status)
	require.NotNil(t, inc.ClosedAt)

	stored, err := store.Incidents.GetByID(ctx, inc.ID)
	require.NoError(t, err)
	actions := make([]string, 0, len(stored.InvestigationTimeline))
	for _, e := range stored.InvestigationTimeline {
		actions = append(actions, e.Action)
	}
	assert.Equal(t, []string{
		"Incident Reported", "Assigned", "Investigation Started", "Escalated", "Resolved", "Note Added", "Closed",
	}, actions)
}

func TestLifecycle_ClosedIsTerminal(t *testing.T) {
	store := memstore.New()
	svc, _, _ := newTestService(store)
	ctx := context.Background()

	inc, err := svc.Report(ctx, reportInput(models.SeverityLow))
	require.NoError(t, err)
	_, err = svc.Close(ctx, inc.ID, admin, "duplicate report")
	require.NoError(t, err)

	_, err = svc.StartInvestigation(ctx, inc.ID, admin, "")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	_, err = svc.AddNote(ctx, inc.ID, admin, "late note")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	_, err = svc.Assign(ctx, inc.ID, admin, "admin-2", "")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
}

func TestLifecycle_RequiresText(t *testing.T) {
	store := memstore.New()
	svc, _, _ := newTestService(store)
	inc, err := svc.Report(context.Background(), reportInput(models.SeverityLow))
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), inc.ID, admin, " ")
	assert.True(t, errors.Is(err, ErrInvalidInput))
	_, err = svc.Escalate(context.Background(), inc.ID, admin, "")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestLifecycle_UnknownIncident(t *testing.T) {
	svc, _, _ := newTestService(memstore.New())
	_, err := svc.Close(context.Background(), "missing", admin, "")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
