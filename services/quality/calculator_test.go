package quality

import (
	"fmt"
	"testing"
	"time"

	"caretrust/models"

	"github.com/stretchr/testify/assert"
)

var (
	calcNow    = time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC)
	calcWindow = DefaultWindow(calcNow)
)

func at(hoursAgo int) time.Time {
	return calcNow.Add(-time.Duration(hoursAgo) * time.Hour)
}

func ptr(t time.Time) *time.Time { return &t }

func TestComputeMetrics_NoRecords(t *testing.T) {
	m := ComputeMetrics("cg-1", calcWindow, nil, nil, nil, calcNow)

	assert.Equal(t, "cg-1", m.CaregiverID)
	assert.Zero(t, m.AcceptanceRate)
	assert.Zero(t, m.CompletionRate)
	assert.Zero(t, m.AverageResponseTime)
	assert.Zero(t, m.AverageRating)
	assert.Zero(t, m.ClientRetentionRate)
	assert.Zero(t, m.QualityScore)
	assert.Equal(t, models.TierNeedsImprovement, m.PerformanceTier)
	assert.True(t, m.NeedsAttention)
	assert.Equal(t, calcWindow.Start, m.CalculationPeriodStart)
	assert.Equal(t, calcWindow.End, m.CalculationPeriodEnd)
	assert.Equal(t, calcNow, m.CalculatedAt)
}

func TestComputeMetrics_TenBookingScenario(t *testing.T) {
	var bookings []models.Booking
	for i := 0; i < 6; i++ {
		bookings = append(bookings, models.Booking{
			ID:         fmt.Sprintf("done-%d", i),
			ClientID:   fmt.Sprintf("client-%d", i),
			Status:     models.BookingCompleted,
			CreatedAt:  at(100),
			AcceptedAt: ptr(at(99)),
		})
	}
	for i := 0; i < 2; i++ {
		bookings = append(bookings, models.Booking{ID: fmt.Sprintf("cx-%d", i), Status: models.BookingCancelled, CreatedAt: at(50)})
	}
	for i := 0; i < 2; i++ {
		bookings = append(bookings, models.Booking{ID: fmt.Sprintf("req-%d", i), Status: models.BookingRequested, CreatedAt: at(10)})
	}

	m := ComputeMetrics("cg-1", calcWindow, bookings, nil, nil, calcNow)

	assert.Equal(t, 10, m.TotalBookings)
	assert.Equal(t, 6, m.CompletedBookings)
	assert.InDelta(t, 60.0, m.CompletionRate, 1e-9)
	assert.InDelta(t, 60.0, m.AcceptanceRate, 1e-9)
	assert.Zero(t, m.AverageRating)
	assert.Zero(t, m.ClientRetentionRate)
	assert.Zero(t, m.TotalIncidents)
	// 0.20*60 + 0.25*60, no rating, retention or penalty terms
	assert.InDelta(t, 27.0, m.QualityScore, 1e-9)
	assert.InDelta(t, 1.0, m.AverageResponseTime, 1e-9)
}

func TestComputeMetrics_ResponseAndAcceptance(t *testing.T) {
	bookings := []models.Booking{
		{Status: models.BookingAccepted, CreatedAt: at(10), AcceptedAt: ptr(at(8))},
		{Status: models.BookingCancelled, CreatedAt: at(10), AcceptedAt: ptr(at(6)), CancelledBy: "cg-1"},
		{Status: models.BookingCancelled, CreatedAt: at(10), CancelledBy: "client-1"},
		{Status: models.BookingNoShow, CreatedAt: at(10)},
	}
	m := ComputeMetrics("cg-1", calcWindow, bookings, nil, nil, calcNow)

	assert.InDelta(t, 3.0, m.AverageResponseTime, 1e-9)
	assert.InDelta(t, 25.0, m.AcceptanceRate, 1e-9)
	assert.Equal(t, 1, m.CancelledByCaregiver)
	assert.Equal(t, 1, m.NoShows)
	assert.Zero(t, m.CompletionRate)
}

func TestComputeMetrics_RatingsAndStarDistribution(t *testing.T) {
	reviews := []models.Review{{Rating: 0.4}, {Rating: 1.2}, {Rating: 2.5}, {Rating: 4.6}, {Rating: 5}}
	m := ComputeMetrics("cg-1", calcWindow, nil, reviews, nil, calcNow)

	assert.Equal(t, 5, m.TotalReviews)
	assert.InDelta(t, 2.74, m.AverageRating, 1e-9)
	assert.Equal(t, models.StarDistribution{One: 1, Two: 0, Three: 1, Four: 0, Five: 2}, m.StarDistribution)
	assert.Equal(t, 1, m.UnbucketedRatings)
	assert.Equal(t, m.TotalReviews, m.StarDistribution.Total()+m.UnbucketedRatings)
}

func TestComputeMetrics_EngagementAndIncidents(t *testing.T) {
	visit := func(client string, hours int, timed bool) models.Booking {
		b := models.Booking{ClientID: client, Status: models.BookingCompleted, CreatedAt: at(200), AcceptedAt: ptr(at(199))}
		if timed {
			b.StartTime = ptr(at(100))
			b.EndTime = ptr(at(100 - hours))
		}
		return b
	}
	bookings := []models.Booking{
		visit("client-a", 3, true),
		visit("client-a", 2, true),
		visit("client-b", 4, true),
		visit("client-b", 0, false),
		visit("client-c", 1, true),
		{ClientID: "client-d", Status: models.BookingCancelled, CreatedAt: at(50)},
	}
	incidents := []models.Incident{
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityMedium},
	}
	reviews := []models.Review{{Rating: 5}, {Rating: 5}}

	m := ComputeMetrics("cg-1", calcWindow, bookings, reviews, incidents, calcNow)

	assert.InDelta(t, 10.0, m.TotalHoursWorked, 1e-9)
	assert.Equal(t, 3, m.UniqueClients)
	assert.Equal(t, 2, m.RepeatClients)
	assert.InDelta(t, 200.0/3.0, m.ClientRetentionRate, 1e-9)
	assert.Equal(t, 2, m.TotalIncidents)
	assert.Equal(t, 1, m.CriticalIncidents)
	assert.True(t, m.NeedsAttention)

	want := QualityScore(ScoreInputs{
		AcceptanceRate:      m.AcceptanceRate,
		CompletionRate:      m.CompletionRate,
		AverageRating:       5,
		TotalIncidents:      2,
		CriticalIncidents:   1,
		ClientRetentionRate: m.ClientRetentionRate,
	})
	assert.InDelta(t, want, m.QualityScore, 1e-9)
	assert.Equal(t, PerformanceTier(want), m.PerformanceTier)
}

func TestComputeMetrics_IsDeterministic(t *testing.T) {
	bookings := []models.Booking{{ClientID: "a", Status: models.BookingCompleted, CreatedAt: at(5), AcceptedAt: ptr(at(4))}}
	reviews := []models.Review{{Rating: 4}}
	a := ComputeMetrics("cg-1", calcWindow, bookings, reviews, nil, calcNow)
	b := ComputeMetrics("cg-1", calcWindow, bookings, reviews, nil, calcNow)
	assert.Equal(t, a, b)
}

func TestWindow(t *testing.T) {
	w := DefaultWindow(calcNow)
	assert.Equal(t, calcNow.AddDate(0, 0, -90), w.Start)
	assert.True(t, w.Contains(w.Start))
	assert.False(t, w.Contains(w.End))
	assert.NoError(t, w.Validate())
	assert.Error(t, Window{Start: calcNow, End: calcNow}.Validate())
	assert.Equal(t, calcNow.AddDate(0, 0, -7), WindowEnding(calcNow, 7).Start)
}
