package quality

import (
	"time"

	"caretrust/models"
)

// ComputeMetrics derives a caregiver's snapshot from the bookings, reviews and incidents
// already selected for window. It has no side effects; ID is left for the caller.
func ComputeMetrics(
	caregiverID string,
	window Window,
	bookings []models.Booking,
	reviews []models.Review,
	incidents []models.Incident,
	now time.Time,
) models.QualityMetrics {
	m := models.QualityMetrics{
		CaregiverID:            caregiverID,
		CalculationPeriodStart: window.Start,
		CalculationPeriodEnd:   window.End,
		TotalBookings:          len(bookings),
		TotalReviews:           len(reviews),
		TotalIncidents:         len(incidents),
		CalculatedAt:           now,
	}

	// response and completion
	var responseHours float64
	var responded, accepted int
	var completed []models.Booking
	for _, b := range bookings {
		if b.AcceptedAt != nil {
			responseHours += b.AcceptedAt.Sub(b.CreatedAt).Hours()
			responded++
			if b.Status != models.BookingCancelled {
				accepted++
			}
		}
		switch b.Status {
		case models.BookingCompleted:
			completed = append(completed, b)
		case models.BookingCancelled:
			if b.CancelledBy != "" && b.CancelledBy == caregiverID {
				m.CancelledByCaregiver++
			}
		case models.BookingNoShow:
			m.NoShows++
		}
	}
	if responded > 0 {
		m.AverageResponseTime = responseHours / float64(responded)
	}
	m.CompletedBookings = len(completed)
	if len(bookings) > 0 {
		m.AcceptanceRate = percent(accepted, len(bookings))
		m.CompletionRate = percent(len(completed), len(bookings))
	}

	// satisfaction
	var ratingSum float64
	for _, r := range reviews {
		ratingSum += r.Rating
		star, ok := StarBucket(r.Rating)
		if !ok || !m.StarDistribution.Add(star) {
			m.UnbucketedRatings++
		}
	}
	if len(reviews) > 0 {
		m.AverageRating = ratingSum / float64(len(reviews))
	}

	for _, inc := range incidents {
		if inc.Severity == models.SeverityCritical {
			m.CriticalIncidents++
		}
	}

	// engagement
	visits := make(map[string]int)
	for _, b := range completed {
		if b.StartTime != nil && b.EndTime != nil {
			m.TotalHoursWorked += b.EndTime.Sub(*b.StartTime).Hours()
		}
		visits[b.ClientID]++
	}
	m.UniqueClients = len(visits)
	for _, n := range visits {
		if n > 1 {
			m.RepeatClients++
		}
	}
	if m.UniqueClients > 0 {
		m.ClientRetentionRate = percent(m.RepeatClients, m.UniqueClients)
	}

	m.QualityScore = QualityScore(ScoreInputs{
		AcceptanceRate:      m.AcceptanceRate,
		CompletionRate:      m.CompletionRate,
		AverageRating:       m.AverageRating,
		TotalIncidents:      m.TotalIncidents,
		CriticalIncidents:   m.CriticalIncidents,
		ClientRetentionRate: m.ClientRetentionRate,
	})
	m.PerformanceTier = PerformanceTier(m.QualityScore)
	m.NeedsAttention = NeedsAttention(m.QualityScore, m.AverageRating, m.CriticalIncidents)
	return m
}

func percent(part, whole int) float64 {
	return float64(part) / float64(whole) * 100
}
