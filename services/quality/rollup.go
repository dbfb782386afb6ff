package quality

import (
	"time"

	"caretrust/models"
)

// LatestPerCaregiver keeps the newest snapshot for each caregiver, preserving the order
// in which caregivers first appear.
func LatestPerCaregiver(snapshots []models.QualityMetrics) []models.QualityMetrics {
	index := make(map[string]int, len(snapshots))
	out := make([]models.QualityMetrics, 0, len(snapshots))
	for _, s := range snapshots {
		i, seen := index[s.CaregiverID]
		if !seen {
			index[s.CaregiverID] = len(out)
			out = append(out, s)
			continue
		}
		if s.CalculatedAt.After(out[i].CalculatedAt) {
			out[i] = s
		}
	}
	return out
}

// Rollup summarises snapshots into one platform record. ok is false for an empty input.
func Rollup(snapshots []models.QualityMetrics, now time.Time) (pm *models.PlatformMetrics, ok bool) {
	if len(snapshots) == 0 {
		return nil, false
	}

	pm = &models.PlatformMetrics{
		TotalCaregivers:     len(snapshots),
		SnapshotsConsidered: len(snapshots),
		CalculatedAt:        now,
	}
	var scoreSum, ratingSum, completionSum float64
	for _, s := range snapshots {
		scoreSum += s.QualityScore
		ratingSum += s.AverageRating
		completionSum += s.CompletionRate

		switch s.PerformanceTier {
		case models.TierExcellent:
			pm.CaregiverPerformanceTiers.Excellent++
		case models.TierVeryGood:
			pm.CaregiverPerformanceTiers.VeryGood++
		case models.TierGood:
			pm.CaregiverPerformanceTiers.Good++
		case models.TierSatisfactory:
			pm.CaregiverPerformanceTiers.Satisfactory++
		case models.TierNeedsImprovement:
			pm.CaregiverPerformanceTiers.NeedsImprovement++
		}

		if s.QualityScore >= highPerformerScore {
			pm.CaregiverStatistics.HighPerformers++
		}
		if s.NeedsAttention {
			pm.CaregiverStatistics.NeedingAttention++
		}
		if s.CriticalIncidents > 0 {
			pm.CaregiverStatistics.WithCriticalIncidents++
		}
	}

	n := float64(len(snapshots))
	pm.AverageQualityScore = scoreSum / n
	pm.AverageRating = ratingSum / n
	pm.AverageCompletionRate = completionSum / n
	return pm, true
}
