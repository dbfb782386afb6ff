package quality

import (
	"testing"
	"time"

	"caretrust/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(caregiver string, score float64, calculated time.Time) models.QualityMetrics {
	m := models.QualityMetrics{
		CaregiverID:     caregiver,
		QualityScore:    score,
		AverageRating:   score / 20,
		CompletionRate:  score,
		PerformanceTier: PerformanceTier(score),
		NeedsAttention:  score < 70,
		CalculatedAt:    calculated,
	}
	return m
}

func TestRollup_EmptyInput(t *testing.T) {
	pm, ok := Rollup(nil, calcNow)
	assert.False(t, ok)
	assert.Nil(t, pm)
}

func TestRollup_Aggregates(t *testing.T) {
	crit := snapshot("cg-4", 55, calcNow)
	crit.CriticalIncidents = 2

	snaps := []models.QualityMetrics{
		snapshot("cg-1", 95, calcNow),
		snapshot("cg-2", 85, calcNow),
		snapshot("cg-3", 72, calcNow),
		crit,
	}
	pm, ok := Rollup(snaps, calcNow)
	require.True(t, ok)

	assert.Equal(t, 4, pm.TotalCaregivers)
	assert.InDelta(t, 76.75, pm.AverageQualityScore, 1e-9)
	assert.InDelta(t, 76.75/20, pm.AverageRating, 1e-9)
	assert.InDelta(t, 76.75, pm.AverageCompletionRate, 1e-9)
	assert.Equal(t, models.PerformanceTierCounts{Excellent: 1, VeryGood: 1, Good: 1, NeedsImprovement: 1}, pm.CaregiverPerformanceTiers)
	assert.Equal(t, 2, pm.CaregiverStatistics.HighPerformers)
	assert.Equal(t, 1, pm.CaregiverStatistics.NeedingAttention)
	assert.Equal(t, 1, pm.CaregiverStatistics.WithCriticalIncidents)
	assert.Equal(t, calcNow, pm.CalculatedAt)
}

func TestLatestPerCaregiver(t *testing.T) {
	older := calcNow.Add(-time.Hour)
	snaps := []models.QualityMetrics{
		snapshot("cg-1", 90, calcNow),
		snapshot("cg-2", 70, calcNow),
		snapshot("cg-1", 50, older),
		snapshot("cg-2", 20, calcNow.Add(time.Minute)),
	}
	got := LatestPerCaregiver(snaps)
	require.Len(t, got, 2)
	assert.Equal(t, "cg-1", got[0].CaregiverID)
	assert.Equal(t, 90.0, got[0].QualityScore)
	assert.Equal(t, "cg-2", got[1].CaregiverID)
	assert.Equal(t, 20.0, got[1].QualityScore)
}
