package quality

import (
	"math"

	"caretrust/models"
)

// Score weights. Positive terms add up to 0.85 of a perfect record.
const (
	acceptanceWeight = 0.20
	completionWeight = 0.25
	ratingWeight     = 0.30
	retentionWeight  = 0.10

	incidentPenaltyEach = 5.0
	criticalPenaltyEach = 15.0
	maxIncidentPenalty  = 30.0

	highPerformerScore = 85.0
	attentionScore     = 70.0
	attentionRating    = 3.5
	maxRating          = 5.0
)

type ScoreInputs struct {
	AcceptanceRate      float64
	CompletionRate      float64
	AverageRating       float64
	TotalIncidents      int
	CriticalIncidents   int
	ClientRetentionRate float64
}

// IncidentPenalty is 5 per incident plus 15 per critical one, capped at 30.
func IncidentPenalty(totalIncidents, criticalIncidents int) float64 {
	penalty := float64(totalIncidents)*incidentPenaltyEach + float64(criticalIncidents)*criticalPenaltyEach
	if penalty < 0 {
		return 0
	}
	return math.Min(penalty, maxIncidentPenalty)
}

// QualityScore combines the weighted rates with the incident penalty and clamps to [0, 100].
func QualityScore(in ScoreInputs) float64 {
	score := in.AcceptanceRate*acceptanceWeight +
		in.CompletionRate*completionWeight +
		(in.AverageRating/maxRating)*100*ratingWeight +
		in.ClientRetentionRate*retentionWeight -
		IncidentPenalty(in.TotalIncidents, in.CriticalIncidents)

	if math.IsNaN(score) {
		return 0
	}
	return math.Max(0, math.Min(100, score))
}

// PerformanceTier bands a score; each lower bound is inclusive.
func PerformanceTier(score float64) string {
	switch {
	case score >= 90:
		return models.TierExcellent
	case score >= 80:
		return models.TierVeryGood
	case score >= 70:
		return models.TierGood
	case score >= 60:
		return models.TierSatisfactory
	default:
		return models.TierNeedsImprovement
	}
}

func NeedsAttention(score, averageRating float64, criticalIncidents int) bool {
	return score < attentionScore || averageRating < attentionRating || criticalIncidents > 0
}

// StarBucket rounds a rating to its star. ok is false when the star falls outside 1..5.
func StarBucket(rating float64) (star int, ok bool) {
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0, false
	}
	star = int(math.Round(rating))
	return star, star >= 1 && star <= 5
}
