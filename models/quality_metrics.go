package models

import "time"

// Performance tiers, highest first.
const (
	TierExcellent        = "Excellent"
	TierVeryGood         = "Very Good"
	TierGood             = "Good"
	TierSatisfactory     = "Satisfactory"
	TierNeedsImprovement = "Needs Improvement"
)

// StarDistribution counts reviews per rounded star, 1 through 5.
type StarDistribution struct {
	One   int `bson:"1" json:"1"`
	Two   int `bson:"2" json:"2"`
	Three int `bson:"3" json:"3"`
	Four  int `bson:"4" json:"4"`
	Five  int `bson:"5" json:"5"`
}

// Add increments the bucket for star. Stars outside 1..5 are ignored.
func (d *StarDistribution) Add(star int) bool {
	switch star {
	case 1:
		d.One++
	case 2:
		d.Two++
	case 3:
		d.Three++
	case 4:
		d.Four++
	case 5:
		d.Five++
	default:
		return false
	}
	return true
}

// Total is the number of bucketed reviews.
func (d StarDistribution) Total() int {
	return d.One + d.Two + d.Three + d.Four + d.Five
}

// QualityMetrics is one caregiver's snapshot for one computation run.
// Snapshots are append-only: each recomputation inserts a new document.
type QualityMetrics struct {
	ID                     string    `bson:"id" json:"id"`
	CaregiverID            string    `bson:"caregiverId" json:"caregiverId"`
	CalculationPeriodStart time.Time `bson:"calculationPeriodStart" json:"calculationPeriodStart"`
	CalculationPeriodEnd   time.Time `bson:"calculationPeriodEnd" json:"calculationPeriodEnd"`

	// response & completion
	AverageResponseTime  float64 `bson:"averageResponseTime" json:"averageResponseTime"` // hours
	AcceptanceRate       float64 `bson:"acceptanceRate" json:"acceptanceRate"`
	CompletionRate       float64 `bson:"completionRate" json:"completionRate"`
	CancelledByCaregiver int     `bson:"cancelledByCaregiver" json:"cancelledByCaregiver"`
	NoShows              int     `bson:"noShows" json:"noShows"`
	TotalBookings        int     `bson:"totalBookings" json:"totalBookings"`
	CompletedBookings    int     `bson:"completedBookings" json:"completedBookings"`

	// satisfaction
	AverageRating     float64          `bson:"averageRating" json:"averageRating"`
	TotalReviews      int              `bson:"totalReviews" json:"totalReviews"`
	StarDistribution  StarDistribution `bson:"starDistribution" json:"starDistribution"`
	UnbucketedRatings int              `bson:"unbucketedRatings" json:"unbucketedRatings"` // ratings rounding outside 1..5

	// issues
	TotalIncidents    int `bson:"totalIncidents" json:"totalIncidents"`
	CriticalIncidents int `bson:"criticalIncidents" json:"criticalIncidents"`

	// engagement
	TotalHoursWorked    float64 `bson:"totalHoursWorked" json:"totalHoursWorked"`
	UniqueClients       int     `bson:"uniqueClients" json:"uniqueClients"`
	RepeatClients       int     `bson:"repeatClients" json:"repeatClients"`
	ClientRetentionRate float64 `bson:"clientRetentionRate" json:"clientRetentionRate"`

	QualityScore    float64   `bson:"qualityScore" json:"qualityScore"`
	PerformanceTier string    `bson:"performanceTier" json:"performanceTier"`
	NeedsAttention  bool      `bson:"needsAttention" json:"needsAttention"`
	CalculatedAt    time.Time `bson:"calculatedAt" json:"calculatedAt"`
}

// PerformanceTierCounts is the platform histogram over the five tiers.
type PerformanceTierCounts struct {
	Excellent        int `bson:"excellent" json:"excellent"`
	VeryGood         int `bson:"veryGood" json:"veryGood"`
	Good             int `bson:"good" json:"good"`
	Satisfactory     int `bson:"satisfactory" json:"satisfactory"`
	NeedsImprovement int `bson:"needsImprovement" json:"needsImprovement"`
}

// CaregiverStatistics holds the platform threshold counts.
type CaregiverStatistics struct {
	HighPerformers        int `bson:"highPerformers" json:"highPerformers"`
	NeedingAttention      int `bson:"needingAttention" json:"needingAttention"`
	WithCriticalIncidents int `bson:"withCriticalIncidents" json:"withCriticalIncidents"`
}

// PlatformMetrics is one platform-wide rollup. Append-only.
type PlatformMetrics struct {
	ID                        string                `bson:"id" json:"id"`
	TotalCaregivers           int                   `bson:"totalCaregivers" json:"totalCaregivers"`
	SnapshotsConsidered       int                   `bson:"snapshotsConsidered" json:"snapshotsConsidered"`
	AverageQualityScore       float64               `bson:"averageQualityScore" json:"averageQualityScore"`
	AverageRating             float64               `bson:"averageRating" json:"averageRating"`
	AverageCompletionRate     float64               `bson:"averageCompletionRate" json:"averageCompletionRate"`
	CaregiverPerformanceTiers PerformanceTierCounts `bson:"caregiverPerformanceTiers" json:"caregiverPerformanceTiers"`
	CaregiverStatistics       CaregiverStatistics   `bson:"caregiverStatistics" json:"caregiverStatistics"`
	CalculatedAt              time.Time             `bson:"calculatedAt" json:"calculatedAt"`
}
