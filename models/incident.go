package models

import "time"

const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Incident lifecycle.
const (
	IncidentReported      = "reported"
	IncidentInvestigating = "investigating"
	IncidentEscalated     = "escalated"
	IncidentResolved      = "resolved"
	IncidentClosed        = "closed"
)

const IncidentTypeServiceQuality = "serviceQualityIssue"

// TimelineEntry is one step of an incident investigation. The timeline is append-only.
type TimelineEntry struct {
	Action      string    `bson:"action" json:"action"`
	PerformedBy string    `bson:"performedBy" json:"performedBy"`
	Timestamp   time.Time `bson:"timestamp" json:"timestamp"`
	Notes       string    `bson:"notes" json:"notes"`
}

// Incident is a formally tracked quality or safety issue. Incidents are never deleted.
type Incident struct {
	ID             string `bson:"id" json:"id"`
	IncidentNumber string `bson:"incidentNumber" json:"incidentNumber"` // INC-<year>-<6 digit sequence>
	Type           string `bson:"type" json:"type"`
	Severity       string `bson:"severity" json:"severity"`
	Status         string `bson:"status" json:"status"`

	ReporterID   string `bson:"reporterId" json:"reporterId"`
	ReporterName string `bson:"reporterName" json:"reporterName"`
	ReporterRole string `bson:"reporterRole" json:"reporterRole"`

	BookingID      string `bson:"bookingId,omitempty" json:"bookingId,omitempty"`
	SourceReviewID string `bson:"sourceReviewId,omitempty" json:"sourceReviewId,omitempty"` // set when generated from a review
	CaregiverID    string `bson:"caregiverId" json:"caregiverId"`
	CaregiverName  string `bson:"caregiverName" json:"caregiverName"`
	ClientID       string `bson:"clientId,omitempty" json:"clientId,omitempty"`
	ClientName     string `bson:"clientName,omitempty" json:"clientName,omitempty"`

	Title                 string          `bson:"title" json:"title"`
	Description           string          `bson:"description" json:"description"`
	IncidentDate          time.Time       `bson:"incidentDate" json:"incidentDate"`
	Location              *string         `bson:"location" json:"location"`
	Tags                  []string        `bson:"tags" json:"tags"`
	Evidence              []string        `bson:"evidence" json:"evidence"`
	InvestigationTimeline []TimelineEntry `bson:"investigationTimeline" json:"investigationTimeline"`

	AssignedTo     *string    `bson:"assignedTo" json:"assignedTo"`
	AssignedToName *string    `bson:"assignedToName" json:"assignedToName"`
	Resolution     *string    `bson:"resolution" json:"resolution"`
	ResolvedAt     *time.Time `bson:"resolvedAt" json:"resolvedAt"`
	ResolvedBy     *string    `bson:"resolvedBy" json:"resolvedBy"`

	AutoEscalated    bool       `bson:"autoEscalated" json:"autoEscalated"`
	EscalatedAt      *time.Time `bson:"escalatedAt" json:"escalatedAt"`
	EscalatedBy      *string    `bson:"escalatedBy" json:"escalatedBy"`
	EscalationReason *string    `bson:"escalationReason" json:"escalationReason"`
	ClosedAt         *time.Time `bson:"closedAt" json:"closedAt"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasTag reports whether the incident carries tag.
func (i Incident) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IncidentUpdate is a field-level patch. Nil fields are left untouched;
// Timeline, when set, is appended to investigationTimeline.
type IncidentUpdate struct {
	Status           *string
	Severity         *string
	AssignedTo       *string
	AssignedToName   *string
	Resolution       *string
	ResolvedAt       *time.Time
	ResolvedBy       *string
	AutoEscalated    *bool
	EscalatedAt      *time.Time
	EscalatedBy      *string
	EscalationReason *string
	ClosedAt         *time.Time
	Timeline         *TimelineEntry
	UpdatedAt        time.Time
}

// Apply copies the non-nil fields of u onto inc.
func (u IncidentUpdate) Apply(inc *Incident) {
	if u.Status != nil {
		inc.Status = *u.Status
	}
	if u.Severity != nil {
		inc.Severity = *u.Severity
	}
	if u.AssignedTo != nil {
		inc.AssignedTo = u.AssignedTo
	}
	if u.AssignedToName != nil {
		inc.AssignedToName = u.AssignedToName
	}
	if u.Resolution != nil {
		inc.Resolution = u.Resolution
	}
	if u.ResolvedAt != nil {
		inc.ResolvedAt = u.ResolvedAt
	}
	if u.ResolvedBy != nil {
		inc.ResolvedBy = u.ResolvedBy
	}
	if u.AutoEscalated != nil {
		inc.AutoEscalated = *u.AutoEscalated
	}
	if u.EscalatedAt != nil {
		inc.EscalatedAt = u.EscalatedAt
	}
	if u.EscalatedBy != nil {
		inc.EscalatedBy = u.EscalatedBy
	}
	if u.EscalationReason != nil {
		inc.EscalationReason = u.EscalationReason
	}
	if u.ClosedAt != nil {
		inc.ClosedAt = u.ClosedAt
	}
	if u.Timeline != nil {
		inc.InvestigationTimeline = append(inc.InvestigationTimeline, *u.Timeline)
	}
	if !u.UpdatedAt.IsZero() {
		inc.UpdatedAt = u.UpdatedAt
	}
}
