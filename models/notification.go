package models

import "time"

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification types.
const (
	NotificationCriticalIncident = "critical_incident"
	NotificationIncidentCreated  = "incident_created"
	NotificationLowRatingAlert   = "low_rating_alert"
)

// Notification is a per-user inbox entry. Only the read flag is ever changed, and not by this service.
type Notification struct {
	ID        string    `bson:"id" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Title     string    `bson:"title" json:"title"`
	Message   string    `bson:"message" json:"message"`
	Type      string    `bson:"type" json:"type"`
	RelatedID string    `bson:"relatedId" json:"relatedId"`
	Priority  string    `bson:"priority" json:"priority"`
	IsRead    bool      `bson:"isRead" json:"isRead"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// AdminAlert is a platform-wide alert shown on the admin console.
type AdminAlert struct {
	ID             string    `bson:"id" json:"id"`
	Type           string    `bson:"type" json:"type"`
	Title          string    `bson:"title" json:"title"`
	Message        string    `bson:"message" json:"message"`
	IncidentID     string    `bson:"incidentId" json:"incidentId"`
	IncidentNumber string    `bson:"incidentNumber" json:"incidentNumber"`
	Severity       string    `bson:"severity" json:"severity"`
	ReporterID     string    `bson:"reporterId" json:"reporterId"`
	ReporterName   string    `bson:"reporterName" json:"reporterName"`
	Priority       string    `bson:"priority" json:"priority"`
	IsRead         bool      `bson:"isRead" json:"isRead"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
}
