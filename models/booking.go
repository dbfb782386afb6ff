package models

import "time"

// Booking statuses as written by the booking workflow.
const (
	BookingRequested  = "requested"
	BookingAccepted   = "accepted"
	BookingInProgress = "in_progress"
	BookingCompleted  = "completed"
	BookingCancelled  = "cancelled"
	BookingNoShow     = "no_show"
)

// Booking is a mirror of the booking workflow's record. The quality engine only reads it.
type Booking struct {
	ID          string     `bson:"id" json:"id"`
	CaregiverID string     `bson:"caregiverId" json:"caregiverId"`
	ClientID    string     `bson:"clientId" json:"clientId"`
	Status      string     `bson:"status" json:"status"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
	AcceptedAt  *time.Time `bson:"acceptedAt,omitempty" json:"acceptedAt,omitempty"`
	StartTime   *time.Time `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime     *time.Time `bson:"endTime,omitempty" json:"endTime,omitempty"`
	CancelledBy string     `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"` // user id of whoever cancelled
	UpdatedAt   time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// BookingUpdate carries the before/after images of a booking change.
type BookingUpdate struct {
	Before Booking `json:"before"`
	After  Booking `json:"after"`
}
