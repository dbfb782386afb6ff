package models

import "time"

// Review is a client's rating of a caregiver after a booking. Immutable once created.
type Review struct {
	ID           string    `bson:"id" json:"id"`
	BookingID    string    `bson:"bookingId" json:"bookingId"`
	ReviewerID   string    `bson:"reviewerId" json:"reviewerId"`
	ReviewerName string    `bson:"reviewerName" json:"reviewerName"`
	RevieweeID   string    `bson:"revieweeId" json:"revieweeId"`     // caregiver being rated
	RevieweeName string    `bson:"revieweeName" json:"revieweeName"`
	Rating       float64   `bson:"rating" json:"rating"`             // Expected value between 0 and 5.
	Comment      string    `bson:"comment" json:"comment"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
