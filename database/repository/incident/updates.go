package incidentRepo

import (
	"time"

	"caretrust/models"

	"go.mongodb.org/mongo-driver/bson"
)

// buildUpdate turns a patch into a $set (and optional $push) document.
func buildUpdate(u models.IncidentUpdate) bson.M {
	set := bson.M{}
	if u.Status != nil {
		set["status"] = *u.Status
	}
	if u.Severity != nil {
		set["severity"] = *u.Severity
	}
	if u.AssignedTo != nil {
		set["assignedTo"] = *u.AssignedTo
	}
	if u.AssignedToName != nil {
		set["assignedToName"] = *u.AssignedToName
	}
	if u.Resolution != nil {
		set["resolution"] = *u.Resolution
	}
	if u.ResolvedAt != nil {
		set["resolvedAt"] = *u.ResolvedAt
	}
	if u.ResolvedBy != nil {
		set["resolvedBy"] = *u.ResolvedBy
	}
	if u.AutoEscalated != nil {
		set["autoEscalated"] = *u.AutoEscalated
	}
	if u.EscalatedAt != nil {
		set["escalatedAt"] = *u.EscalatedAt
	}
	if u.EscalatedBy != nil {
		set["escalatedBy"] = *u.EscalatedBy
	}
	if u.EscalationReason != nil {
		set["escalationReason"] = *u.EscalationReason
	}
	if u.ClosedAt != nil {
		set["closedAt"] = *u.ClosedAt
	}

	updatedAt := u.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	set["updatedAt"] = updatedAt

	doc := bson.M{"$set": set}
	if u.Timeline != nil {
		doc["$push"] = bson.M{"investigationTimeline": *u.Timeline}
	}
	return doc
}
