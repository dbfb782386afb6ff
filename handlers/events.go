package handlers

import (
	"net/http"

	"caretrust/models"
	"caretrust/services/triggers"

	"github.com/gin-gonic/gin"
)

// EventHandler ingests review and booking change events from the platform.
type EventHandler struct {
	Triggers *triggers.Triggers
}

func NewEventHandler(t *triggers.Triggers) *EventHandler {
	return &EventHandler{Triggers: t}
}

// ReviewCreatedHandler stores a new review and queues its incident check.
func (h *EventHandler) ReviewCreatedHandler(c *gin.Context) {
	var review models.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		bindError(c, err)
		return
	}
	stored, err := h.Triggers.IngestReview(c.Request.Context(), review)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"reviewId": stored.ID})
}

// BookingUpdatedHandler mirrors the new state of a booking.
func (h *EventHandler) BookingUpdatedHandler(c *gin.Context) {
	var booking models.Booking
	if err := c.ShouldBindJSON(&booking); err != nil {
		bindError(c, err)
		return
	}
	if err := h.Triggers.IngestBookingUpdate(c.Request.Context(), booking); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"bookingId": booking.ID})
}
