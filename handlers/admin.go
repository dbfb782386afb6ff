package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecomputeRequester queues metric recomputations.
type RecomputeRequester interface {
	RequestScheduledRun(ctx context.Context) error
	RequestRecompute(ctx context.Context, caregiverID string) error
}

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Jobs   RecomputeRequester
	Logger *zap.Logger
}

func NewAdminHandler(jobs RecomputeRequester, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Jobs: jobs, Logger: logger}
}

// RecomputeAllHandler queues an out-of-schedule batch run.
func (ah *AdminHandler) RecomputeAllHandler(c *gin.Context) {
	if err := ah.Jobs.RequestScheduledRun(c.Request.Context()); err != nil {
		ah.Logger.Error("Failed to queue metrics run", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued"})
}

func (ah *AdminHandler) RecomputeCaregiverHandler(c *gin.Context) {
	id := c.Param("id")
	if err := ah.Jobs.RequestRecompute(c.Request.Context(), id); err != nil {
		ah.Logger.Error("Failed to queue caregiver recompute", zap.String("caregiverId", id), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "caregiverId": id})
}
