package handlers

import (
	"net/http"
	"strconv"

	"caretrust/services/quality"

	"github.com/gin-gonic/gin"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
)

type QualityHandler struct {
	Service quality.QualityService
}

func NewQualityHandler(svc quality.QualityService) *QualityHandler {
	return &QualityHandler{Service: svc}
}

// CaregiverMetricsHandler returns the newest snapshot for a caregiver.
func (h *QualityHandler) CaregiverMetricsHandler(c *gin.Context) {
	m, err := h.Service.LatestForCaregiver(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *QualityHandler) PlatformMetricsHandler(c *gin.Context) {
	m, err := h.Service.LatestPlatformMetrics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// LeaderboardHandler lists the best caregivers by latest score. ?limit= caps at 100.
func (h *QualityHandler) LeaderboardHandler(c *gin.Context) {
	n := defaultLeaderboardSize
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			bindError(c, strconv.ErrSyntax)
			return
		}
		n = min(v, maxLeaderboardSize)
	}
	entries, err := h.Service.Leaderboard(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
