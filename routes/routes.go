package routes

import (
	"net/http"
	"time"

	"caretrust/handlers"
	"caretrust/metrics"
	"caretrust/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterEventRoutes registers the review and booking ingest endpoints.
func RegisterEventRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/events")
	{
		api.Use(hb.ServiceAuth)
		api.POST("/reviews", hb.Events.ReviewCreatedHandler)
		api.POST("/bookings", hb.Events.BookingUpdatedHandler)
	}
}

// RegisterIncidentRoutes registers incident reporting and lifecycle endpoints.
func RegisterIncidentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/incidents")
	{
		api.Use(hb.AdminAuth)
		api.POST("", hb.Incidents.ReportHandler)
		api.GET("/:id", hb.Incidents.GetHandler)
		api.POST("/:id/assign", hb.Incidents.AssignHandler)
		api.POST("/:id/investigate", hb.Incidents.InvestigateHandler)
		api.POST("/:id/escalate", hb.Incidents.EscalateHandler)
		api.POST("/:id/resolve", hb.Incidents.ResolveHandler)
		api.POST("/:id/close", hb.Incidents.CloseHandler)
		api.POST("/:id/notes", hb.Incidents.AddNoteHandler)
	}
}

// RegisterQualityRoutes registers the read side of quality metrics.
func RegisterQualityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/quality")
	{
		api.Use(hb.AdminAuth)
		api.GET("/caregivers/:id", hb.Quality.CaregiverMetricsHandler)
		api.GET("/leaderboard", hb.Quality.LeaderboardHandler)
		api.GET("/platform", hb.Quality.PlatformMetricsHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(hb.AdminAuth)
		adminGroup.POST("/metrics/recompute", hb.Admin.RecomputeAllHandler)
		adminGroup.POST("/metrics/recompute/:id", hb.Admin.RecomputeCaregiverHandler)
	}
}

// RegisterHealthRoute registers the health and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		if !status.Healthy() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependencies": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "dependencies": status})
	})
	r.GET("/metrics", metrics.MetricsHandler())
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterEventRoutes(r, hb)
	RegisterIncidentRoutes(r, hb)
	RegisterQualityRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
