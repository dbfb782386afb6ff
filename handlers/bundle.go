package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers and the auth guards routes attach to them.
type HandlerBundle struct {
	Events    *EventHandler
	Incidents *IncidentHandler
	Quality   *QualityHandler
	Admin     *AdminHandler

	// AdminAuth guards incident management, quality reads and admin operations.
	AdminAuth gin.HandlerFunc
	// ServiceAuth guards event ingestion.
	ServiceAuth gin.HandlerFunc
}
