package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"caretrust/middleware"
	"caretrust/models"
	"caretrust/services/incident"

	"github.com/gin-gonic/gin"
)

type IncidentHandler struct {
	Service incident.IncidentService
}

func NewIncidentHandler(svc incident.IncidentService) *IncidentHandler {
	return &IncidentHandler{Service: svc}
}

type assignRequest struct {
	AssigneeID   string `json:"assigneeId" binding:"required"`
	AssigneeName string `json:"assigneeName"`
}

type notesRequest struct {
	Notes string `json:"notes"`
}

type reasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type resolutionRequest struct {
	Resolution string `json:"resolution" binding:"required"`
}

// bindOptionalJSON binds the body when there is one. An empty body leaves req zeroed.
func bindOptionalJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func actorFrom(c *gin.Context) incident.Actor {
	return incident.Actor{ID: c.GetString(middleware.ActorIDKey), Name: c.GetString(middleware.ActorNameKey)}
}

// ReportHandler files a manual incident. The reporter defaults to the caller.
func (h *IncidentHandler) ReportHandler(c *gin.Context) {
	var in incident.ReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		bindError(c, err)
		return
	}
	actor := actorFrom(c)
	if in.ReporterID == "" {
		in.ReporterID = actor.ID
		in.ReporterName = actor.Name
		in.ReporterRole = c.GetString(middleware.ActorRoleKey)
	}
	inc, err := h.Service.Report(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inc)
}

func (h *IncidentHandler) GetHandler(c *gin.Context) {
	inc, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inc)
}

func (h *IncidentHandler) AssignHandler(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context, id string, actor incident.Actor) (*models.Incident, error) {
		return h.Service.Assign(ctx, id, actor, req.AssigneeID, req.AssigneeName)
	})
}

func (h *IncidentHandler) InvestigateHandler(c *gin.Context) {
	var req notesRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context, id string, actor incident.Actor) (*models.Incident, error) {
		return h.Service.StartInvestigation(ctx, id, actor, req.Notes)
	})
}

func (h *IncidentHandler) EscalateHandler(c *gin.Context) {
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context, id string, actor incident.Actor) (*models.Incident, error) {
		return h.Service.Escalate(ctx, id, actor, req.Reason)
	})
}

func (h *IncidentHandler) ResolveHandler(c *gin.Context) {
	var req resolutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context, id string, actor incident.Actor) (*models.Incident, error) {
		return h.Service.Resolve(ctx, id, actor, req.Resolution)
	})
}

func (h *IncidentHandler) CloseHandler(c *gin.Context) {
	var req notesRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		bindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context, id string, actor incident.Actor) (*models.Incident, error) {
		return h.Service.Close(ctx, id, actor, req.Notes)
	})
}

func (h *IncidentHandler) AddNoteHandler(c *gin.Context) {
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	h.respond(c, func(ctx context.Context, id string, actor incident.Actor) (*models.Incident, error) {
		return h.Service.AddNote(ctx, id, actor, req.Notes)
	})
}

func (h *IncidentHandler) respond(c *gin.Context, op func(ctx context.Context, id string, actor incident.Actor) (*models.Incident, error)) {
	inc, err := op(c.Request.Context(), c.Param("id"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inc)
}
