package handlers

import (
	"errors"
	"net/http"

	"caretrust/database/repository"
	"caretrust/services/incident"
	"caretrust/services/triggers"
	"caretrust/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var ie *incident.IncidentError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.JSONErrorWithCode(c, http.StatusNotFound, "notFound", "Not found", err.Error())
	case errors.As(err, &ie) && errors.Is(err, incident.ErrInvalidInput):
		utils.JSONErrorWithCode(c, http.StatusBadRequest, ie.Code, ie.Message, "")
	case errors.As(err, &ie):
		utils.JSONErrorWithCode(c, http.StatusConflict, ie.Code, ie.Message, "")
	case errors.Is(err, triggers.ErrInvalidEvent):
		utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalidEvent", "Invalid event", err.Error())
	case errors.Is(err, incident.ErrMalformedIncidentNumber):
		utils.JSONErrorWithCode(c, http.StatusInternalServerError, "malformedIncidentNumber", "Incident numbering is blocked", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", err.Error())
	}
}

func bindError(c *gin.Context, err error) {
	utils.JSONErrorWithCode(c, http.StatusBadRequest, "invalidBody", "Invalid request body", err.Error())
}
