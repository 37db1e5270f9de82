package handler

import (
	"complaintdesk/backend/internal/analysis"
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/covid"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeBadRequest   = "bad_request"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeNotFound     = "not_found"
	CodeConflict     = "conflict"
	CodeUpstream     = "upstream_error"
	CodeInternal     = "internal_error"
)

func respondError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "code": code})
}

// respondErr maps a service error to its HTTP status. Unrecognized errors
// are logged and reported as 500 without detail.
func (h *Handler) respondErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, complaint.ErrInvalidInput),
		errors.Is(err, covid.ErrUnknownMetric),
		errors.Is(err, models.ErrUnknownStatus),
		errors.Is(err, models.ErrUnknownRole):
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, CodeUnauthorized, err.Error())
	case errors.Is(err, complaint.ErrForbidden):
		respondError(c, http.StatusForbidden, CodeForbidden, "you cannot access this complaint")
	case errors.Is(err, complaint.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, "not found")
	case errors.Is(err, covid.ErrUpstream):
		respondError(c, http.StatusBadGateway, CodeUpstream, err.Error())
	case errors.Is(err, analysis.ErrUnknownRole):
		respondError(c, http.StatusForbidden, CodeForbidden, err.Error())
	default:
		h.Log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

func respondNotFound(c *gin.Context, what string) {
	respondError(c, http.StatusNotFound, CodeNotFound, what+" not found")
}
