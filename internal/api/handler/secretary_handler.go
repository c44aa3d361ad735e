package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/pkg/response"
)

// SecretaryHandler secretaries and their availability calendar
type SecretaryHandler struct {
	secretarySvc service.SecretaryService
}

// NewSecretaryHandler creates a SecretaryHandler
func NewSecretaryHandler(secretarySvc service.SecretaryService) *SecretaryHandler {
	return &SecretaryHandler{secretarySvc: secretarySvc}
}

// ListSecretaries with per-season workload
// GET /api/v1/secretaries?season=2024-25
func (h *SecretaryHandler) ListSecretaries(c *gin.Context) {
	var req dto.SecretaryListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBinding(c, err)
		return
	}

	list, err := h.secretarySvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSecretaryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateSecretary
// POST /api/v1/secretaries
func (h *SecretaryHandler) CreateSecretary(c *gin.Context) {
	var req dto.CreateSecretaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	sec, err := h.secretarySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSecretaryError(c, err)
		return
	}

	response.Created(c, sec)
}

// ListAvailability
// GET /api/v1/secretaries/:id/availability
func (h *SecretaryHandler) ListAvailability(c *gin.Context) {
	list, err := h.secretarySvc.ListAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSecretaryError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// SetAvailability upserts one day of the availability calendar
// POST /api/v1/secretaries/availability
func (h *SecretaryHandler) SetAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	entry, err := h.secretarySvc.SetAvailability(c.Request.Context(), &req)
	if err != nil {
		h.handleSecretaryError(c, err)
		return
	}

	response.OK(c, entry)
}

// DeleteAvailability
// DELETE /api/v1/secretaries/:id/availability/:date
func (h *SecretaryHandler) DeleteAvailability(c *gin.Context) {
	if err := h.secretarySvc.DeleteAvailability(c.Request.Context(), c.Param("id"), c.Param("date")); err != nil {
		h.handleSecretaryError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *SecretaryHandler) handleSecretaryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSecretaryNotFound):
		response.NotFound(c, 21001, "secretary not found")
	case errors.Is(err, service.ErrAvailabilityNotFound):
		response.NotFound(c, 21002, "availability entry not found")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 20004, err.Error())
	case errors.Is(err, service.ErrInvalidSeason):
		response.BadRequest(c, 20005, err.Error())
	default:
		response.InternalError(c)
	}
}
