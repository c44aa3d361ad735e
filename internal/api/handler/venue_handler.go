package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/pkg/response"
)

// VenueHandler venue endpoints
type VenueHandler struct {
	venueSvc service.VenueService
}

// NewVenueHandler creates a VenueHandler
func NewVenueHandler(venueSvc service.VenueService) *VenueHandler {
	return &VenueHandler{venueSvc: venueSvc}
}

// ListVenues
// GET /api/v1/venues
func (h *VenueHandler) ListVenues(c *gin.Context) {
	venues, err := h.venueSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": venues})
}

// CreateVenue
// POST /api/v1/venues
func (h *VenueHandler) CreateVenue(c *gin.Context) {
	var req dto.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	venue, err := h.venueSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, venue)
}
