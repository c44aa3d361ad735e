package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/pkg/response"
)

// EventHandler Panel and Carousel endpoints
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler creates an EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// ListEvents
// GET /api/v1/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBinding(c, err)
		return
	}

	events, total, err := h.eventSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OKPage(c, events, total, req.GetPage(), req.GetPageSize())
}

// GetEvent
// GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// CreateEvent
// POST /api/v1/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, event)
}

// UpdateEvent applies a partial update guarded by the version field.
// PUT /api/v1/events/:id
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	event, err := h.eventSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent
// DELETE /api/v1/events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.eventSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// HistoricalAttendance average candidates for a week number and event type
// GET /api/v1/events/historical-attendance?week=12&type=Panel
func (h *EventHandler) HistoricalAttendance(c *gin.Context) {
	var req dto.HistoricalAttendanceRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.eventSvc.HistoricalAttendance(c.Request.Context(), &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	if inputProblems(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 20001, "event not found")
	case errors.Is(err, service.ErrEventConflict):
		response.Conflict(c, 20003, err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 20004, err.Error())
	case errors.Is(err, service.ErrInvalidSeason):
		response.BadRequest(c, 20005, err.Error())
	case errors.Is(err, service.ErrVenueNotFound):
		response.BadRequest(c, 20006, "venue does not exist")
	case errors.Is(err, service.ErrSecretaryNotFound):
		response.BadRequest(c, 20007, "secretary does not exist")
	default:
		response.InternalError(c)
	}
}
