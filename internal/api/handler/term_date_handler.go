package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/pkg/response"
)

// TermDateHandler school term and holiday ranges
type TermDateHandler struct {
	termDateSvc service.TermDateService
}

// NewTermDateHandler creates a TermDateHandler
func NewTermDateHandler(termDateSvc service.TermDateService) *TermDateHandler {
	return &TermDateHandler{termDateSvc: termDateSvc}
}

// ListTermDates
// GET /api/v1/term-dates?year=2024
func (h *TermDateHandler) ListTermDates(c *gin.Context) {
	var req dto.TermDateListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBinding(c, err)
		return
	}

	list, err := h.termDateSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleTermDateError(c, err)
		return
	}

	response.OK(c, gin.H{"list": list})
}

// CreateTermDate
// POST /api/v1/term-dates
func (h *TermDateHandler) CreateTermDate(c *gin.Context) {
	var req dto.CreateTermDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	td, err := h.termDateSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleTermDateError(c, err)
		return
	}

	response.Created(c, td)
}

// UpdateTermDate
// PUT /api/v1/term-dates/:id
func (h *TermDateHandler) UpdateTermDate(c *gin.Context) {
	var req dto.UpdateTermDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	td, err := h.termDateSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleTermDateError(c, err)
		return
	}

	response.OK(c, td)
}

// DeleteTermDate
// DELETE /api/v1/term-dates/:id
func (h *TermDateHandler) DeleteTermDate(c *gin.Context) {
	if err := h.termDateSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleTermDateError(c, err)
		return
	}

	response.OK(c, nil)
}

// ImportTermDates loads periods from an iCalendar feed URL or pasted content
// POST /api/v1/term-dates/import
func (h *TermDateHandler) ImportTermDates(c *gin.Context) {
	var req dto.ImportTermDatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.termDateSvc.ImportICS(c.Request.Context(), &req)
	if err != nil {
		h.handleTermDateError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *TermDateHandler) handleTermDateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTermDateNotFound):
		response.NotFound(c, 22001, "term date not found")
	case errors.Is(err, service.ErrTermDateRange):
		response.BadRequest(c, 22002, err.Error())
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 20004, err.Error())
	case errors.Is(err, service.ErrTermImportSource):
		response.BadRequest(c, 22003, err.Error())
	case errors.Is(err, service.ErrTermImportParse):
		response.BadRequest(c, 22004, service.ErrTermImportParse.Error())
	case errors.Is(err, service.ErrTermImportFetch):
		response.Error(c, http.StatusBadGateway, 22005, service.ErrTermImportFetch.Error())
	default:
		response.InternalError(c)
	}
}
