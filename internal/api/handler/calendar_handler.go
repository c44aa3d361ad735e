package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/pkg/response"
)

// CalendarHandler month grid and bank holidays
type CalendarHandler struct {
	calendarSvc service.CalendarService
}

// NewCalendarHandler creates a CalendarHandler
func NewCalendarHandler(calendarSvc service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendarSvc: calendarSvc}
}

// Month
// GET /api/v1/calendar?year=2025&month=4
func (h *CalendarHandler) Month(c *gin.Context) {
	var req dto.CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBinding(c, err)
		return
	}

	month, err := h.calendarSvc.Month(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, month)
}

// BankHolidays
// GET /api/v1/bank-holidays
func (h *CalendarHandler) BankHolidays(c *gin.Context) {
	response.OK(c, h.calendarSvc.BankHolidays(c.Request.Context()))
}
