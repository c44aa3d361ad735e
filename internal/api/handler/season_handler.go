package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/pkg/response"
)

// SeasonHandler season listing and validation report
type SeasonHandler struct {
	seasonSvc service.SeasonService
}

// NewSeasonHandler creates a SeasonHandler
func NewSeasonHandler(seasonSvc service.SeasonService) *SeasonHandler {
	return &SeasonHandler{seasonSvc: seasonSvc}
}

// ListSeasons
// GET /api/v1/seasons
func (h *SeasonHandler) ListSeasons(c *gin.Context) {
	seasons, err := h.seasonSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, seasons)
}

// SeasonReport runs every season rule and returns the issues found.
// GET /api/v1/season-report?season=2024-25
func (h *SeasonHandler) SeasonReport(c *gin.Context) {
	var req dto.SeasonReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBinding(c, err)
		return
	}

	report, err := h.seasonSvc.Report(c.Request.Context(), req.Season)
	if err != nil {
		h.handleSeasonError(c, err)
		return
	}

	response.OK(c, report)
}

func (h *SeasonHandler) handleSeasonError(c *gin.Context, err error) {
	if inputProblems(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrInvalidSeason):
		response.BadRequest(c, 20005, err.Error())
	default:
		response.InternalError(c)
	}
}
