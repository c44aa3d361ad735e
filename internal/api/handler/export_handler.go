package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler file downloads
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// SeasonReport validation report as a workbook
// GET /api/v1/export/season-report?season=2024-25
func (h *ExportHandler) SeasonReport(c *gin.Context) {
	h.download(c, contentTypeXLSX, h.exportSvc.SeasonReport)
}

// EventsICS season events as an iCalendar feed
// GET /api/v1/export/events.ics?season=2024-25
func (h *ExportHandler) EventsICS(c *gin.Context) {
	h.download(c, contentTypeICS, h.exportSvc.EventsICS)
}

func (h *ExportHandler) download(c *gin.Context, contentType string,
	build func(ctx context.Context, season string) (*bytes.Buffer, string, error)) {
	var req dto.SeasonReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBinding(c, err)
		return
	}

	buf, filename, err := build(c.Request.Context(), req.Season)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	if inputProblems(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrInvalidSeason):
		response.BadRequest(c, 20005, err.Error())
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 23001, err.Error())
	default:
		response.InternalError(c)
	}
}
