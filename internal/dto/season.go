package dto

import "github.com/oxtobyd/panelplanner/internal/validation"

// SeasonReportRequest ?season= for the report and its exports
type SeasonReportRequest struct {
	Season string `form:"season" binding:"required"`
}

// SeasonReportResponse validation outcome for one season
type SeasonReportResponse struct {
	Season       string             `json:"season"`
	GeneratedAt  string             `json:"generated_at"`
	EventCount   int                `json:"event_count"`
	ErrorCount   int                `json:"error_count"`
	WarningCount int                `json:"warning_count"`
	Issues       []validation.Issue `json:"issues"`
}

// SeasonsResponse distinct seasons with at least one live event
type SeasonsResponse struct {
	Seasons []string `json:"seasons"`
	Current string   `json:"current"`
}
