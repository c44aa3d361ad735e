package dto

import "github.com/oxtobyd/panelplanner/internal/workload"

// ── secretary DTOs ──

// CreateSecretaryRequest create a secretary
type CreateSecretaryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}

// SecretaryListRequest list query; Season narrows the workload figures
type SecretaryListRequest struct {
	Season          string `form:"season"`
	IncludeInactive bool   `form:"include_inactive"`
}

// AvailabilityRequest record a day-level exception
type AvailabilityRequest struct {
	SecretaryID string `json:"secretary_id" binding:"required"`
	Date        string `json:"date"         binding:"required"`
	IsAvailable *bool  `json:"is_available" binding:"required"`
	Reason      string `json:"reason"       binding:"omitempty,max=200"`
}

// AvailabilityResponse one recorded exception
type AvailabilityResponse struct {
	SecretaryID string `json:"secretary_id"`
	Date        string `json:"date"`
	IsAvailable bool   `json:"is_available"`
	Reason      string `json:"reason,omitempty"`
}

// SecretaryResponse secretary with workload for the requested season
type SecretaryResponse struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Active       bool                   `json:"active"`
	Availability []AvailabilityResponse `json:"availability"`
	Workload     workload.Workload      `json:"workload"`
}
