package dto

// ── event DTOs ──

// CreateEventRequest create an event
type CreateEventRequest struct {
	Type                 string   `json:"type"                   binding:"required,oneof=Panel Carousel TeamResidential Training Conference CandidatesPanel"`
	PanelNumber          string   `json:"panel_number"           binding:"omitempty,max=50"`
	HelperPanelID        *int     `json:"helper_panel_id"`
	Date                 string   `json:"date"                   binding:"required"`
	Time                 *string  `json:"time"`
	WeekNumber           int      `json:"week_number"            binding:"required,min=1,max=53"`
	VenueID              string   `json:"venue_id"               binding:"required"`
	SecretaryID          *string  `json:"secretary_id"`
	ImpactedSecretaryIDs []string `json:"impacted_secretary_ids"`
	Status               string   `json:"status"                 binding:"omitempty,oneof=Confirmed Booked Available Cancelled"`
	EstimatedAttendance  int      `json:"estimated_attendance"   binding:"min=0"`
	ActualAttendance     int      `json:"actual_attendance"      binding:"min=0"`
	ReportDate           *string  `json:"report_date"`
	ReportDeadline       *string  `json:"report_deadline"`
	Notes                string   `json:"notes"                  binding:"omitempty,max=2000"`
}

// UpdateEventRequest partial update; Version must match the stored row
type UpdateEventRequest struct {
	Type                 *string   `json:"type"                 binding:"omitempty,oneof=Panel Carousel TeamResidential Training Conference CandidatesPanel"`
	PanelNumber          *string   `json:"panel_number"         binding:"omitempty,max=50"`
	HelperPanelID        *int      `json:"helper_panel_id"`
	Date                 *string   `json:"date"`
	Time                 *string   `json:"time"`
	WeekNumber           *int      `json:"week_number"          binding:"omitempty,min=1,max=53"`
	VenueID              *string   `json:"venue_id"`
	SecretaryID          *string   `json:"secretary_id"`
	ImpactedSecretaryIDs *[]string `json:"impacted_secretary_ids"`
	Status               *string   `json:"status"               binding:"omitempty,oneof=Confirmed Booked Available Cancelled"`
	EstimatedAttendance  *int      `json:"estimated_attendance" binding:"omitempty,min=0"`
	ActualAttendance     *int      `json:"actual_attendance"    binding:"omitempty,min=0"`
	ReportDate           *string   `json:"report_date"`
	ReportDeadline       *string   `json:"report_deadline"`
	Notes                *string   `json:"notes"                binding:"omitempty,max=2000"`
	Version              int       `json:"version"              binding:"required,min=1"`
}

// EventListRequest list filters
type EventListRequest struct {
	PaginationRequest
	Season      string `form:"season"`
	From        string `form:"from"`
	To          string `form:"to"`
	Type        string `form:"type"`
	Status      string `form:"status"`
	SecretaryID string `form:"secretary_id"`
	VenueID     string `form:"venue_id"`
}

// HistoricalAttendanceRequest query for GET /events/historical-attendance
type HistoricalAttendanceRequest struct {
	WeekNumber int    `form:"week" binding:"required,min=1,max=53"`
	Type       string `form:"type" binding:"required,oneof=Panel Carousel TeamResidential Training Conference CandidatesPanel"`
}

// EventResponse event with derived scheduling dates
type EventResponse struct {
	ID                   string         `json:"id"`
	Type                 string         `json:"type"`
	PanelNumber          string         `json:"panel_number,omitempty"`
	HelperPanelID        *int           `json:"helper_panel_id,omitempty"`
	Date                 string         `json:"date"`
	Time                 string         `json:"time,omitempty"`
	WeekNumber           int            `json:"week_number"`
	Venue                *VenueResponse `json:"venue,omitempty"`
	SecretaryID          string         `json:"secretary_id,omitempty"`
	SecretaryName        string         `json:"secretary_name,omitempty"`
	ImpactedSecretaryIDs []string       `json:"impacted_secretary_ids,omitempty"`
	Status               string         `json:"status"`
	EstimatedAttendance  int            `json:"estimated_attendance"`
	ActualAttendance     int            `json:"actual_attendance"`
	ReportDate           string         `json:"report_date,omitempty"`
	ReportDeadline       string         `json:"report_deadline,omitempty"`
	Notes                string         `json:"notes,omitempty"`
	Version              int            `json:"version"`

	Season            string   `json:"season"`
	ReportDueDate     string   `json:"report_due_date,omitempty"`
	PaperworkDueDate  string   `json:"paperwork_due_date"`
	HistoricalAverage *float64 `json:"historical_average,omitempty"`
}

// HistoricalAttendanceResponse past attendance for one week/type bucket
type HistoricalAttendanceResponse struct {
	WeekNumber      int     `json:"week_number"`
	Type            string  `json:"type"`
	Events          int64   `json:"events"`
	TotalCandidates int64   `json:"total_candidates"`
	AvgPerEvent     float64 `json:"avg_per_event"`
}
