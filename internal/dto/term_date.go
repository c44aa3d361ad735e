package dto

// ── term date DTOs ──

// CreateTermDateRequest create a term or holiday period
type CreateTermDateRequest struct {
	AcademicYear int    `json:"academic_year" binding:"required,min=2000,max=2100"`
	TermName     string `json:"term_name"     binding:"required,max=100"`
	StartDate    string `json:"start_date"    binding:"required"`
	EndDate      string `json:"end_date"      binding:"required"`
	Type         string `json:"type"          binding:"required,oneof=term holiday"`
	Region       string `json:"region"        binding:"omitempty,max=50"`
}

// UpdateTermDateRequest partial update
type UpdateTermDateRequest struct {
	AcademicYear *int    `json:"academic_year" binding:"omitempty,min=2000,max=2100"`
	TermName     *string `json:"term_name"     binding:"omitempty,max=100"`
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	Type         *string `json:"type"          binding:"omitempty,oneof=term holiday"`
	Region       *string `json:"region"        binding:"omitempty,max=50"`
}

// TermDateListRequest ?year= filter
type TermDateListRequest struct {
	Year int `form:"year" binding:"omitempty,min=2000,max=2100"`
}

// TermDateResponse term or holiday period
type TermDateResponse struct {
	ID           string `json:"id"`
	AcademicYear int    `json:"academic_year"`
	TermName     string `json:"term_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Type         string `json:"type"`
	Region       string `json:"region,omitempty"`
}

// ImportTermDatesRequest import periods from an iCalendar feed; exactly one
// of URL and Content is set
type ImportTermDatesRequest struct {
	URL     string `json:"url"     binding:"omitempty,max=2000"`
	Content string `json:"content"`
	Region  string `json:"region"  binding:"omitempty,max=50"`
}

// ImportTermDatesResponse import outcome
type ImportTermDatesResponse struct {
	Imported  int                `json:"imported"`
	Skipped   int                `json:"skipped"`
	TermDates []TermDateResponse `json:"term_dates"`
}
