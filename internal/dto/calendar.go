package dto

// CalendarRequest month grid query
type CalendarRequest struct {
	Year  int `form:"year"  binding:"required,min=2000,max=2100"`
	Month int `form:"month" binding:"required,min=1,max=12"`
}

// CalendarEntry one event occupying a day. Day is 1-based within a
// multi-day event.
type CalendarEntry struct {
	EventID   string `json:"event_id"`
	Type      string `json:"type"`
	Label     string `json:"label"`
	Secretary string `json:"secretary,omitempty"`
	Status    string `json:"status"`
	Day       int    `json:"day"`
	Span      int    `json:"span"`
}

// CalendarDay one cell of the month grid
type CalendarDay struct {
	Date          string          `json:"date"`
	Weekday       string          `json:"weekday"`
	IsWeekend     bool            `json:"is_weekend"`
	IsBankHoliday bool            `json:"is_bank_holiday"`
	IsHolyWeek    bool            `json:"is_holy_week"`
	Term          string          `json:"term,omitempty"`
	TermType      string          `json:"term_type,omitempty"`
	Events        []CalendarEntry `json:"events"`
}

// CalendarMonthResponse month grid
type CalendarMonthResponse struct {
	Year   int           `json:"year"`
	Month  int           `json:"month"`
	Season string        `json:"season"`
	Days   []CalendarDay `json:"days"`
}

// BankHolidaysResponse cached bank holiday dates
type BankHolidaysResponse struct {
	Loaded bool     `json:"loaded"`
	Dates  []string `json:"dates"`
}
