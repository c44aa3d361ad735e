package model

// AttendanceStats past attendance for one (week number, event type) bucket
type AttendanceStats struct {
	WeekNumber      int       `json:"week_number"`
	Type            EventType `json:"type"`
	Events          int64     `json:"events"`
	TotalCandidates int64     `json:"total_candidates"`
	AvgPerEvent     float64   `json:"avg_per_event"`
}
