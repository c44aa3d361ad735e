package model

import "time"

const (
	TermTypeTerm    = "term"
	TermTypeHoliday = "holiday"
)

// TermDate school term or holiday period, table term_dates
type TermDate struct {
	TermDateID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"term_date_id"`
	AcademicYear int       `gorm:"not null"                                       json:"academic_year"`
	TermName     string    `gorm:"type:varchar(100);not null"                     json:"term_name"`
	StartDate    time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Type         string    `gorm:"type:varchar(10);not null"                      json:"type"` // term | holiday
	Region       string    `gorm:"type:varchar(50)"                               json:"region,omitempty"`
	BaseModel
}

// TableName table name
func (TermDate) TableName() string { return "term_dates" }

// IsHoliday reports whether the period is a school holiday.
func (t *TermDate) IsHoliday() bool { return t.Type == TermTypeHoliday }
