package validation

import (
	"time"

	"github.com/oxtobyd/panelplanner/internal/restperiod"
)

// Quota caps how many Carousels and Panels a named secretary runs in one
// season.
type Quota struct {
	Secretary    string `mapstructure:"secretary"     json:"secretary"     yaml:"secretary"`
	MaxCarousels int    `mapstructure:"max_carousels" json:"max_carousels" yaml:"max_carousels"`
	MaxPanels    int    `mapstructure:"max_panels"    json:"max_panels"    yaml:"max_panels"`
}

// Unavailability is a fixed weekly rule for a named secretary, independent of
// recorded availability entries.
type Unavailability struct {
	Secretary string         `json:"secretary"`
	Weekdays  []time.Weekday `json:"weekdays"`
}

// Policy holds the tunable constants of the season rules.
type Policy struct {
	Quotas              []Quota
	FixedUnavailability []Unavailability

	MinAfternoonRatio float64 // fraction of Carousels starting at or after AfternoonHour
	AfternoonHour     int
	MinHolidayRatio   float64 // fraction of Panels+Carousels inside holiday terms

	CarouselDays        []time.Weekday
	MaxCarouselsTwoDays int

	RestTable restperiod.Table
	Severe    restperiod.Table
}

// DefaultPolicy returns the production rule constants.
func DefaultPolicy() Policy {
	return Policy{
		Quotas: []Quota{
			{Secretary: "Robert Avery", MaxCarousels: 8, MaxPanels: 4},
			{Secretary: "Carys Walsh", MaxCarousels: 8, MaxPanels: 4},
			{Secretary: "Joy Gilliver", MaxCarousels: 3, MaxPanels: 2},
		},
		FixedUnavailability: []Unavailability{
			{Secretary: "Robert Avery", Weekdays: []time.Weekday{time.Monday, time.Tuesday}},
		},
		MinAfternoonRatio:   0.20,
		AfternoonHour:       12,
		MinHolidayRatio:     0.10,
		CarouselDays:        []time.Weekday{time.Tuesday, time.Wednesday, time.Friday},
		MaxCarouselsTwoDays: 4,
		RestTable:           restperiod.SeasonReportTable,
		Severe:              restperiod.SevereThresholds,
	}
}

// withDefaults fills zero fields from DefaultPolicy so callers can override
// only what they need.
func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.Quotas == nil {
		p.Quotas = d.Quotas
	}
	if p.FixedUnavailability == nil {
		p.FixedUnavailability = d.FixedUnavailability
	}
	if p.MinAfternoonRatio == 0 {
		p.MinAfternoonRatio = d.MinAfternoonRatio
	}
	if p.AfternoonHour == 0 {
		p.AfternoonHour = d.AfternoonHour
	}
	if p.MinHolidayRatio == 0 {
		p.MinHolidayRatio = d.MinHolidayRatio
	}
	if len(p.CarouselDays) == 0 {
		p.CarouselDays = d.CarouselDays
	}
	if p.MaxCarouselsTwoDays == 0 {
		p.MaxCarouselsTwoDays = d.MaxCarouselsTwoDays
	}
	if p.RestTable == nil {
		p.RestTable = d.RestTable
	}
	if p.Severe == nil {
		p.Severe = d.Severe
	}
	return p
}
