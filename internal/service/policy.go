package service

import (
	"fmt"
	"time"

	"github.com/oxtobyd/panelplanner/config"
	"github.com/oxtobyd/panelplanner/internal/validation"
)

// PolicyFromConfig converts the policy section into engine constants. Rest
// tables are not configurable and keep their defaults.
func PolicyFromConfig(cfg *config.PolicyConfig) (validation.Policy, error) {
	p := validation.DefaultPolicy()
	if cfg == nil {
		return p, nil
	}

	if cfg.Quotas != nil {
		p.Quotas = make([]validation.Quota, 0, len(cfg.Quotas))
		for _, q := range cfg.Quotas {
			p.Quotas = append(p.Quotas, validation.Quota{
				Secretary:    q.Secretary,
				MaxCarousels: q.MaxCarousels,
				MaxPanels:    q.MaxPanels,
			})
		}
	}

	if cfg.FixedUnavailability != nil {
		p.FixedUnavailability = make([]validation.Unavailability, 0, len(cfg.FixedUnavailability))
		for _, u := range cfg.FixedUnavailability {
			days, err := parseWeekdays(u.Weekdays)
			if err != nil {
				return p, fmt.Errorf("fixed unavailability for %s: %w", u.Secretary, err)
			}
			p.FixedUnavailability = append(p.FixedUnavailability, validation.Unavailability{
				Secretary: u.Secretary,
				Weekdays:  days,
			})
		}
	}

	if len(cfg.CarouselDays) > 0 {
		days, err := parseWeekdays(cfg.CarouselDays)
		if err != nil {
			return p, fmt.Errorf("carousel days: %w", err)
		}
		p.CarouselDays = days
	}

	if cfg.MinAfternoonRatio > 0 {
		p.MinAfternoonRatio = cfg.MinAfternoonRatio
	}
	if cfg.AfternoonHour > 0 {
		p.AfternoonHour = cfg.AfternoonHour
	}
	if cfg.MinHolidayRatio > 0 {
		p.MinHolidayRatio = cfg.MinHolidayRatio
	}
	if cfg.MaxCarouselsTwoDays > 0 {
		p.MaxCarouselsTwoDays = cfg.MaxCarouselsTwoDays
	}
	return p, nil
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		d, err := config.ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
