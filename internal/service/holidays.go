package service

import (
	"context"

	"github.com/oxtobyd/panelplanner/internal/calendar"
)

// HolidayProvider hands out the process-wide bank holiday cache, filling it
// on first use. *calendar.Provisioner satisfies it.
type HolidayProvider interface {
	Ensure(ctx context.Context) error
	Cache() *calendar.BankHolidays
}

// bankHolidays returns the cache after one provisioning attempt. A feed
// failure has already been logged by the provider; the possibly empty cache
// is returned regardless.
func bankHolidays(ctx context.Context, p HolidayProvider) *calendar.BankHolidays {
	if p == nil {
		return nil
	}
	_ = p.Ensure(ctx)
	return p.Cache()
}
