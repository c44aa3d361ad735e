package calendar

import (
	"sort"
	"sync"
	"time"
)

// BankHolidays is the process-wide set of England & Wales bank holidays keyed
// by yyyy-MM-dd. It starts empty, is populated once from a feed and is then
// read many times. An empty cache treats every day as a normal day.
type BankHolidays struct {
	mu     sync.RWMutex
	days   map[string]struct{}
	loaded bool
}

// NewBankHolidays builds a cache, pre-populated when dates are given.
func NewBankHolidays(dates ...string) *BankHolidays {
	bh := &BankHolidays{days: make(map[string]struct{})}
	if len(dates) > 0 {
		bh.Populate(dates)
	}
	return bh
}

// Populate replaces the cached set. Concurrent populations are last-write-wins;
// every feed returns the same data so the result is identical.
func (b *BankHolidays) Populate(dates []string) {
	days := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		days[d] = struct{}{}
	}
	b.mu.Lock()
	b.days = days
	b.loaded = true
	b.mu.Unlock()
}

// Loaded reports whether Populate has run.
func (b *BankHolidays) Loaded() bool {
	if b == nil {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loaded
}

// Contains reports whether the yyyy-MM-dd string is a cached bank holiday.
func (b *BankHolidays) Contains(date string) bool {
	if b == nil {
		return false
	}
	b.mu.RLock()
	_, ok := b.days[date]
	b.mu.RUnlock()
	return ok
}

// Len returns the number of cached dates.
func (b *BankHolidays) Len() int {
	if b == nil {
		return 0
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.days)
}

// Dates returns the cached dates sorted ascending.
func (b *BankHolidays) Dates() []string {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	out := make([]string, 0, len(b.days))
	for d := range b.days {
		out = append(out, d)
	}
	b.mu.RUnlock()
	sort.Strings(out)
	return out
}

// IsBankHoliday checks a yyyy-MM-dd string against the cache.
func IsBankHoliday(date string, cache *BankHolidays) bool {
	return cache.Contains(date)
}

// IsWorkingDay is a weekday that is not a cached bank holiday.
func IsWorkingDay(t time.Time, cache *BankHolidays) bool {
	return !IsWeekend(t) && !cache.Contains(FormatDate(t))
}
