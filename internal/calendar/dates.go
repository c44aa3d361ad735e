// Package calendar holds the date arithmetic shared by the scheduling rules:
// civil-date normalisation, season labels, bank holidays, working days, due
// dates, Easter and multi-day event occupancy.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the canonical yyyy-MM-dd form used for bank-holiday keys and
// API payloads.
const DateLayout = "2006-01-02"

// Day normalises t to midnight UTC of its own calendar date. Every function in
// this package works on civil dates, so differences are whole days.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Date builds a civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders t as yyyy-MM-dd.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a yyyy-MM-dd string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// AddDays moves t by n calendar days.
func AddDays(t time.Time, n int) time.Time {
	return Day(t).AddDate(0, 0, n)
}

// DaysBetween returns the whole calendar days from a to b (negative when b
// is before a).
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// IsWeekend reports Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// StartOfWeek returns the Monday of t's ISO week.
func StartOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return AddDays(t, -(weekday - 1))
}

// WithinInclusive reports start <= t <= end at whole-day granularity.
func WithinInclusive(t, start, end time.Time) bool {
	d := Day(t)
	return !d.Before(Day(start)) && !d.After(Day(end))
}
