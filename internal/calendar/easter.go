package calendar

import "time"

// EasterSunday computes Gregorian Easter with the Meeus/Jones/Butcher
// algorithm.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return Date(year, time.Month(month), day)
}

// HolyWeek returns the inclusive range [Easter Sunday - 7 days, Easter Sunday].
func HolyWeek(year int) (time.Time, time.Time) {
	easter := EasterSunday(year)
	return AddDays(easter, -7), easter
}

// IsInHolyWeek reports whether t falls in the Holy Week of any of years.
func IsInHolyWeek(t time.Time, years []int) bool {
	for _, y := range years {
		start, end := HolyWeek(y)
		if WithinInclusive(t, start, end) {
			return true
		}
	}
	return false
}
