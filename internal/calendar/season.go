package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SeasonStartMonth is the month a season begins. Seasons follow the academic
// year: 1 September 2024 through 31 August 2025 is "2024-25".
const SeasonStartMonth = time.September

// Season labels the season containing t.
func Season(t time.Time) string {
	d := Day(t)
	start := d.Year()
	if d.Month() < SeasonStartMonth {
		start--
	}
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// SeasonBounds returns the inclusive first and last day of a season label.
func SeasonBounds(label string) (time.Time, time.Time, error) {
	parts := strings.SplitN(label, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid season %q", label)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid season %q: %w", label, err)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil || end != (start+1)%100 {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid season %q", label)
	}
	first := Date(start, SeasonStartMonth, 1)
	last := first.AddDate(1, 0, -1)
	return first, last, nil
}
