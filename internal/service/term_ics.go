package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/model"
)

// ── term calendar import ──────────────────────────────────────
//
// Schools and local authorities publish term dates as iCalendar feeds.
// Every VEVENT becomes one term or holiday period:
//   - all-day DTEND is exclusive, so the stored end date is DTEND - 1 day
//   - timed events keep their civil start and end days
//   - a missing DTEND means a single day
//   - summaries that read like a break are holidays, everything else a term
//   - consecutive pieces of the same named period are merged
// ──────────────────────────────────────────────────────────────

const (
	icsMaxFileSize  = 5 * 1024 * 1024
	icsFetchTimeout = 30 * time.Second
	termTimezone    = "Europe/London"
)

var holidayWords = []string{"holiday", "half term", "half-term", "halfterm", "break", "closed", "closure"}

// FetchICSContent downloads a feed. webcal:// is treated as https://.
func FetchICSContent(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build ICS request: %w", err)
	}
	client := &http.Client{Timeout: icsFetchTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch ICS: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch ICS: HTTP %d", resp.StatusCode)
	}
	return struct {
		io.Reader
		io.Closer
	}{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		Closer: resp.Body,
	}, nil
}

// ParseTermDatesICS converts a term calendar into TermDates sorted by start.
// Events without a summary or a readable DTSTART are skipped.
func ParseTermDatesICS(reader io.Reader, region string) ([]model.TermDate, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("parse ICS: %w", err)
	}

	loc, err := time.LoadLocation(termTimezone)
	if err != nil {
		loc = time.UTC
	}

	var periods []model.TermDate
	for _, evt := range cal.Events() {
		td, ok := parseTermEvent(evt, loc)
		if !ok {
			continue
		}
		td.Region = region
		periods = append(periods, td)
	}

	return mergeTermPeriods(periods), nil
}

func parseTermEvent(evt *ics.VEvent, loc *time.Location) (model.TermDate, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil || strings.TrimSpace(summary.Value) == "" {
		return model.TermDate{}, false
	}
	name := strings.TrimSpace(summary.Value)

	start, _, err := parseICSDate(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return model.TermDate{}, false
	}
	end := start
	if dtEnd, allDay, err := parseICSDate(evt, ics.ComponentPropertyDtEnd, loc); err == nil {
		end = dtEnd
		if allDay {
			end = calendar.AddDays(dtEnd, -1)
		}
	}
	if end.Before(start) {
		end = start
	}

	return model.TermDate{
		AcademicYear: academicYear(start),
		TermName:     name,
		StartDate:    start,
		EndDate:      end,
		Type:         classifyTermName(name),
	}, true
}

// parseICSDate returns the civil day of a date property and whether the value
// was date-only.
func parseICSDate(evt *ics.VEvent, propName ics.ComponentProperty, loc *time.Location) (time.Time, bool, error) {
	prop := evt.GetProperty(propName)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", propName)
	}
	val := strings.TrimSpace(prop.Value)

	if len(val) == len("20060102") {
		t, err := time.Parse("20060102", val)
		if err != nil {
			return time.Time{}, false, err
		}
		return calendar.Day(t), true, nil
	}

	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return calendar.Day(t.In(loc)), false, nil
	}
	t, err := time.Parse("20060102T150405", val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unreadable date %q", val)
	}
	return calendar.Day(t), false, nil
}

func classifyTermName(name string) string {
	lower := strings.ToLower(name)
	for _, w := range holidayWords {
		if strings.Contains(lower, w) {
			return model.TermTypeHoliday
		}
	}
	return model.TermTypeTerm
}

// academicYear is the calendar year the containing season starts in.
func academicYear(t time.Time) int {
	if t.Month() < calendar.SeasonStartMonth {
		return t.Year() - 1
	}
	return t.Year()
}

// mergeTermPeriods joins same-named, same-typed periods that touch or overlap.
func mergeTermPeriods(periods []model.TermDate) []model.TermDate {
	sort.SliceStable(periods, func(i, j int) bool {
		return periods[i].StartDate.Before(periods[j].StartDate)
	})

	out := make([]model.TermDate, 0, len(periods))
	for _, p := range periods {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if last.TermName == p.TermName && last.Type == p.Type &&
				!p.StartDate.After(calendar.AddDays(last.EndDate, 1)) {
				if p.EndDate.After(last.EndDate) {
					last.EndDate = p.EndDate
				}
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
