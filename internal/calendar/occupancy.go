package calendar

import (
	"time"

	"github.com/oxtobyd/panelplanner/internal/model"
)

// SpanDays is how many consecutive calendar days an event of type t occupies.
func SpanDays(t model.EventType) int {
	if t == model.EventTypePanel {
		return panelSpanDays
	}
	return 1
}

// EventOccupiesDay reports whether the event takes place on day. A Panel
// covers [date, date+2]; every other type covers only its date. The calendar
// grid and the density rules both go through here.
func EventOccupiesDay(e *model.Event, day time.Time) bool {
	start := Day(e.Date)
	end := AddDays(start, SpanDays(e.Type)-1)
	return WithinInclusive(day, start, end)
}

// OccupiedDays lists every day the event covers, in order.
func OccupiedDays(e *model.Event) []time.Time {
	n := SpanDays(e.Type)
	days := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, AddDays(e.Date, i))
	}
	return days
}

// EventsOnDay filters events occupying day.
func EventsOnDay(events []model.Event, day time.Time) []model.Event {
	var out []model.Event
	for i := range events {
		if EventOccupiesDay(&events[i], day) {
			out = append(out, events[i])
		}
	}
	return out
}
