// Package restperiod holds the minimum-gap rules between consecutive events
// run by the same secretary.
//
// Two rule tables exist side by side: WorkloadTable drives the per-secretary
// workload view, SeasonReportTable drives the season report. They disagree on
// Carousel→Carousel and Carousel→Panel and are kept separate on purpose.
package restperiod

import (
	"fmt"
	"sort"
	"time"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/model"
)

// Pair is an ordered (previous, next) event type combination.
type Pair struct {
	Prev model.EventType
	Next model.EventType
}

// Table maps a type pair to a minimum gap in calendar days.
type Table map[Pair]int

var (
	// WorkloadTable minimum gaps used by the workload aggregator.
	WorkloadTable = Table{
		{model.EventTypePanel, model.EventTypePanel}:       21,
		{model.EventTypeCarousel, model.EventTypeCarousel}: 7,
		{model.EventTypeCarousel, model.EventTypePanel}:    14,
		{model.EventTypePanel, model.EventTypeCarousel}:    10,
	}

	// SeasonReportTable minimum gaps used by the season validation engine.
	SeasonReportTable = Table{
		{model.EventTypePanel, model.EventTypePanel}:       21,
		{model.EventTypeCarousel, model.EventTypeCarousel}: 5,
		{model.EventTypeCarousel, model.EventTypePanel}:    10,
		{model.EventTypePanel, model.EventTypeCarousel}:    10,
	}

	// SevereThresholds gaps strictly below these are severe.
	SevereThresholds = Table{
		{model.EventTypePanel, model.EventTypePanel}:       14,
		{model.EventTypeCarousel, model.EventTypeCarousel}: 5,
		{model.EventTypeCarousel, model.EventTypePanel}:    10,
		{model.EventTypePanel, model.EventTypeCarousel}:    7,
	}
)

// Minimum returns the minimum gap for prev→next. ok is false for pairs the
// table does not cover (anything other than Panel/Carousel).
func (t Table) Minimum(prev, next model.EventType) (days int, ok bool) {
	days, ok = t[Pair{prev, next}]
	return days, ok
}

// Clone returns an independent copy; overrides is applied on top.
func (t Table) Clone(overrides Table) Table {
	out := make(Table, len(t)+len(overrides))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// ────── Classification ──────

// Class grades a gap between two events.
type Class int

const (
	GapOK Class = iota
	GapMinor
	GapSevere
)

func (c Class) String() string {
	switch c {
	case GapMinor:
		return "minor"
	case GapSevere:
		return "severe"
	}
	return "ok"
}

// MarshalText renders the class name in JSON payloads.
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Classify grades a gap of gap days between prev and next: severe below the
// severe threshold, minor below the workload minimum, ok otherwise.
func Classify(prev, next model.EventType, gap int) Class {
	if severe, ok := SevereThresholds.Minimum(prev, next); ok && gap < severe {
		return GapSevere
	}
	if minimum, ok := WorkloadTable.Minimum(prev, next); ok && gap < minimum {
		return GapMinor
	}
	return GapOK
}

// Describe names a pair the way reports phrase it, e.g. "Panel to Carousel".
func Describe(prev, next model.EventType) string {
	return fmt.Sprintf("%s to %s", prev, next)
}

// ────── Violations ──────

// Violation is one pair of events closer together than the table allows. It
// is reported against the later event.
type Violation struct {
	Earlier model.Event `json:"-"`
	Later   model.Event `json:"-"`

	Date    time.Time `json:"date"`
	EventID string    `json:"event_id"`
	Gap     int       `json:"gap_days"`
	Minimum int       `json:"minimum_days"`
	Class   Class     `json:"class"`
	Detail  string    `json:"detail"`
}

// Eligible returns the active Panel/Carousel events of the input, sorted by
// date then event ID. Cancelled and other types never take part in rest
// checks.
func Eligible(events []model.Event) []model.Event {
	out := make([]model.Event, 0, len(events))
	for i := range events {
		e := &events[i]
		if e.IsActive() && e.Type.IsIndividual() {
			out = append(out, *e)
		}
	}
	SortByDate(out)
	return out
}

// SortByDate orders events by civil date, breaking ties by event ID.
func SortByDate(events []model.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		di, dj := calendar.Day(events[i].Date), calendar.Day(events[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return events[i].EventID < events[j].EventID
	})
}

// BySecretary groups events by assigned secretary ID. Events without a
// secretary are skipped. Keys are returned sorted for stable iteration.
func BySecretary(events []model.Event) (map[string][]model.Event, []string) {
	groups := make(map[string][]model.Event)
	for i := range events {
		id := events[i].SecretaryRef()
		if id == "" {
			continue
		}
		groups[id] = append(groups[id], events[i])
	}
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys
}

// Adjacent compares each eligible event only with its immediate successor,
// O(n). events are expected to belong to a single secretary.
func Adjacent(events []model.Event, table Table) []Violation {
	sorted := Eligible(events)
	var out []Violation
	for i := 1; i < len(sorted); i++ {
		if v, ok := check(sorted[i-1], sorted[i], table); ok {
			out = append(out, v)
		}
	}
	return out
}

// Pairwise compares every eligible event with every later one, O(n²), so
// three events bunched together yield a violation for each close pair.
// events are expected to belong to a single secretary.
func Pairwise(events []model.Event, table Table) []Violation {
	sorted := Eligible(events)
	var out []Violation
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if v, ok := check(sorted[i], sorted[j], table); ok {
				out = append(out, v)
			}
		}
	}
	return out
}

func check(earlier, later model.Event, table Table) (Violation, bool) {
	minimum, ok := table.Minimum(earlier.Type, later.Type)
	if !ok {
		return Violation{}, false
	}
	gap := calendar.DaysBetween(earlier.Date, later.Date)
	if gap >= minimum {
		return Violation{}, false
	}
	return Violation{
		Earlier: earlier,
		Later:   later,
		Date:    calendar.Day(later.Date),
		EventID: later.EventID,
		Gap:     gap,
		Minimum: minimum,
		Class:   Classify(earlier.Type, later.Type, gap),
		Detail: fmt.Sprintf("%s only %d days apart (minimum %d)",
			Describe(earlier.Type, later.Type), gap, minimum),
	}, true
}
