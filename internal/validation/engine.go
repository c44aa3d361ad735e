// Package validation runs the season rule set over a snapshot of events and
// returns the policy breaches it finds.
//
// The engine is pure: it never mutates its inputs, keeps no state between
// calls and produces the same ordered issue list for the same input.
package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/restperiod"
)

const displayDate = "02/01/2006"

// Snapshot is everything one validation run reads.
type Snapshot struct {
	Events       []model.Event
	Secretaries  []model.Secretary // optional; enables recorded-availability checks
	BankHolidays *calendar.BankHolidays
	TermDates    []model.TermDate
}

// Engine evaluates the season rules under one Policy.
type Engine struct {
	policy Policy
}

// NewEngine creates an engine; zero Policy fields take production defaults.
func NewEngine(p Policy) *Engine {
	return &Engine{policy: p.withDefaults()}
}

// Policy returns the effective policy.
func (e *Engine) Policy() Policy { return e.policy }

// ValidateSeason runs every rule over events for season.
func (e *Engine) ValidateSeason(events []model.Event, bankHolidays *calendar.BankHolidays, termDates []model.TermDate, season string) ([]Issue, error) {
	return e.ValidateSeasonWith(Snapshot{Events: events, BankHolidays: bankHolidays, TermDates: termDates}, season)
}

// ValidateSeasonWith is ValidateSeason plus the secretary directory, which
// resolves names and adds the recorded-availability rule.
func (e *Engine) ValidateSeasonWith(snap Snapshot, season string) ([]Issue, error) {
	if season == "" {
		return nil, &InputError{Problems: []FieldProblem{{Field: "season", Problem: "is required"}}}
	}
	if err := CheckInput(snap.Events, season); err != nil {
		return nil, err
	}

	r := newRun(e.policy, snap, season)
	r.afternoonRatio()
	r.secretaryQuotas()
	r.restPeriods()
	r.holidayRatio()
	r.perEvent()
	r.recordedAvailability()

	sortIssues(r.issues)
	return r.issues, nil
}

// ────── run state ──────

type run struct {
	policy Policy
	season string

	all    []model.Event // every event, sorted
	active []model.Event // non-cancelled events in season, sorted

	secretaries  map[string]*model.Secretary
	bankHolidays *calendar.BankHolidays
	termDates    []model.TermDate

	issues []Issue
}

func newRun(p Policy, snap Snapshot, season string) *run {
	all := make([]model.Event, len(snap.Events))
	copy(all, snap.Events)
	restperiod.SortByDate(all)

	active := make([]model.Event, 0, len(all))
	for i := range all {
		if all[i].IsActive() && calendar.Season(all[i].Date) == season {
			active = append(active, all[i])
		}
	}

	secretaries := make(map[string]*model.Secretary, len(snap.Secretaries))
	for i := range snap.Secretaries {
		secretaries[snap.Secretaries[i].SecretaryID] = &snap.Secretaries[i]
	}

	return &run{
		policy:       p,
		season:       season,
		all:          all,
		active:       active,
		secretaries:  secretaries,
		bankHolidays: snap.BankHolidays,
		termDates:    snap.TermDates,
	}
}

func (r *run) add(e model.Event, rule Rule, sev Severity, format string, args ...any) {
	r.issues = append(r.issues, Issue{
		Event:    e,
		Rule:     rule,
		Message:  fmt.Sprintf(format, args...),
		Severity: sev,
	})
}

// name resolves the secretary name of an event, preferring the directory.
func (r *run) name(e *model.Event) string {
	if s, ok := r.secretaries[e.SecretaryRef()]; ok && s.Name != "" {
		return s.Name
	}
	return e.SecretaryName()
}

func (r *run) ofType(types ...model.EventType) []model.Event {
	var out []model.Event
	for i := range r.active {
		for _, t := range types {
			if r.active[i].Type == t {
				out = append(out, r.active[i])
				break
			}
		}
	}
	return out
}

// ────── season-wide rules ──────

func (r *run) afternoonRatio() {
	carousels := r.ofType(model.EventTypeCarousel)
	if len(carousels) == 0 {
		return
	}
	afternoon := 0
	for i := range carousels {
		if t, err := time.Parse(TimeLayout, carousels[i].TimeOfDay()); err == nil && t.Hour() >= r.policy.AfternoonHour {
			afternoon++
		}
	}
	ratio := float64(afternoon) / float64(len(carousels))
	if ratio < r.policy.MinAfternoonRatio {
		r.add(carousels[0], RuleAfternoonRatio, SeverityError,
			"Only %.1f%% of active Carousels are scheduled in the afternoon (minimum %.0f%% required). %d of %d Carousels are after %02d:00.",
			ratio*100, r.policy.MinAfternoonRatio*100, afternoon, len(carousels), r.policy.AfternoonHour)
	}
}

func (r *run) secretaryQuotas() {
	for _, q := range r.policy.Quotas {
		var first *model.Event
		carousels, panels := 0, 0
		for i := range r.active {
			e := &r.active[i]
			if e.SecretaryRef() == "" || r.name(e) != q.Secretary {
				continue
			}
			if first == nil {
				first = e
			}
			switch e.Type {
			case model.EventTypeCarousel:
				carousels++
			case model.EventTypePanel:
				panels++
			}
		}
		if first == nil {
			continue
		}
		if carousels > q.MaxCarousels {
			r.add(*first, RuleSecretaryQuota, SeverityError,
				"%s has %d active Carousels scheduled (maximum %d per season)", q.Secretary, carousels, q.MaxCarousels)
		}
		if panels > q.MaxPanels {
			r.add(*first, RuleSecretaryQuota, SeverityError,
				"%s has %d active Panels scheduled (maximum %d per season)", q.Secretary, panels, q.MaxPanels)
		}
	}
}

// restPeriods scans each secretary's events across all seasons, since a gap
// can straddle the cutover, and keeps violations whose later event is in the
// selected season.
func (r *run) restPeriods() {
	groups, ids := restperiod.BySecretary(r.all)
	for _, id := range ids {
		for _, v := range restperiod.Pairwise(groups[id], r.policy.RestTable) {
			if calendar.Season(v.Later.Date) != r.season {
				continue
			}
			sev := SeverityWarning
			if severe, ok := r.policy.Severe.Minimum(v.Earlier.Type, v.Later.Type); ok && v.Gap < severe {
				sev = SeverityError
			}
			r.add(v.Later, RuleRestPeriod, sev,
				"%s has %s events scheduled only %d days apart (%s to %s)",
				r.name(&v.Later), restperiod.Describe(v.Earlier.Type, v.Later.Type), v.Gap,
				v.Earlier.Date.Format(displayDate), v.Later.Date.Format(displayDate))
		}
	}
}

func (r *run) holidayRatio() {
	events := r.ofType(model.EventTypePanel, model.EventTypeCarousel)
	if len(events) == 0 {
		return
	}
	inHoliday := 0
	for i := range events {
		if r.inHolidayTerm(events[i].Date) {
			inHoliday++
		}
	}
	ratio := float64(inHoliday) / float64(len(events))
	if ratio < r.policy.MinHolidayRatio {
		r.add(events[0], RuleHolidayRatio, SeverityError,
			"Only %.1f%% of active Panels and Carousels are scheduled during term holidays (minimum %.0f%% required). %d of %d events are during holidays.",
			ratio*100, r.policy.MinHolidayRatio*100, inHoliday, len(events))
	}
}

func (r *run) inHolidayTerm(d time.Time) bool {
	for i := range r.termDates {
		td := &r.termDates[i]
		if td.IsHoliday() && calendar.WithinInclusive(d, td.StartDate, td.EndDate) {
			return true
		}
	}
	return false
}

// ────── per-event rules ──────

func (r *run) perEvent() {
	yearSet := make(map[int]struct{})
	candidateWeeks := make(map[string]struct{})
	for i := range r.active {
		yearSet[r.active[i].Date.Year()] = struct{}{}
		if r.active[i].Type == model.EventTypeCandidatesPanel {
			candidateWeeks[calendar.FormatDate(calendar.StartOfWeek(r.active[i].Date))] = struct{}{}
		}
	}
	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	carousels := r.ofType(model.EventTypeCarousel)

	for i := range r.active {
		e := r.active[i]
		if !e.Type.IsIndividual() {
			continue
		}
		day := calendar.Day(e.Date)

		if calendar.IsWeekend(day) {
			r.add(e, RuleWeekend, SeverityError, "%s scheduled on a weekend (%s)", e.Type, calendar.FormatDate(day))
		}
		if calendar.IsBankHoliday(calendar.FormatDate(day), r.bankHolidays) {
			r.add(e, RuleBankHoliday, SeverityError, "%s scheduled on a bank holiday (%s)", e.Type, calendar.FormatDate(day))
		}

		name := r.name(&e)
		for _, u := range r.policy.FixedUnavailability {
			if u.Secretary == name && containsWeekday(u.Weekdays, day.Weekday()) {
				r.add(e, RuleSecretaryUnavailable, SeverityError, "%s scheduled for %s on %s - unavailable on %s",
					e.Type, name, day.Weekday(), joinWords(pluralDays(u.Weekdays), "and"))
			}
		}

		if e.Type == model.EventTypePanel {
			week := calendar.StartOfWeek(day)
			if _, ok := candidateWeeks[calendar.FormatDate(week)]; ok {
				r.add(e, RuleCandidatesPanelWeek, SeverityError,
					"Panel scheduled in the same week as a Candidates Panel (week beginning %s)", week.Format(displayDate))
			}
		}

		if e.Type == model.EventTypeCarousel {
			if !containsWeekday(r.policy.CarouselDays, day.Weekday()) {
				r.add(e, RuleCarouselDay, SeverityError, "Carousel scheduled on %s - must be %s",
					day.Weekday(), joinWords(dayNames(r.policy.CarouselDays), "or"))
			}

			next := calendar.AddDays(day, 1)
			onDay := len(calendar.EventsOnDay(carousels, day))
			onNext := len(calendar.EventsOnDay(carousels, next))
			if onDay+onNext > r.policy.MaxCarouselsTwoDays {
				r.add(e, RuleCarouselDensity, SeverityError,
					"Too many Carousels: %d on %s and %d on %s (maximum %d over two consecutive days)",
					onDay, day.Format(displayDate), onNext, next.Format(displayDate), r.policy.MaxCarouselsTwoDays)
			}
		}

		if calendar.IsInHolyWeek(day, years) {
			r.add(e, RuleHolyWeek, SeverityError, "%s scheduled during Holy Week (the week before Easter Sunday)", e.Type)
		}
	}
}

// recordedAvailability flags events on days the secretary recorded as
// unavailable. Runs only when a secretary directory was supplied.
func (r *run) recordedAvailability() {
	if len(r.secretaries) == 0 {
		return
	}
	for i := range r.active {
		e := r.active[i]
		if !e.Type.IsIndividual() {
			continue
		}
		s, ok := r.secretaries[e.SecretaryRef()]
		if !ok {
			continue
		}
		for _, a := range s.Availability {
			if a.IsAvailable || !calendar.SameDay(a.Date, e.Date) {
				continue
			}
			reason := ""
			if a.Reason != "" {
				reason = " (" + a.Reason + ")"
			}
			r.add(e, RuleSecretaryAvailability, SeverityWarning, "%s scheduled for %s on %s - marked unavailable%s",
				e.Type, r.name(&e), e.Date.Format(displayDate), reason)
			break
		}
	}
}

// ────── helpers ──────

func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if oa, ob := a.Rule.order(), b.Rule.order(); oa != ob {
			return oa < ob
		}
		da, db := calendar.Day(a.Event.Date), calendar.Day(b.Event.Date)
		if !da.Equal(db) {
			return da.Before(db)
		}
		if a.Event.EventID != b.Event.EventID {
			return a.Event.EventID < b.Event.EventID
		}
		return a.Message < b.Message
	})
}

func containsWeekday(days []time.Weekday, d time.Weekday) bool {
	for _, x := range days {
		if x == d {
			return true
		}
	}
	return false
}

func dayNames(days []time.Weekday) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.String()
	}
	return out
}

func pluralDays(days []time.Weekday) []string {
	out := dayNames(days)
	for i := range out {
		out[i] += "s"
	}
	return out
}

// joinWords renders "a", "a and b", "a, b, and c".
func joinWords(words []string, conj string) string {
	switch len(words) {
	case 0:
		return ""
	case 1:
		return words[0]
	case 2:
		return words[0] + " " + conj + " " + words[1]
	}
	return strings.Join(words[:len(words)-1], ", ") + ", " + conj + " " + words[len(words)-1]
}

// CountBySeverity tallies issues.
func CountBySeverity(issues []Issue) (errs, warnings int) {
	for _, i := range issues {
		if i.Severity == SeverityError {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}
