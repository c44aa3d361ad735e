package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/model"
)

// Severity of a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule is the stable code of a validation rule.
type Rule string

const (
	RuleAfternoonRatio        Rule = "AFTERNOON_RATIO"
	RuleSecretaryQuota        Rule = "SECRETARY_QUOTA"
	RuleRestPeriod            Rule = "REST_PERIOD"
	RuleHolidayRatio          Rule = "HOLIDAY_RATIO"
	RuleWeekend               Rule = "WEEKEND"
	RuleBankHoliday           Rule = "BANK_HOLIDAY"
	RuleSecretaryUnavailable  Rule = "SECRETARY_UNAVAILABLE"
	RuleCandidatesPanelWeek   Rule = "CANDIDATES_PANEL_WEEK"
	RuleCarouselDay           Rule = "CAROUSEL_DAY"
	RuleCarouselDensity       Rule = "CAROUSEL_DENSITY"
	RuleHolyWeek              Rule = "HOLY_WEEK"
	RuleSecretaryAvailability Rule = "SECRETARY_AVAILABILITY"
)

// Rules lists every rule in report order.
var Rules = []Rule{
	RuleAfternoonRatio,
	RuleSecretaryQuota,
	RuleRestPeriod,
	RuleHolidayRatio,
	RuleWeekend,
	RuleBankHoliday,
	RuleSecretaryUnavailable,
	RuleCandidatesPanelWeek,
	RuleCarouselDay,
	RuleCarouselDensity,
	RuleHolyWeek,
	RuleSecretaryAvailability,
}

func (r Rule) order() int {
	for i, rule := range Rules {
		if rule == r {
			return i
		}
	}
	return len(Rules)
}

// Issue is one policy breach. Issues are output data, never errors.
type Issue struct {
	Event    model.Event `json:"event"`
	Rule     Rule        `json:"rule"`
	Message  string      `json:"issue"`
	Severity Severity    `json:"severity"`
}

// ── Input errors ──

// FieldProblem is one malformed field on one event.
type FieldProblem struct {
	EventID string `json:"event_id,omitempty"`
	Field   string `json:"field"`
	Problem string `json:"problem"`
}

// InputError reports malformed input before any rule runs. It is distinct
// from Issue: the snapshot itself is unusable.
type InputError struct {
	Problems []FieldProblem
}

func (e *InputError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if p.EventID != "" {
			parts[i] = fmt.Sprintf("event %s: %s %s", p.EventID, p.Field, p.Problem)
		} else {
			parts[i] = fmt.Sprintf("%s %s", p.Field, p.Problem)
		}
	}
	return "invalid validation input: " + strings.Join(parts, "; ")
}

// TimeLayout is the HH:mm form of Event.Time.
const TimeLayout = "15:04"

// CheckInput validates the fields the rules depend on. Every event is
// checked, cancelled ones included.
func CheckInput(events []model.Event, season string) error {
	var problems []FieldProblem
	add := func(id, field, problem string) {
		problems = append(problems, FieldProblem{EventID: id, Field: field, Problem: problem})
	}

	if season != "" {
		if _, _, err := calendar.SeasonBounds(season); err != nil {
			add("", "season", fmt.Sprintf("%q is not a season label like 2024-25", season))
		}
	}

	for i := range events {
		e := &events[i]
		id := e.EventID
		if id == "" {
			id = fmt.Sprintf("#%d", i)
		}

		if !e.Type.Valid() {
			add(id, "type", fmt.Sprintf("%q is not a schedulable event type", e.Type))
		}
		if !e.Status.Valid() {
			add(id, "status", fmt.Sprintf("%q is not a known status", e.Status))
		}
		if e.Date.IsZero() {
			add(id, "date", "is required")
		}
		if e.Time != nil && *e.Time != "" {
			if _, err := time.Parse(TimeLayout, *e.Time); err != nil {
				add(id, "time", fmt.Sprintf("%q is not HH:mm", *e.Time))
			}
		}

		hasSecretary := e.SecretaryRef() != ""
		switch {
		case e.Type.IsIndividual() && !hasSecretary:
			add(id, "secretary_id", fmt.Sprintf("is required for %s", e.Type))
		case e.Type.IsSpecial() && hasSecretary:
			add(id, "secretary_id", fmt.Sprintf("must be empty for %s; use impacted_secretary_ids", e.Type))
		}
	}

	if len(problems) > 0 {
		return &InputError{Problems: problems}
	}
	return nil
}
