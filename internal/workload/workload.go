// Package workload annotates secretaries with their event counts and the
// rest-period violations between their own consecutive events.
package workload

import (
	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/restperiod"
)

// Workload is recomputed on every call and never stored.
type Workload struct {
	Panels         int                    `json:"panels"`
	Carousels      int                    `json:"carousels"`
	Total          int                    `json:"total"`
	Special        int                    `json:"special"` // impacted special events, not in Total
	RestViolations []restperiod.Violation `json:"rest_violations"`
}

// Annotated is a secretary with its computed workload.
type Annotated struct {
	model.Secretary
	Workload Workload `json:"workload"`
}

// Distribute computes the workload of every secretary. A non-empty season
// restricts every figure to events in that season.
func Distribute(secretaries []model.Secretary, events []model.Event, season string) []Annotated {
	scoped := events
	if season != "" {
		scoped = make([]model.Event, 0, len(events))
		for i := range events {
			if calendar.Season(events[i].Date) == season {
				scoped = append(scoped, events[i])
			}
		}
	}

	out := make([]Annotated, len(secretaries))
	for i := range secretaries {
		out[i] = Annotated{
			Secretary: secretaries[i],
			Workload:  For(secretaries[i].SecretaryID, scoped),
		}
	}
	return out
}

// For computes one secretary's workload over events.
//
// An event counts when the secretary runs it or is listed among its impacted
// secretaries. Only Panel and Carousel typed events move the type counters;
// rest violations consider only the events the secretary runs.
func For(secretaryID string, events []model.Event) Workload {
	w := Workload{RestViolations: []restperiod.Violation{}}
	var own []model.Event

	for i := range events {
		e := &events[i]
		if !e.IsActive() {
			continue
		}
		runs := e.SecretaryRef() == secretaryID
		if !runs && !e.ImpactedSecretaryIDs.Contains(secretaryID) {
			continue
		}

		switch {
		case e.Type == model.EventTypePanel:
			w.Panels++
		case e.Type == model.EventTypeCarousel:
			w.Carousels++
		case e.Type.IsSpecial():
			w.Special++
		}
		if runs {
			own = append(own, *e)
		}
	}

	w.Total = w.Panels + w.Carousels
	if v := restperiod.Adjacent(own, restperiod.WorkloadTable); v != nil {
		w.RestViolations = v
	}
	return w
}
