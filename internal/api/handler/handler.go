package handler

import "github.com/oxtobyd/panelplanner/internal/service"

// Handler aggregates every HTTP handler
type Handler struct {
	Event     *EventHandler
	Secretary *SecretaryHandler
	Venue     *VenueHandler
	TermDate  *TermDateHandler
	Season    *SeasonHandler
	Calendar  *CalendarHandler
	Export    *ExportHandler
}

// NewHandler builds the Handler aggregate
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Event:     NewEventHandler(svc.Event),
		Secretary: NewSecretaryHandler(svc.Secretary),
		Venue:     NewVenueHandler(svc.Venue),
		TermDate:  NewTermDateHandler(svc.TermDate),
		Season:    NewSeasonHandler(svc.Season),
		Calendar:  NewCalendarHandler(svc.Calendar),
		Export:    NewExportHandler(svc.Export),
	}
}
