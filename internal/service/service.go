package service

import (
	"go.uber.org/zap"

	"github.com/oxtobyd/panelplanner/internal/metrics"
	"github.com/oxtobyd/panelplanner/internal/repository"
	"github.com/oxtobyd/panelplanner/internal/validation"
)

// Service aggregates every service
type Service struct {
	Event     EventService
	Secretary SecretaryService
	Venue     VenueService
	TermDate  TermDateService
	Season    SeasonService
	Calendar  CalendarService
	Export    ExportService
}

// NewService builds the aggregate
func NewService(
	repo *repository.Repository,
	holidays HolidayProvider,
	policy validation.Policy,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Service {
	season := NewSeasonService(repo, holidays, validation.NewEngine(policy), m, logger)
	return &Service{
		Event:     NewEventService(repo, holidays, logger),
		Secretary: NewSecretaryService(repo, logger),
		Venue:     NewVenueService(repo, logger),
		TermDate:  NewTermDateService(repo, logger),
		Season:    season,
		Calendar:  NewCalendarService(repo, holidays, logger),
		Export:    NewExportService(repo, season, logger),
	}
}
