package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/metrics"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/repository"
	"github.com/oxtobyd/panelplanner/internal/validation"
)

// SeasonService season listing and the season validation report
type SeasonService interface {
	List(ctx context.Context) (*dto.SeasonsResponse, error)
	// Report validates one season. Malformed stored data surfaces as a
	// *validation.InputError.
	Report(ctx context.Context, season string) (*dto.SeasonReportResponse, error)
}

type seasonService struct {
	repo     *repository.Repository
	holidays HolidayProvider
	engine   *validation.Engine
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewSeasonService creates a SeasonService
func NewSeasonService(
	repo *repository.Repository,
	holidays HolidayProvider,
	engine *validation.Engine,
	m *metrics.Metrics,
	logger *zap.Logger,
) SeasonService {
	return &seasonService{
		repo:     repo,
		holidays: holidays,
		engine:   engine,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── List ──────────────────────

func (s *seasonService) List(ctx context.Context) (*dto.SeasonsResponse, error) {
	dates, err := s.repo.Event.ActiveDates(ctx)
	if err != nil {
		s.logger.Error("list event dates failed", zap.Error(err))
		return nil, err
	}

	seen := make(map[string]bool)
	seasons := make([]string, 0)
	for _, d := range dates {
		label := calendar.Season(d)
		if !seen[label] {
			seen[label] = true
			seasons = append(seasons, label)
		}
	}
	sort.Strings(seasons)

	return &dto.SeasonsResponse{
		Seasons: seasons,
		Current: calendar.Season(s.now()),
	}, nil
}

// ────────────────────── Report ──────────────────────

func (s *seasonService) Report(ctx context.Context, season string) (*dto.SeasonReportResponse, error) {
	from, to, err := calendar.SeasonBounds(season)
	if err != nil {
		return nil, ErrInvalidSeason
	}

	// the rest rule looks across the season boundary, so load everything
	events, err := s.repo.Event.ListAll(ctx)
	if err != nil {
		s.logger.Error("load events failed", zap.Error(err))
		return nil, err
	}
	secretaries, err := s.repo.Secretary.List(ctx, false)
	if err != nil {
		s.logger.Error("load secretaries failed", zap.Error(err))
		return nil, err
	}
	terms, err := s.repo.TermDate.ListOverlapping(ctx, from, to)
	if err != nil {
		s.logger.Error("load term dates failed", zap.Error(err))
		return nil, err
	}

	snap := validation.Snapshot{
		Events:       events,
		Secretaries:  secretaries,
		BankHolidays: bankHolidays(ctx, s.holidays),
		TermDates:    terms,
	}

	start := time.Now()
	issues, err := s.engine.ValidateSeasonWith(snap, season)
	s.metrics.ObserveValidation(issues, err, time.Since(start))
	if err != nil {
		s.logger.Warn("season validation rejected input", zap.String("season", season), zap.Error(err))
		return nil, err
	}

	errs, warnings := validation.CountBySeverity(issues)
	s.logger.Info("season validated",
		zap.String("season", season),
		zap.Int("errors", errs),
		zap.Int("warnings", warnings),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &dto.SeasonReportResponse{
		Season:       season,
		GeneratedAt:  s.now().UTC().Format(time.RFC3339),
		EventCount:   countActiveInSeason(events, season),
		ErrorCount:   errs,
		WarningCount: warnings,
		Issues:       issues,
	}, nil
}

func countActiveInSeason(events []model.Event, season string) int {
	n := 0
	for i := range events {
		if events[i].IsActive() && calendar.Season(events[i].Date) == season {
			n++
		}
	}
	return n
}
