package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/repository"
	"github.com/oxtobyd/panelplanner/internal/validation"
	pkgerrors "github.com/oxtobyd/panelplanner/pkg/errors"
)

// ── event errors ──

var (
	ErrEventNotFound     = errors.New("event not found")
	ErrEventConflict     = errors.New("event was modified by someone else, reload and retry")
	ErrInvalidDate       = errors.New("dates must be yyyy-mm-dd")
	ErrInvalidSeason     = errors.New("season must look like 2024-25")
	ErrVenueNotFound     = errors.New("venue not found")
	ErrSecretaryNotFound = errors.New("secretary not found")
)

// EventService event business logic
type EventService interface {
	Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EventResponse, error)
	List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, id string) error
	HistoricalAttendance(ctx context.Context, req *dto.HistoricalAttendanceRequest) (*dto.HistoricalAttendanceResponse, error)
}

type eventService struct {
	repo     *repository.Repository
	holidays HolidayProvider
	logger   *zap.Logger
	now      func() time.Time
}

// NewEventService creates an EventService
func NewEventService(repo *repository.Repository, holidays HolidayProvider, logger *zap.Logger) EventService {
	return &eventService{repo: repo, holidays: holidays, logger: logger, now: time.Now}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	reportDate, err := parseOptionalDate(req.ReportDate)
	if err != nil {
		return nil, err
	}
	reportDeadline, err := parseOptionalDate(req.ReportDeadline)
	if err != nil {
		return nil, err
	}

	status := model.EventStatus(req.Status)
	if status == "" {
		status = model.EventStatusBooked
	}

	event := &model.Event{
		EventID:              uuid.New().String(),
		Type:                 model.EventType(req.Type),
		PanelNumber:          req.PanelNumber,
		HelperPanelID:        req.HelperPanelID,
		Date:                 date,
		Time:                 emptyToNil(req.Time),
		WeekNumber:           req.WeekNumber,
		VenueID:              req.VenueID,
		SecretaryID:          emptyToNil(req.SecretaryID),
		ImpactedSecretaryIDs: model.StringArray(req.ImpactedSecretaryIDs),
		Status:               status,
		EstimatedAttendance:  req.EstimatedAttendance,
		ActualAttendance:     req.ActualAttendance,
		ReportDate:           reportDate,
		ReportDeadline:       reportDeadline,
		Notes:                req.Notes,
	}

	if err := s.checkEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		s.logger.Error("create event failed", zap.Error(err))
		return nil, err
	}
	s.logger.Info("event created",
		zap.String("event_id", event.EventID),
		zap.String("type", string(event.Type)),
		zap.String("date", calendar.FormatDate(event.Date)),
	)

	return s.GetByID(ctx, event.EventID)
}

// ────────────────────── GetByID ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id string) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("get event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	bh := bankHolidays(ctx, s.holidays)
	avg := newAttendanceLookup(s.repo.Event, s.today())
	return s.toEventResponse(ctx, event, bh, avg), nil
}

// ────────────────────── List ──────────────────────

func (s *eventService) List(ctx context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	filter := repository.EventFilter{
		Type:        model.EventType(req.Type),
		Status:      model.EventStatus(req.Status),
		SecretaryID: req.SecretaryID,
		VenueID:     req.VenueID,
		Offset:      req.GetOffset(),
		Limit:       req.GetPageSize(),
	}

	if req.Season != "" {
		from, to, err := calendar.SeasonBounds(req.Season)
		if err != nil {
			return nil, 0, ErrInvalidSeason
		}
		filter.From, filter.To = &from, &to
	}
	if req.From != "" {
		from, err := parseDate(req.From)
		if err != nil {
			return nil, 0, err
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := parseDate(req.To)
		if err != nil {
			return nil, 0, err
		}
		filter.To = &to
	}

	events, total, err := s.repo.Event.List(ctx, filter)
	if err != nil {
		s.logger.Error("list events failed", zap.Error(err))
		return nil, 0, err
	}

	bh := bankHolidays(ctx, s.holidays)
	avg := newAttendanceLookup(s.repo.Event, s.today())
	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *s.toEventResponse(ctx, &events[i], bh, avg))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *eventService) Update(ctx context.Context, id string, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("get event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if event.Version != req.Version {
		return nil, ErrEventConflict
	}

	if err := applyEventUpdate(event, req); err != nil {
		return nil, err
	}
	// the preloaded associations may no longer match the new foreign keys
	event.Venue, event.Secretary = nil, nil

	if err := s.checkEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := s.repo.Event.Update(ctx, event); err != nil {
		if errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, ErrEventConflict
		}
		s.logger.Error("update event failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Event.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		s.logger.Error("delete event failed", zap.String("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("event deleted", zap.String("event_id", id))
	return nil
}

// ────────────────────── HistoricalAttendance ──────────────────────

func (s *eventService) HistoricalAttendance(ctx context.Context, req *dto.HistoricalAttendanceRequest) (*dto.HistoricalAttendanceResponse, error) {
	stats, err := s.repo.Event.HistoricalAttendance(ctx, req.WeekNumber, model.EventType(req.Type), s.today())
	if err != nil {
		s.logger.Error("historical attendance failed", zap.Int("week", req.WeekNumber), zap.Error(err))
		return nil, err
	}
	return &dto.HistoricalAttendanceResponse{
		WeekNumber:      stats.WeekNumber,
		Type:            string(stats.Type),
		Events:          stats.Events,
		TotalCandidates: stats.TotalCandidates,
		AvgPerEvent:     stats.AvgPerEvent,
	}, nil
}

// ── helpers ──

func (s *eventService) today() time.Time {
	return calendar.Day(s.now())
}

// checkEvent runs the single-event input checks and resolves references.
func (s *eventService) checkEvent(ctx context.Context, event *model.Event) error {
	if err := validation.CheckInput([]model.Event{*event}, ""); err != nil {
		return err
	}

	if _, err := s.repo.Venue.GetByID(ctx, event.VenueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVenueNotFound
		}
		return err
	}

	ids := append([]string(nil), event.ImpactedSecretaryIDs...)
	if ref := event.SecretaryRef(); ref != "" {
		ids = append(ids, ref)
	}
	for _, id := range ids {
		if _, err := s.repo.Secretary.GetByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrSecretaryNotFound, id)
			}
			return err
		}
	}
	return nil
}

func applyEventUpdate(e *model.Event, req *dto.UpdateEventRequest) error {
	if req.Type != nil {
		e.Type = model.EventType(*req.Type)
	}
	if req.PanelNumber != nil {
		e.PanelNumber = *req.PanelNumber
	}
	if req.HelperPanelID != nil {
		e.HelperPanelID = req.HelperPanelID
	}
	if req.Date != nil {
		d, err := parseDate(*req.Date)
		if err != nil {
			return err
		}
		e.Date = d
	}
	if req.Time != nil {
		e.Time = emptyToNil(req.Time)
	}
	if req.WeekNumber != nil {
		e.WeekNumber = *req.WeekNumber
	}
	if req.VenueID != nil {
		e.VenueID = *req.VenueID
	}
	if req.SecretaryID != nil {
		e.SecretaryID = emptyToNil(req.SecretaryID)
	}
	if req.ImpactedSecretaryIDs != nil {
		e.ImpactedSecretaryIDs = model.StringArray(*req.ImpactedSecretaryIDs)
	}
	if req.Status != nil {
		e.Status = model.EventStatus(*req.Status)
	}
	if req.EstimatedAttendance != nil {
		e.EstimatedAttendance = *req.EstimatedAttendance
	}
	if req.ActualAttendance != nil {
		e.ActualAttendance = *req.ActualAttendance
	}
	if req.ReportDate != nil {
		d, err := parseOptionalDate(req.ReportDate)
		if err != nil {
			return err
		}
		e.ReportDate = d
	}
	if req.ReportDeadline != nil {
		d, err := parseOptionalDate(req.ReportDeadline)
		if err != nil {
			return err
		}
		e.ReportDeadline = d
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}
	return nil
}

func (s *eventService) toEventResponse(ctx context.Context, e *model.Event, bh *calendar.BankHolidays, avg *attendanceLookup) *dto.EventResponse {
	resp := &dto.EventResponse{
		ID:                   e.EventID,
		Type:                 string(e.Type),
		PanelNumber:          e.PanelNumber,
		HelperPanelID:        e.HelperPanelID,
		Date:                 calendar.FormatDate(e.Date),
		Time:                 e.TimeOfDay(),
		WeekNumber:           e.WeekNumber,
		SecretaryID:          e.SecretaryRef(),
		SecretaryName:        e.SecretaryName(),
		ImpactedSecretaryIDs: []string(e.ImpactedSecretaryIDs),
		Status:               string(e.Status),
		EstimatedAttendance:  e.EstimatedAttendance,
		ActualAttendance:     e.ActualAttendance,
		ReportDate:           formatOptionalDate(e.ReportDate),
		ReportDeadline:       formatOptionalDate(e.ReportDeadline),
		Notes:                e.Notes,
		Version:              e.Version,
		Season:               calendar.Season(e.Date),
		PaperworkDueDate:     calendar.FormatDate(calendar.PaperworkDueDate(e.Date, e.Type)),
	}
	if e.Venue != nil {
		resp.Venue = toVenueResponse(e.Venue)
	}
	if due, ok := calendar.ReportDueDate(e.Date, e.Type, bh); ok {
		resp.ReportDueDate = calendar.FormatDate(due)
	}
	v, ok, err := avg.average(ctx, e.WeekNumber, e.Type)
	switch {
	case err != nil:
		s.logger.Warn("historical average unavailable", zap.String("event_id", e.EventID), zap.Error(err))
	case ok:
		resp.HistoricalAverage = &v
	}
	return resp
}

// attendanceLookup memoises historical averages for one request.
type attendanceLookup struct {
	repo   repository.EventRepository
	before time.Time
	cache  map[string]*float64
}

func newAttendanceLookup(repo repository.EventRepository, before time.Time) *attendanceLookup {
	return &attendanceLookup{repo: repo, before: before, cache: make(map[string]*float64)}
}

// average is false when no past event shares the week and type.
func (l *attendanceLookup) average(ctx context.Context, week int, t model.EventType) (float64, bool, error) {
	key := fmt.Sprintf("%d/%s", week, t)
	if v, ok := l.cache[key]; ok {
		if v == nil {
			return 0, false, nil
		}
		return *v, true, nil
	}

	stats, err := l.repo.HistoricalAttendance(ctx, week, t, l.before)
	if err != nil {
		return 0, false, err
	}
	if stats.Events == 0 {
		l.cache[key] = nil
		return 0, false, nil
	}
	v := stats.AvgPerEvent
	l.cache[key] = &v
	return v, true, nil
}

func parseDate(s string) (time.Time, error) {
	d, err := calendar.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return calendar.FormatDate(*t)
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
