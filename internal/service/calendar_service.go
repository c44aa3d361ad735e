package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/repository"
)

// CalendarService month grid and bank holiday listing
type CalendarService interface {
	Month(ctx context.Context, req *dto.CalendarRequest) (*dto.CalendarMonthResponse, error)
	BankHolidays(ctx context.Context) *dto.BankHolidaysResponse
}

type calendarService struct {
	repo     *repository.Repository
	holidays HolidayProvider
	logger   *zap.Logger
}

// NewCalendarService creates a CalendarService
func NewCalendarService(repo *repository.Repository, holidays HolidayProvider, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, holidays: holidays, logger: logger}
}

// ────────────────────── Month ──────────────────────
//
// Every day of the month lists the events occupying it. A Panel that starts
// up to two days before the 1st still shows on the first days of the month.

func (s *calendarService) Month(ctx context.Context, req *dto.CalendarRequest) (*dto.CalendarMonthResponse, error) {
	first := calendar.Date(req.Year, time.Month(req.Month), 1)
	last := first.AddDate(0, 1, -1)
	lookback := calendar.SpanDays(model.EventTypePanel) - 1

	events, err := s.repo.Event.ListBetween(ctx, calendar.AddDays(first, -lookback), last)
	if err != nil {
		s.logger.Error("load month events failed", zap.Error(err))
		return nil, err
	}
	terms, err := s.repo.TermDate.ListOverlapping(ctx, first, last)
	if err != nil {
		s.logger.Error("load month term dates failed", zap.Error(err))
		return nil, err
	}
	bh := bankHolidays(ctx, s.holidays)
	years := []int{req.Year}

	days := make([]dto.CalendarDay, 0, last.Day())
	for d := first; !d.After(last); d = calendar.AddDays(d, 1) {
		cell := dto.CalendarDay{
			Date:          calendar.FormatDate(d),
			Weekday:       d.Weekday().String(),
			IsWeekend:     calendar.IsWeekend(d),
			IsBankHoliday: calendar.IsBankHoliday(calendar.FormatDate(d), bh),
			IsHolyWeek:    calendar.IsInHolyWeek(d, years),
			Events:        []dto.CalendarEntry{},
		}
		if td := termContaining(terms, d); td != nil {
			cell.Term = td.TermName
			cell.TermType = td.Type
		}
		for i := range events {
			e := &events[i]
			if !calendar.EventOccupiesDay(e, d) {
				continue
			}
			cell.Events = append(cell.Events, dto.CalendarEntry{
				EventID:   e.EventID,
				Type:      string(e.Type),
				Label:     eventLabel(e),
				Secretary: e.SecretaryName(),
				Status:    string(e.Status),
				Day:       calendar.DaysBetween(e.Date, d) + 1,
				Span:      calendar.SpanDays(e.Type),
			})
		}
		days = append(days, cell)
	}

	return &dto.CalendarMonthResponse{
		Year:   req.Year,
		Month:  req.Month,
		Season: calendar.Season(first),
		Days:   days,
	}, nil
}

// ────────────────────── BankHolidays ──────────────────────

func (s *calendarService) BankHolidays(ctx context.Context) *dto.BankHolidaysResponse {
	bh := bankHolidays(ctx, s.holidays)
	if bh == nil {
		return &dto.BankHolidaysResponse{Dates: []string{}}
	}
	return &dto.BankHolidaysResponse{Loaded: bh.Loaded(), Dates: bh.Dates()}
}

// ── helpers ──

// termContaining prefers a holiday period over the term it sits inside.
func termContaining(terms []model.TermDate, d time.Time) *model.TermDate {
	var found *model.TermDate
	for i := range terms {
		t := &terms[i]
		if !calendar.WithinInclusive(d, t.StartDate, t.EndDate) {
			continue
		}
		if t.IsHoliday() {
			return t
		}
		if found == nil {
			found = t
		}
	}
	return found
}

func eventLabel(e *model.Event) string {
	if e.PanelNumber != "" {
		return string(e.Type) + " " + e.PanelNumber
	}
	return string(e.Type)
}
