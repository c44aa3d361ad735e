package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/repository"
)

// ── term date errors ──

var (
	ErrTermDateNotFound = errors.New("term date not found")
	ErrTermDateRange    = errors.New("end_date must not be before start_date")
	ErrTermImportSource = errors.New("provide exactly one of url or content")
	ErrTermImportFetch  = errors.New("could not download the term calendar")
	ErrTermImportParse  = errors.New("term calendar is not valid iCalendar")
)

// TermDateService term and holiday periods
type TermDateService interface {
	Create(ctx context.Context, req *dto.CreateTermDateRequest) (*dto.TermDateResponse, error)
	List(ctx context.Context, req *dto.TermDateListRequest) ([]dto.TermDateResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTermDateRequest) (*dto.TermDateResponse, error)
	Delete(ctx context.Context, id string) error
	// ImportICS stores every period of a term calendar that is not already
	// recorded with the same name and dates.
	ImportICS(ctx context.Context, req *dto.ImportTermDatesRequest) (*dto.ImportTermDatesResponse, error)
}

type termDateService struct {
	repo   *repository.Repository
	logger *zap.Logger
	fetch  func(ctx context.Context, url string) (io.ReadCloser, error)
}

// NewTermDateService creates a TermDateService
func NewTermDateService(repo *repository.Repository, logger *zap.Logger) TermDateService {
	return &termDateService{repo: repo, logger: logger, fetch: FetchICSContent}
}

func (s *termDateService) Create(ctx context.Context, req *dto.CreateTermDateRequest) (*dto.TermDateResponse, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrTermDateRange
	}

	td := &model.TermDate{
		AcademicYear: req.AcademicYear,
		TermName:     req.TermName,
		StartDate:    start,
		EndDate:      end,
		Type:         req.Type,
		Region:       req.Region,
	}
	if err := s.repo.TermDate.Create(ctx, td); err != nil {
		s.logger.Error("create term date failed", zap.Error(err))
		return nil, err
	}
	return toTermDateResponse(td), nil
}

func (s *termDateService) List(ctx context.Context, req *dto.TermDateListRequest) ([]dto.TermDateResponse, error) {
	list, err := s.repo.TermDate.List(ctx, req.Year)
	if err != nil {
		s.logger.Error("list term dates failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.TermDateResponse, 0, len(list))
	for i := range list {
		result = append(result, *toTermDateResponse(&list[i]))
	}
	return result, nil
}

func (s *termDateService) Update(ctx context.Context, id string, req *dto.UpdateTermDateRequest) (*dto.TermDateResponse, error) {
	td, err := s.repo.TermDate.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermDateNotFound
		}
		s.logger.Error("get term date failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.AcademicYear != nil {
		td.AcademicYear = *req.AcademicYear
	}
	if req.TermName != nil {
		td.TermName = *req.TermName
	}
	if req.StartDate != nil {
		if td.StartDate, err = parseDate(*req.StartDate); err != nil {
			return nil, err
		}
	}
	if req.EndDate != nil {
		if td.EndDate, err = parseDate(*req.EndDate); err != nil {
			return nil, err
		}
	}
	if req.Type != nil {
		td.Type = *req.Type
	}
	if req.Region != nil {
		td.Region = *req.Region
	}
	if td.EndDate.Before(td.StartDate) {
		return nil, ErrTermDateRange
	}

	if err := s.repo.TermDate.Update(ctx, td); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTermDateNotFound
		}
		s.logger.Error("update term date failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toTermDateResponse(td), nil
}

func (s *termDateService) Delete(ctx context.Context, id string) error {
	if err := s.repo.TermDate.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTermDateNotFound
		}
		s.logger.Error("delete term date failed", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *termDateService) ImportICS(ctx context.Context, req *dto.ImportTermDatesRequest) (*dto.ImportTermDatesResponse, error) {
	hasURL, hasContent := strings.TrimSpace(req.URL) != "", strings.TrimSpace(req.Content) != ""
	if hasURL == hasContent {
		return nil, ErrTermImportSource
	}

	var src io.Reader = strings.NewReader(req.Content)
	if hasURL {
		body, err := s.fetch(ctx, req.URL)
		if err != nil {
			s.logger.Warn("term calendar download failed", zap.String("url", req.URL), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrTermImportFetch, err)
		}
		defer body.Close()
		src = body
	}

	periods, err := ParseTermDatesICS(src, req.Region)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTermImportParse, err)
	}

	result := &dto.ImportTermDatesResponse{TermDates: make([]dto.TermDateResponse, 0, len(periods))}
	if len(periods) == 0 {
		return result, nil
	}

	existing, err := s.repo.TermDate.ListOverlapping(ctx, periods[0].StartDate, periods[len(periods)-1].EndDate)
	if err != nil {
		s.logger.Error("list term dates failed", zap.Error(err))
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for i := range existing {
		seen[termKey(&existing[i])] = true
	}

	for i := range periods {
		td := &periods[i]
		if seen[termKey(td)] {
			result.Skipped++
			continue
		}
		if err := s.repo.TermDate.Create(ctx, td); err != nil {
			s.logger.Error("import term date failed", zap.String("term", td.TermName), zap.Error(err))
			return nil, err
		}
		seen[termKey(td)] = true
		result.Imported++
		result.TermDates = append(result.TermDates, *toTermDateResponse(td))
	}

	s.logger.Info("term calendar imported",
		zap.Int("imported", result.Imported), zap.Int("skipped", result.Skipped))
	return result, nil
}

func termKey(td *model.TermDate) string {
	return strings.ToLower(td.TermName) + "|" + calendar.FormatDate(td.StartDate) + "|" + calendar.FormatDate(td.EndDate)
}

func toTermDateResponse(td *model.TermDate) *dto.TermDateResponse {
	return &dto.TermDateResponse{
		ID:           td.TermDateID,
		AcademicYear: td.AcademicYear,
		TermName:     td.TermName,
		StartDate:    calendar.FormatDate(td.StartDate),
		EndDate:      calendar.FormatDate(td.EndDate),
		Type:         td.Type,
		Region:       td.Region,
	}
}
