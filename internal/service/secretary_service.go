package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/repository"
	"github.com/oxtobyd/panelplanner/internal/workload"
)

// ErrAvailabilityNotFound no entry recorded for that secretary and date
var ErrAvailabilityNotFound = errors.New("availability entry not found")

// SecretaryService secretary directory, availability and workload
type SecretaryService interface {
	Create(ctx context.Context, req *dto.CreateSecretaryRequest) (*dto.SecretaryResponse, error)
	// List annotates every secretary with the workload for req.Season, or
	// across all seasons when it is empty.
	List(ctx context.Context, req *dto.SecretaryListRequest) ([]dto.SecretaryResponse, error)
	ListAvailability(ctx context.Context, secretaryID string) ([]dto.AvailabilityResponse, error)
	SetAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	DeleteAvailability(ctx context.Context, secretaryID, date string) error
}

type secretaryService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSecretaryService creates a SecretaryService
func NewSecretaryService(repo *repository.Repository, logger *zap.Logger) SecretaryService {
	return &secretaryService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *secretaryService) Create(ctx context.Context, req *dto.CreateSecretaryRequest) (*dto.SecretaryResponse, error) {
	sec := &model.Secretary{Name: req.Name, Active: true}
	if err := s.repo.Secretary.Create(ctx, sec); err != nil {
		s.logger.Error("create secretary failed", zap.Error(err))
		return nil, err
	}
	return toSecretaryResponse(workload.Annotated{
		Secretary: *sec,
		Workload:  workload.For(sec.SecretaryID, nil),
	}), nil
}

// ────────────────────── List ──────────────────────

func (s *secretaryService) List(ctx context.Context, req *dto.SecretaryListRequest) ([]dto.SecretaryResponse, error) {
	if req.Season != "" {
		if _, _, err := calendar.SeasonBounds(req.Season); err != nil {
			return nil, ErrInvalidSeason
		}
	}

	secretaries, err := s.repo.Secretary.List(ctx, !req.IncludeInactive)
	if err != nil {
		s.logger.Error("list secretaries failed", zap.Error(err))
		return nil, err
	}
	events, err := s.repo.Event.ListAll(ctx)
	if err != nil {
		s.logger.Error("list events for workload failed", zap.Error(err))
		return nil, err
	}

	annotated := workload.Distribute(secretaries, events, req.Season)
	result := make([]dto.SecretaryResponse, 0, len(annotated))
	for _, a := range annotated {
		result = append(result, *toSecretaryResponse(a))
	}
	return result, nil
}

// ────────────────────── Availability ──────────────────────

func (s *secretaryService) ListAvailability(ctx context.Context, secretaryID string) ([]dto.AvailabilityResponse, error) {
	if _, err := s.repo.Secretary.GetByID(ctx, secretaryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSecretaryNotFound
		}
		return nil, err
	}
	entries, err := s.repo.Secretary.ListAvailability(ctx, secretaryID)
	if err != nil {
		s.logger.Error("list availability failed", zap.String("secretary_id", secretaryID), zap.Error(err))
		return nil, err
	}
	return toAvailabilityResponses(entries), nil
}

func (s *secretaryService) SetAvailability(ctx context.Context, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Secretary.GetByID(ctx, req.SecretaryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSecretaryNotFound
		}
		return nil, err
	}

	entry := &model.SecretaryAvailability{
		SecretaryID: req.SecretaryID,
		Date:        date,
		IsAvailable: *req.IsAvailable,
		Reason:      req.Reason,
	}
	if err := s.repo.Secretary.UpsertAvailability(ctx, entry); err != nil {
		s.logger.Error("save availability failed", zap.String("secretary_id", req.SecretaryID), zap.Error(err))
		return nil, err
	}
	resp := toAvailabilityResponses([]model.SecretaryAvailability{*entry})
	return &resp[0], nil
}

func (s *secretaryService) DeleteAvailability(ctx context.Context, secretaryID, date string) error {
	d, err := parseDate(date)
	if err != nil {
		return err
	}
	if err := s.repo.Secretary.DeleteAvailability(ctx, secretaryID, d); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAvailabilityNotFound
		}
		s.logger.Error("delete availability failed", zap.String("secretary_id", secretaryID), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func toSecretaryResponse(a workload.Annotated) *dto.SecretaryResponse {
	return &dto.SecretaryResponse{
		ID:           a.SecretaryID,
		Name:         a.Name,
		Active:       a.Active,
		Availability: toAvailabilityResponses(a.Availability),
		Workload:     a.Workload,
	}
}

func toAvailabilityResponses(entries []model.SecretaryAvailability) []dto.AvailabilityResponse {
	out := make([]dto.AvailabilityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.AvailabilityResponse{
			SecretaryID: e.SecretaryID,
			Date:        calendar.FormatDate(e.Date),
			IsAvailable: e.IsAvailable,
			Reason:      e.Reason,
		})
	}
	return out
}
