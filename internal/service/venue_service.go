package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/repository"
)

// VenueService venue business logic
type VenueService interface {
	Create(ctx context.Context, req *dto.CreateVenueRequest) (*dto.VenueResponse, error)
	List(ctx context.Context) ([]dto.VenueResponse, error)
}

type venueService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVenueService creates a VenueService
func NewVenueService(repo *repository.Repository, logger *zap.Logger) VenueService {
	return &venueService{repo: repo, logger: logger}
}

func (s *venueService) Create(ctx context.Context, req *dto.CreateVenueRequest) (*dto.VenueResponse, error) {
	venue := &model.Venue{
		Name:     req.Name,
		IsOnline: req.IsOnline,
		Capacity: req.Capacity,
	}
	if err := s.repo.Venue.Create(ctx, venue); err != nil {
		s.logger.Error("create venue failed", zap.Error(err))
		return nil, err
	}
	return toVenueResponse(venue), nil
}

func (s *venueService) List(ctx context.Context) ([]dto.VenueResponse, error) {
	venues, err := s.repo.Venue.List(ctx)
	if err != nil {
		s.logger.Error("list venues failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.VenueResponse, 0, len(venues))
	for i := range venues {
		result = append(result, *toVenueResponse(&venues[i]))
	}
	return result, nil
}

func toVenueResponse(v *model.Venue) *dto.VenueResponse {
	return &dto.VenueResponse{
		ID:       v.VenueID,
		Name:     v.Name,
		IsOnline: v.IsOnline,
		Capacity: v.Capacity,
	}
}
