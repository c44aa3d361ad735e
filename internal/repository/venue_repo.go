package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oxtobyd/panelplanner/internal/model"
)

// VenueRepository venue data access
type VenueRepository interface {
	Create(ctx context.Context, venue *model.Venue) error
	GetByID(ctx context.Context, id string) (*model.Venue, error)
	GetByName(ctx context.Context, name string) (*model.Venue, error)
	List(ctx context.Context) ([]model.Venue, error)
}

type venueRepo struct {
	db *gorm.DB
}

// NewVenueRepo creates a VenueRepository
func NewVenueRepo(db *gorm.DB) VenueRepository {
	return &venueRepo{db: db}
}

func (r *venueRepo) Create(ctx context.Context, venue *model.Venue) error {
	return r.db.WithContext(ctx).Create(venue).Error
}

func (r *venueRepo) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	var v model.Venue
	if err := r.db.WithContext(ctx).Where("venue_id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepo) GetByName(ctx context.Context, name string) (*model.Venue, error) {
	var v model.Venue
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepo) List(ctx context.Context) ([]model.Venue, error) {
	var list []model.Venue
	err := r.db.WithContext(ctx).Order("is_online ASC, name ASC").Find(&list).Error
	return list, err
}
