package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oxtobyd/panelplanner/internal/model"
)

// SecretaryRepository secretary and availability data access
type SecretaryRepository interface {
	Create(ctx context.Context, secretary *model.Secretary) error
	GetByID(ctx context.Context, id string) (*model.Secretary, error)
	// List returns secretaries with availability preloaded, ordered by name.
	List(ctx context.Context, activeOnly bool) ([]model.Secretary, error)

	ListAvailability(ctx context.Context, secretaryID string) ([]model.SecretaryAvailability, error)
	UpsertAvailability(ctx context.Context, entry *model.SecretaryAvailability) error
	DeleteAvailability(ctx context.Context, secretaryID string, date time.Time) error
}

type secretaryRepo struct {
	db *gorm.DB
}

// NewSecretaryRepo creates a SecretaryRepository
func NewSecretaryRepo(db *gorm.DB) SecretaryRepository {
	return &secretaryRepo{db: db}
}

func (r *secretaryRepo) Create(ctx context.Context, secretary *model.Secretary) error {
	return r.db.WithContext(ctx).Omit("Availability").Create(secretary).Error
}

func (r *secretaryRepo) GetByID(ctx context.Context, id string) (*model.Secretary, error) {
	var s model.Secretary
	err := r.db.WithContext(ctx).
		Preload("Availability", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") }).
		Where("secretary_id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *secretaryRepo) List(ctx context.Context, activeOnly bool) ([]model.Secretary, error) {
	q := r.db.WithContext(ctx).
		Preload("Availability", func(db *gorm.DB) *gorm.DB { return db.Order("date ASC") })
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var list []model.Secretary
	err := q.Order("name ASC").Find(&list).Error
	return list, err
}

func (r *secretaryRepo) ListAvailability(ctx context.Context, secretaryID string) ([]model.SecretaryAvailability, error) {
	var list []model.SecretaryAvailability
	err := r.db.WithContext(ctx).
		Where("secretary_id = ?", secretaryID).
		Order("date ASC").
		Find(&list).Error
	return list, err
}

// UpsertAvailability inserts or replaces the entry for (secretary, date).
func (r *secretaryRepo) UpsertAvailability(ctx context.Context, entry *model.SecretaryAvailability) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "secretary_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_available", "reason"}),
		}).
		Create(entry).Error
}

func (r *secretaryRepo) DeleteAvailability(ctx context.Context, secretaryID string, date time.Time) error {
	result := r.db.WithContext(ctx).
		Where("secretary_id = ? AND date = ?", secretaryID, date).
		Delete(&model.SecretaryAvailability{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
