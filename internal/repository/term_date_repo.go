package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oxtobyd/panelplanner/internal/model"
)

// TermDateRepository term and holiday period data access
type TermDateRepository interface {
	Create(ctx context.Context, td *model.TermDate) error
	GetByID(ctx context.Context, id string) (*model.TermDate, error)
	// List returns periods for academicYear, or every period when it is 0.
	List(ctx context.Context, academicYear int) ([]model.TermDate, error)
	// ListOverlapping returns periods intersecting [from, to].
	ListOverlapping(ctx context.Context, from, to time.Time) ([]model.TermDate, error)
	Update(ctx context.Context, td *model.TermDate) error
	Delete(ctx context.Context, id string) error
}

type termDateRepo struct {
	db *gorm.DB
}

// NewTermDateRepo creates a TermDateRepository
func NewTermDateRepo(db *gorm.DB) TermDateRepository {
	return &termDateRepo{db: db}
}

func (r *termDateRepo) Create(ctx context.Context, td *model.TermDate) error {
	return r.db.WithContext(ctx).Create(td).Error
}

func (r *termDateRepo) GetByID(ctx context.Context, id string) (*model.TermDate, error) {
	var td model.TermDate
	if err := r.db.WithContext(ctx).Where("term_date_id = ?", id).First(&td).Error; err != nil {
		return nil, err
	}
	return &td, nil
}

func (r *termDateRepo) List(ctx context.Context, academicYear int) ([]model.TermDate, error) {
	q := r.db.WithContext(ctx)
	if academicYear > 0 {
		q = q.Where("academic_year = ?", academicYear)
	}
	var list []model.TermDate
	err := q.Order("start_date ASC").Find(&list).Error
	return list, err
}

func (r *termDateRepo) ListOverlapping(ctx context.Context, from, to time.Time) ([]model.TermDate, error) {
	var list []model.TermDate
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&list).Error
	return list, err
}

func (r *termDateRepo) Update(ctx context.Context, td *model.TermDate) error {
	result := r.db.WithContext(ctx).
		Model(&model.TermDate{}).
		Where("term_date_id = ?", td.TermDateID).
		Updates(map[string]interface{}{
			"academic_year": td.AcademicYear,
			"term_name":     td.TermName,
			"start_date":    td.StartDate,
			"end_date":      td.EndDate,
			"type":          td.Type,
			"region":        td.Region,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *termDateRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("term_date_id = ?", id).Delete(&model.TermDate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
