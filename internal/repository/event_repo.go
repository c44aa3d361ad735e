package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oxtobyd/panelplanner/internal/model"
	pkgerrors "github.com/oxtobyd/panelplanner/pkg/errors"
)

// EventFilter narrows List. Zero values mean "any".
type EventFilter struct {
	From        *time.Time
	To          *time.Time
	Type        model.EventType
	Status      model.EventStatus
	SecretaryID string
	VenueID     string
	Offset      int
	Limit       int
}

// EventRepository event data access
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id string) (*model.Event, error)
	List(ctx context.Context, filter EventFilter) ([]model.Event, int64, error)
	// ListAll returns every event with venue and secretary preloaded.
	ListAll(ctx context.Context) ([]model.Event, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id string) error
	ActiveDates(ctx context.Context) ([]time.Time, error)
	HistoricalAttendance(ctx context.Context, weekNumber int, eventType model.EventType, before time.Time) (*model.AttendanceStats, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo creates an EventRepository
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	if event.Version == 0 {
		event.Version = 1
	}
	return r.db.WithContext(ctx).Omit("Venue", "Secretary").Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Secretary").
		Where("event_id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) List(ctx context.Context, f EventFilter) ([]model.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Event{})
	if f.From != nil {
		q = q.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("date <= ?", *f.To)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.SecretaryID != "" {
		q = q.Where("secretary_id = ? OR ? = ANY(impacted_secretary_ids)", f.SecretaryID, f.SecretaryID)
	}
	if f.VenueID != "" {
		q = q.Where("venue_id = ?", f.VenueID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q = q.Preload("Venue").Preload("Secretary").Order("date ASC, time ASC NULLS FIRST, event_id ASC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}

	var events []model.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepo) ListAll(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Secretary").
		Order("date ASC, event_id ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) ListBetween(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Preload("Venue").
		Preload("Secretary").
		Where("date BETWEEN ? AND ?", from, to).
		Order("date ASC, time ASC NULLS FIRST, event_id ASC").
		Find(&events).Error
	return events, err
}

// Update writes every mutable column guarded by the version read earlier.
func (r *eventRepo) Update(ctx context.Context, event *model.Event) error {
	oldVersion := event.Version
	result := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("event_id = ? AND version = ?", event.EventID, oldVersion).
		Updates(map[string]interface{}{
			"type":                   event.Type,
			"panel_number":           event.PanelNumber,
			"helper_panel_id":        event.HelperPanelID,
			"date":                   event.Date,
			"time":                   event.Time,
			"week_number":            event.WeekNumber,
			"venue_id":               event.VenueID,
			"secretary_id":           event.SecretaryID,
			"impacted_secretary_ids": event.ImpactedSecretaryIDs,
			"status":                 event.Status,
			"estimated_attendance":   event.EstimatedAttendance,
			"actual_attendance":      event.ActualAttendance,
			"report_date":            event.ReportDate,
			"report_deadline":        event.ReportDeadline,
			"notes":                  event.Notes,
			"version":                oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version = oldVersion + 1
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("event_id = ?", id).Delete(&model.Event{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *eventRepo) ActiveDates(ctx context.Context) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("status <> ?", model.EventStatusCancelled).
		Distinct("date").
		Order("date ASC").
		Pluck("date", &dates).Error
	return dates, err
}

// HistoricalAttendance aggregates completed, non-cancelled events that share
// the stored week number and type.
func (r *eventRepo) HistoricalAttendance(ctx context.Context, weekNumber int, eventType model.EventType, before time.Time) (*model.AttendanceStats, error) {
	var row struct {
		Events          int64
		TotalCandidates int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Select("COUNT(*) AS events, COALESCE(SUM(actual_attendance), 0) AS total_candidates").
		Where("week_number = ? AND type = ? AND status <> ? AND date < ? AND actual_attendance > 0",
			weekNumber, eventType, model.EventStatusCancelled, before).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &model.AttendanceStats{
		WeekNumber:      weekNumber,
		Type:            eventType,
		Events:          row.Events,
		TotalCandidates: row.TotalCandidates,
	}
	if row.Events > 0 {
		stats.AvgPerEvent = float64(row.TotalCandidates) / float64(row.Events)
	}
	return stats, nil
}
