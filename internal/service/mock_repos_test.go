package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/repository"
	pkgerrors "github.com/oxtobyd/panelplanner/pkg/errors"
)

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.Event
	venues *mockVenueRepo
	secs   *mockSecretaryRepo
	// listErr forces every read to fail
	listErr error
}

func newMockEventRepo(venues *mockVenueRepo, secs *mockSecretaryRepo) *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event), venues: venues, secs: secs}
}

func (m *mockEventRepo) put(e model.Event) {
	if e.Version == 0 {
		e.Version = 1
	}
	m.events[e.EventID] = &e
}

func (m *mockEventRepo) preload(e model.Event) model.Event {
	if v, ok := m.venues.venues[e.VenueID]; ok {
		e.Venue = v
	}
	if ref := e.SecretaryRef(); ref != "" {
		if s, ok := m.secs.secretaries[ref]; ok {
			e.Secretary = s
		}
	}
	return e
}

func (m *mockEventRepo) sorted() []model.Event {
	out := make([]model.Event, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, m.preload(*e))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EventID < out[j].EventID
	})
	return out
}

func (m *mockEventRepo) Create(_ context.Context, e *model.Event) error {
	if e.Version == 0 {
		e.Version = 1
	}
	cp := *e
	m.events[e.EventID] = &cp
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		cp := m.preload(*e)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) List(_ context.Context, f repository.EventFilter) ([]model.Event, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var out []model.Event
	for _, e := range m.sorted() {
		if f.From != nil && e.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && e.Date.After(*f.To) {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		if f.SecretaryID != "" && e.SecretaryRef() != f.SecretaryID && !e.ImpactedSecretaryIDs.Contains(f.SecretaryID) {
			continue
		}
		if f.VenueID != "" && e.VenueID != f.VenueID {
			continue
		}
		out = append(out, e)
	}
	total := int64(len(out))
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return []model.Event{}, total, nil
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, total, nil
}

func (m *mockEventRepo) ListAll(_ context.Context) ([]model.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sorted(), nil
}

func (m *mockEventRepo) ListBetween(_ context.Context, from, to time.Time) ([]model.Event, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Event
	for _, e := range m.sorted() {
		if calendar.WithinInclusive(e.Date, from, to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventRepo) Update(_ context.Context, e *model.Event) error {
	stored, ok := m.events[e.EventID]
	if !ok || stored.Version != e.Version {
		return pkgerrors.ErrOptimisticLock
	}
	cp := *e
	cp.Version++
	cp.Venue, cp.Secretary = nil, nil
	m.events[e.EventID] = &cp
	e.Version = cp.Version
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) ActiveDates(_ context.Context) ([]time.Time, error) {
	var out []time.Time
	for _, e := range m.sorted() {
		if e.IsActive() {
			out = append(out, e.Date)
		}
	}
	return out, nil
}

func (m *mockEventRepo) HistoricalAttendance(_ context.Context, week int, t model.EventType, before time.Time) (*model.AttendanceStats, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	stats := &model.AttendanceStats{WeekNumber: week, Type: t}
	for _, e := range m.events {
		if e.WeekNumber == week && e.Type == t && e.IsActive() && e.Date.Before(before) && e.ActualAttendance > 0 {
			stats.Events++
			stats.TotalCandidates += int64(e.ActualAttendance)
		}
	}
	if stats.Events > 0 {
		stats.AvgPerEvent = float64(stats.TotalCandidates) / float64(stats.Events)
	}
	return stats, nil
}

// ── Mock SecretaryRepository ──

type mockSecretaryRepo struct {
	secretaries  map[string]*model.Secretary
	availability map[string]model.SecretaryAvailability // secretaryID|date
}

func newMockSecretaryRepo() *mockSecretaryRepo {
	return &mockSecretaryRepo{
		secretaries:  make(map[string]*model.Secretary),
		availability: make(map[string]model.SecretaryAvailability),
	}
}

func availabilityKey(id string, d time.Time) string {
	return id + "|" + calendar.FormatDate(d)
}

func (m *mockSecretaryRepo) Create(_ context.Context, s *model.Secretary) error {
	if s.SecretaryID == "" {
		s.SecretaryID = "sec-" + s.Name
	}
	cp := *s
	m.secretaries[s.SecretaryID] = &cp
	return nil
}

func (m *mockSecretaryRepo) GetByID(_ context.Context, id string) (*model.Secretary, error) {
	if s, ok := m.secretaries[id]; ok {
		cp := *s
		cp.Availability, _ = m.ListAvailability(context.Background(), id)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSecretaryRepo) List(ctx context.Context, activeOnly bool) ([]model.Secretary, error) {
	var out []model.Secretary
	for id, s := range m.secretaries {
		if activeOnly && !s.Active {
			continue
		}
		cp := *s
		cp.Availability, _ = m.ListAvailability(ctx, id)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockSecretaryRepo) ListAvailability(_ context.Context, secretaryID string) ([]model.SecretaryAvailability, error) {
	var out []model.SecretaryAvailability
	for _, a := range m.availability {
		if a.SecretaryID == secretaryID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockSecretaryRepo) UpsertAvailability(_ context.Context, a *model.SecretaryAvailability) error {
	m.availability[availabilityKey(a.SecretaryID, a.Date)] = *a
	return nil
}

func (m *mockSecretaryRepo) DeleteAvailability(_ context.Context, secretaryID string, d time.Time) error {
	key := availabilityKey(secretaryID, d)
	if _, ok := m.availability[key]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.availability, key)
	return nil
}

// ── Mock VenueRepository ──

type mockVenueRepo struct {
	venues map[string]*model.Venue
}

func newMockVenueRepo() *mockVenueRepo {
	return &mockVenueRepo{venues: make(map[string]*model.Venue)}
}

func (m *mockVenueRepo) Create(_ context.Context, v *model.Venue) error {
	if v.VenueID == "" {
		v.VenueID = "venue-" + v.Name
	}
	cp := *v
	m.venues[v.VenueID] = &cp
	return nil
}

func (m *mockVenueRepo) GetByID(_ context.Context, id string) (*model.Venue, error) {
	if v, ok := m.venues[id]; ok {
		return v, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVenueRepo) GetByName(_ context.Context, name string) (*model.Venue, error) {
	for _, v := range m.venues {
		if v.Name == name {
			return v, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockVenueRepo) List(_ context.Context) ([]model.Venue, error) {
	var out []model.Venue
	for _, v := range m.venues {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── Mock TermDateRepository ──

type mockTermDateRepo struct {
	terms map[string]*model.TermDate
}

func newMockTermDateRepo() *mockTermDateRepo {
	return &mockTermDateRepo{terms: make(map[string]*model.TermDate)}
}

func (m *mockTermDateRepo) Create(_ context.Context, td *model.TermDate) error {
	if td.TermDateID == "" {
		td.TermDateID = "term-" + td.TermName
	}
	cp := *td
	m.terms[td.TermDateID] = &cp
	return nil
}

func (m *mockTermDateRepo) GetByID(_ context.Context, id string) (*model.TermDate, error) {
	if td, ok := m.terms[id]; ok {
		cp := *td
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTermDateRepo) List(_ context.Context, year int) ([]model.TermDate, error) {
	var out []model.TermDate
	for _, td := range m.terms {
		if year == 0 || td.AcademicYear == year {
			out = append(out, *td)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *mockTermDateRepo) ListOverlapping(_ context.Context, from, to time.Time) ([]model.TermDate, error) {
	var out []model.TermDate
	for _, td := range m.terms {
		if !td.StartDate.After(to) && !td.EndDate.Before(from) {
			out = append(out, *td)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (m *mockTermDateRepo) Update(_ context.Context, td *model.TermDate) error {
	if _, ok := m.terms[td.TermDateID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *td
	m.terms[td.TermDateID] = &cp
	return nil
}

func (m *mockTermDateRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.terms[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.terms, id)
	return nil
}

// ── Mock HolidayProvider ──

type mockHolidays struct {
	cache   *calendar.BankHolidays
	err     error
	ensured int
}

func newMockHolidays(dates ...string) *mockHolidays {
	return &mockHolidays{cache: calendar.NewBankHolidays(dates...)}
}

func (m *mockHolidays) Ensure(_ context.Context) error {
	m.ensured++
	return m.err
}

func (m *mockHolidays) Cache() *calendar.BankHolidays { return m.cache }

// ── fixture ──

type fixture struct {
	repo     *repository.Repository
	events   *mockEventRepo
	secs     *mockSecretaryRepo
	venues   *mockVenueRepo
	terms    *mockTermDateRepo
	holidays *mockHolidays
	logger   *zap.Logger
}

func newFixture() *fixture {
	venues := newMockVenueRepo()
	secs := newMockSecretaryRepo()
	events := newMockEventRepo(venues, secs)
	terms := newMockTermDateRepo()
	f := &fixture{
		repo: &repository.Repository{
			Event:     events,
			Secretary: secs,
			Venue:     venues,
			TermDate:  terms,
		},
		events:   events,
		secs:     secs,
		venues:   venues,
		terms:    terms,
		holidays: newMockHolidays(),
		logger:   zap.NewNop(),
	}
	venues.venues["v1"] = &model.Venue{VenueID: "v1", Name: "Church House"}
	secs.secretaries["s1"] = &model.Secretary{SecretaryID: "s1", Name: "Carys Walsh", Active: true}
	secs.secretaries["s2"] = &model.Secretary{SecretaryID: "s2", Name: "Robert Avery", Active: true}
	return f
}

func day(s string) time.Time {
	d, err := calendar.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func strPtr(s string) *string { return &s }

var errBoom = errors.New("boom")
