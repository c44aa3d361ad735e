package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/api/middleware"
	"github.com/oxtobyd/panelplanner/internal/dto"
	"github.com/oxtobyd/panelplanner/internal/service"
	"github.com/oxtobyd/panelplanner/internal/validation"
	"github.com/oxtobyd/panelplanner/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock EventService ──

type mockEventService struct {
	createResult *dto.EventResponse
	createErr    error
	getResult    *dto.EventResponse
	getErr       error
	listResult   []dto.EventResponse
	listTotal    int64
	listErr      error
	updateResult *dto.EventResponse
	updateErr    error
	deleteErr    error
	histResult   *dto.HistoricalAttendanceResponse
	histErr      error

	lastList *dto.EventListRequest
}

func (m *mockEventService) Create(_ context.Context, _ *dto.CreateEventRequest) (*dto.EventResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockEventService) GetByID(_ context.Context, _ string) (*dto.EventResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockEventService) List(_ context.Context, req *dto.EventListRequest) ([]dto.EventResponse, int64, error) {
	m.lastList = req
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockEventService) Update(_ context.Context, _ string, _ *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockEventService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockEventService) HistoricalAttendance(_ context.Context, _ *dto.HistoricalAttendanceRequest) (*dto.HistoricalAttendanceResponse, error) {
	return m.histResult, m.histErr
}

// ── Mock SecretaryService ──

type mockSecretaryService struct {
	listResult   []dto.SecretaryResponse
	listErr      error
	availability []dto.AvailabilityResponse
	availErr     error
	setResult    *dto.AvailabilityResponse
	setErr       error
	deleteErr    error
}

func (m *mockSecretaryService) Create(_ context.Context, req *dto.CreateSecretaryRequest) (*dto.SecretaryResponse, error) {
	return &dto.SecretaryResponse{ID: "new", Name: req.Name, Active: true}, nil
}
func (m *mockSecretaryService) List(_ context.Context, _ *dto.SecretaryListRequest) ([]dto.SecretaryResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockSecretaryService) ListAvailability(_ context.Context, _ string) ([]dto.AvailabilityResponse, error) {
	return m.availability, m.availErr
}
func (m *mockSecretaryService) SetAvailability(_ context.Context, _ *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	return m.setResult, m.setErr
}
func (m *mockSecretaryService) DeleteAvailability(_ context.Context, _, _ string) error {
	return m.deleteErr
}

// ── Mock TermDateService ──

type mockTermDateService struct {
	createErr    error
	updateErr    error
	deleteErr    error
	importResult *dto.ImportTermDatesResponse
	importErr    error
}

func (m *mockTermDateService) Create(_ context.Context, _ *dto.CreateTermDateRequest) (*dto.TermDateResponse, error) {
	return &dto.TermDateResponse{}, m.createErr
}
func (m *mockTermDateService) List(_ context.Context, _ *dto.TermDateListRequest) ([]dto.TermDateResponse, error) {
	return nil, nil
}
func (m *mockTermDateService) Update(_ context.Context, _ string, _ *dto.UpdateTermDateRequest) (*dto.TermDateResponse, error) {
	return &dto.TermDateResponse{}, m.updateErr
}
func (m *mockTermDateService) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}
func (m *mockTermDateService) ImportICS(_ context.Context, _ *dto.ImportTermDatesRequest) (*dto.ImportTermDatesResponse, error) {
	return m.importResult, m.importErr
}

// ── Mock SeasonService ──

type mockSeasonService struct {
	report    *dto.SeasonReportResponse
	reportErr error
	seasons   *dto.SeasonsResponse
}

func (m *mockSeasonService) List(_ context.Context) (*dto.SeasonsResponse, error) {
	return m.seasons, nil
}
func (m *mockSeasonService) Report(_ context.Context, _ string) (*dto.SeasonReportResponse, error) {
	return m.report, m.reportErr
}

// ── Mock CalendarService ──

type mockCalendarService struct {
	month *dto.CalendarMonthResponse
}

func (m *mockCalendarService) Month(_ context.Context, _ *dto.CalendarRequest) (*dto.CalendarMonthResponse, error) {
	return m.month, nil
}
func (m *mockCalendarService) BankHolidays(_ context.Context) *dto.BankHolidaysResponse {
	return &dto.BankHolidaysResponse{Loaded: true, Dates: []string{"2025-04-18"}}
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) SeasonReport(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) EventsICS(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func serve(r *gin.Engine, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validCreate() dto.CreateEventRequest {
	return dto.CreateEventRequest{
		Type:       "Panel",
		Date:       "2025-03-04",
		WeekNumber: 10,
		VenueID:    "v1",
	}
}

// ═══════════════════════════════════════════════════════════
// EventHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEventHandler_Create_Success(t *testing.T) {
	mock := &mockEventService{createResult: &dto.EventResponse{ID: "e1", Type: "Panel", Date: "2025-03-04"}}
	h := NewEventHandler(mock)

	r := gin.New()
	r.POST("/events", h.CreateEvent)
	w := serve(r, http.MethodPost, "/events", jsonBody(validCreate()))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestEventHandler_Create_BadType(t *testing.T) {
	h := NewEventHandler(&mockEventService{})
	req := validCreate()
	req.Type = "Picnic"

	r := gin.New()
	r.POST("/events", h.CreateEvent)
	w := serve(r, http.MethodPost, "/events", jsonBody(req))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
}

func TestEventHandler_Create_InputProblems(t *testing.T) {
	mock := &mockEventService{createErr: &validation.InputError{Problems: []validation.FieldProblem{
		{Field: "time", Problem: "must be HH:MM"},
	}}}
	h := NewEventHandler(mock)

	r := gin.New()
	r.POST("/events", h.CreateEvent)
	w := serve(r, http.MethodPost, "/events", jsonBody(validCreate()))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 20002 {
		t.Errorf("expected code 20002, got %d", resp.Code)
	}
	problems, ok := resp.Data.([]interface{})
	if !ok || len(problems) != 1 {
		t.Fatalf("expected one problem, got %#v", resp.Data)
	}
	if p := problems[0].(map[string]interface{}); p["field"] != "time" {
		t.Errorf("problem = %v", p)
	}
}

func TestEventHandler_Create_UnknownVenue(t *testing.T) {
	h := NewEventHandler(&mockEventService{createErr: service.ErrVenueNotFound})

	r := gin.New()
	r.POST("/events", h.CreateEvent)
	w := serve(r, http.MethodPost, "/events", jsonBody(validCreate()))

	if w.Code != http.StatusBadRequest || parseResponse(w).Code != 20006 {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}

func TestEventHandler_Update_Conflict(t *testing.T) {
	h := NewEventHandler(&mockEventService{updateErr: service.ErrEventConflict})

	r := gin.New()
	r.PUT("/events/:id", h.UpdateEvent)
	w := serve(r, http.MethodPut, "/events/e1", jsonBody(map[string]interface{}{"status": "Confirmed", "version": 2}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20003 {
		t.Errorf("expected code 20003, got %d", resp.Code)
	}
}

func TestEventHandler_Update_MissingVersion(t *testing.T) {
	h := NewEventHandler(&mockEventService{})

	r := gin.New()
	r.PUT("/events/:id", h.UpdateEvent)
	w := serve(r, http.MethodPut, "/events/e1", jsonBody(map[string]interface{}{"status": "Confirmed"}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestEventHandler_Get_NotFound(t *testing.T) {
	h := NewEventHandler(&mockEventService{getErr: service.ErrEventNotFound})

	r := gin.New()
	r.GET("/events/:id", h.GetEvent)
	w := serve(r, http.MethodGet, "/events/missing", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestEventHandler_List_Paged(t *testing.T) {
	mock := &mockEventService{
		listResult: []dto.EventResponse{{ID: "e1"}, {ID: "e2"}},
		listTotal:  7,
	}
	h := NewEventHandler(mock)

	r := gin.New()
	r.GET("/events", h.ListEvents)
	w := serve(r, http.MethodGet, "/events?season=2024-25&page=2&page_size=2&type=Carousel", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastList.Season != "2024-25" || mock.lastList.Type != "Carousel" {
		t.Errorf("filters not bound: %+v", mock.lastList)
	}
	data := parseResponse(w).Data.(map[string]interface{})
	pg := data["pagination"].(map[string]interface{})
	if pg["total"].(float64) != 7 || pg["total_pages"].(float64) != 4 || pg["page"].(float64) != 2 {
		t.Errorf("pagination = %v", pg)
	}
}

func TestEventHandler_List_InvalidSeason(t *testing.T) {
	h := NewEventHandler(&mockEventService{listErr: service.ErrInvalidSeason})

	r := gin.New()
	r.GET("/events", h.ListEvents)
	w := serve(r, http.MethodGet, "/events?season=2024", nil)

	if w.Code != http.StatusBadRequest || parseResponse(w).Code != 20005 {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}

func TestEventHandler_HistoricalAttendance(t *testing.T) {
	mock := &mockEventService{histResult: &dto.HistoricalAttendanceResponse{WeekNumber: 12, Type: "Panel", Events: 2, TotalCandidates: 9, AvgPerEvent: 4.5}}
	h := NewEventHandler(mock)

	r := gin.New()
	r.GET("/events/historical-attendance", h.HistoricalAttendance)

	w := serve(r, http.MethodGet, "/events/historical-attendance?week=12&type=Panel", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	w = serve(r, http.MethodGet, "/events/historical-attendance?type=Panel", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing week: expected 400, got %d", w.Code)
	}
}

func TestEventHandler_BodyTooLarge(t *testing.T) {
	h := NewEventHandler(&mockEventService{})

	r := gin.New()
	r.Use(middleware.BodyLimit(64))
	r.POST("/events", h.CreateEvent)
	req := validCreate()
	req.Notes = strings.Repeat("x", 500)
	w := serve(r, http.MethodPost, "/events", jsonBody(req))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// SecretaryHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSecretaryHandler_SetAvailability_RequiresFlag(t *testing.T) {
	h := NewSecretaryHandler(&mockSecretaryService{})

	r := gin.New()
	r.POST("/secretaries/availability", h.SetAvailability)
	w := serve(r, http.MethodPost, "/secretaries/availability", jsonBody(map[string]string{
		"secretary_id": "s1", "date": "2025-01-10",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestSecretaryHandler_SetAvailability_Success(t *testing.T) {
	mock := &mockSecretaryService{setResult: &dto.AvailabilityResponse{SecretaryID: "s1", Date: "2025-01-10"}}
	h := NewSecretaryHandler(mock)

	r := gin.New()
	r.POST("/secretaries/availability", h.SetAvailability)
	w := serve(r, http.MethodPost, "/secretaries/availability", jsonBody(map[string]interface{}{
		"secretary_id": "s1", "date": "2025-01-10", "is_available": false,
	}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestSecretaryHandler_DeleteAvailability_NotFound(t *testing.T) {
	h := NewSecretaryHandler(&mockSecretaryService{deleteErr: service.ErrAvailabilityNotFound})

	r := gin.New()
	r.DELETE("/secretaries/:id/availability/:date", h.DeleteAvailability)
	w := serve(r, http.MethodDelete, "/secretaries/s1/availability/2025-01-10", nil)

	if w.Code != http.StatusNotFound || parseResponse(w).Code != 21002 {
		t.Errorf("got %d %s", w.Code, w.Body.String())
	}
}

func TestSecretaryHandler_ListAvailability_UnknownSecretary(t *testing.T) {
	h := NewSecretaryHandler(&mockSecretaryService{availErr: service.ErrSecretaryNotFound})

	r := gin.New()
	r.GET("/secretaries/:id/availability", h.ListAvailability)
	w := serve(r, http.MethodGet, "/secretaries/nobody/availability", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TermDateHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTermDateHandler_Update_Errors(t *testing.T) {
	tests := []struct {
		err      error
		wantHTTP int
		wantCode int
	}{
		{service.ErrTermDateNotFound, http.StatusNotFound, 22001},
		{service.ErrTermDateRange, http.StatusBadRequest, 22002},
		{service.ErrInvalidDate, http.StatusBadRequest, 20004},
	}
	for _, tt := range tests {
		h := NewTermDateHandler(&mockTermDateService{updateErr: tt.err})
		r := gin.New()
		r.PUT("/term-dates/:id", h.UpdateTermDate)
		w := serve(r, http.MethodPut, "/term-dates/t1", jsonBody(map[string]string{"term_name": "Spring"}))

		if w.Code != tt.wantHTTP || parseResponse(w).Code != tt.wantCode {
			t.Errorf("%v: got %d %s", tt.err, w.Code, w.Body.String())
		}
	}
}

func TestTermDateHandler_Import(t *testing.T) {
	tests := []struct {
		name     string
		mock     *mockTermDateService
		wantHTTP int
		wantCode int
	}{
		{"ok", &mockTermDateService{importResult: &dto.ImportTermDatesResponse{Imported: 3}}, http.StatusOK, 0},
		{"no source", &mockTermDateService{importErr: service.ErrTermImportSource}, http.StatusBadRequest, 22003},
		{"bad ics", &mockTermDateService{importErr: service.ErrTermImportParse}, http.StatusBadRequest, 22004},
		{"feed down", &mockTermDateService{importErr: service.ErrTermImportFetch}, http.StatusBadGateway, 22005},
	}
	for _, tt := range tests {
		h := NewTermDateHandler(tt.mock)
		r := gin.New()
		r.POST("/term-dates/import", h.ImportTermDates)
		w := serve(r, http.MethodPost, "/term-dates/import", jsonBody(map[string]string{"url": "https://example.org/terms.ics"}))

		if w.Code != tt.wantHTTP || parseResponse(w).Code != tt.wantCode {
			t.Errorf("%s: got %d %s", tt.name, w.Code, w.Body.String())
		}
	}
}

// ═══════════════════════════════════════════════════════════
// SeasonHandler / CalendarHandler Tests
// ═══════════════════════════════════════════════════════════

func TestSeasonHandler_Report(t *testing.T) {
	mock := &mockSeasonService{report: &dto.SeasonReportResponse{Season: "2024-25", EventCount: 3, ErrorCount: 1}}
	h := NewSeasonHandler(mock)

	r := gin.New()
	r.GET("/season-report", h.SeasonReport)

	if w := serve(r, http.MethodGet, "/season-report", nil); w.Code != http.StatusBadRequest {
		t.Errorf("missing season: expected 400, got %d", w.Code)
	}

	w := serve(r, http.MethodGet, "/season-report?season=2024-25", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	data := parseResponse(w).Data.(map[string]interface{})
	if data["season"] != "2024-25" {
		t.Errorf("data = %v", data)
	}

	mock.reportErr = service.ErrInvalidSeason
	if w := serve(r, http.MethodGet, "/season-report?season=24-25", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad season: expected 400, got %d", w.Code)
	}
}

func TestCalendarHandler_Month_Validation(t *testing.T) {
	h := NewCalendarHandler(&mockCalendarService{month: &dto.CalendarMonthResponse{Year: 2025, Month: 4}})

	r := gin.New()
	r.GET("/calendar", h.Month)

	if w := serve(r, http.MethodGet, "/calendar?year=2025&month=13", nil); w.Code != http.StatusBadRequest {
		t.Errorf("month 13: expected 400, got %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/calendar?year=2025&month=4", nil); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_SeasonReport_Success(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("xlsx-bytes"), filename: "season-report-2024-25.xlsx"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/export/season-report", h.SeasonReport)
	w := serve(r, http.MethodGet, "/export/season-report?season=2024-25", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("content type = %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "season-report-2024-25.xlsx") {
		t.Errorf("content disposition = %s", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Errorf("body = %q", w.Body.String())
	}
}

func TestExportHandler_EventsICS_ContentType(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("BEGIN:VCALENDAR"), filename: "events-2024-25.ics"}
	h := NewExportHandler(mock)

	r := gin.New()
	r.GET("/export/events.ics", h.EventsICS)
	w := serve(r, http.MethodGet, "/export/events.ics?season=2024-25", nil)

	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/calendar") {
		t.Errorf("content type = %s", w.Header().Get("Content-Type"))
	}
}

func TestExportHandler_Errors(t *testing.T) {
	tests := []struct {
		err      error
		wantHTTP int
		wantCode int
	}{
		{service.ErrInvalidSeason, http.StatusBadRequest, 20005},
		{service.ErrExportGenerateFail, http.StatusInternalServerError, 23001},
		{&validation.InputError{Problems: []validation.FieldProblem{{EventID: "e1", Field: "date", Problem: "missing"}}}, http.StatusBadRequest, 20002},
	}
	for _, tt := range tests {
		h := NewExportHandler(&mockExportService{err: tt.err})
		r := gin.New()
		r.GET("/export/season-report", h.SeasonReport)
		w := serve(r, http.MethodGet, "/export/season-report?season=2024-25", nil)

		if w.Code != tt.wantHTTP || parseResponse(w).Code != tt.wantCode {
			t.Errorf("%v: got %d %s", tt.err, w.Code, w.Body.String())
		}
	}
}

// ═══════════════════════════════════════════════════════════
// Aggregate
// ═══════════════════════════════════════════════════════════

func TestNewHandler_WiresEveryHandler(t *testing.T) {
	h := NewHandler(&service.Service{
		Event:     &mockEventService{},
		Secretary: &mockSecretaryService{},
		TermDate:  &mockTermDateService{},
		Season:    &mockSeasonService{},
		Calendar:  &mockCalendarService{},
		Export:    &mockExportService{},
	})
	if h.Event == nil || h.Secretary == nil || h.Venue == nil || h.TermDate == nil ||
		h.Season == nil || h.Calendar == nil || h.Export == nil {
		t.Errorf("handler aggregate incomplete: %+v", h)
	}
}
