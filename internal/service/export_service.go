package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/repository"
	"github.com/oxtobyd/panelplanner/internal/restperiod"
	"github.com/oxtobyd/panelplanner/internal/validation"
	"github.com/oxtobyd/panelplanner/internal/workload"
)

// ErrExportGenerateFail the workbook or feed could not be rendered
var ErrExportGenerateFail = errors.New("failed to generate export file")

// ExportService file exports
//
//   - SeasonReport: .xlsx with an Issues sheet (the season report) and a
//     Workload sheet (per-secretary counts for the season)
//   - EventsICS: iCalendar feed of the season's live events as all-day entries
//
// Both return the content plus a suggested file name; the handler writes the
// HTTP headers.
type ExportService interface {
	SeasonReport(ctx context.Context, season string) (*bytes.Buffer, string, error)
	EventsICS(ctx context.Context, season string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo    *repository.Repository
	seasons SeasonService
	logger  *zap.Logger
	now     func() time.Time
}

// NewExportService creates an ExportService
func NewExportService(repo *repository.Repository, seasons SeasonService, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, seasons: seasons, logger: logger, now: time.Now}
}

// ═══════════════════════════════════════════════════════════
// SeasonReport
// ═══════════════════════════════════════════════════════════

const (
	issuesSheet   = "Issues"
	workloadSheet = "Workload"
)

func (s *exportService) SeasonReport(ctx context.Context, season string) (*bytes.Buffer, string, error) {
	report, err := s.seasons.Report(ctx, season)
	if err != nil {
		return nil, "", err
	}

	secretaries, err := s.repo.Secretary.List(ctx, false)
	if err != nil {
		return nil, "", err
	}
	events, err := s.repo.Event.ListAll(ctx)
	if err != nil {
		return nil, "", err
	}
	loads := workload.Distribute(secretaries, events, season)

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(issuesSheet)
	f.SetActiveSheet(idx)
	f.NewSheet(workloadSheet)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	errorStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "#C00000", Bold: true},
	})

	// ── Issues ──
	f.SetCellValue(issuesSheet, "A1", fmt.Sprintf("Season %s: %d errors, %d warnings across %d events",
		season, report.ErrorCount, report.WarningCount, report.EventCount))
	f.MergeCell(issuesSheet, "A1", "F1")

	issueHeaders := []string{"Date", "Type", "Secretary", "Rule", "Severity", "Issue"}
	writeHeader(f, issuesSheet, 2, issueHeaders, headerStyle)
	for i, w := range []float64{12, 16, 20, 24, 10, 90} {
		col := colName(i)
		f.SetColWidth(issuesSheet, col, col, w)
	}

	row := 3
	for _, is := range report.Issues {
		f.SetCellValue(issuesSheet, cell("A", row), calendar.FormatDate(is.Event.Date))
		f.SetCellValue(issuesSheet, cell("B", row), string(is.Event.Type))
		f.SetCellValue(issuesSheet, cell("C", row), is.Event.SecretaryName())
		f.SetCellValue(issuesSheet, cell("D", row), string(is.Rule))
		f.SetCellValue(issuesSheet, cell("E", row), string(is.Severity))
		f.SetCellValue(issuesSheet, cell("F", row), is.Message)
		if is.Severity == validation.SeverityError {
			f.SetCellStyle(issuesSheet, cell("E", row), cell("E", row), errorStyle)
		}
		row++
	}
	if len(report.Issues) == 0 {
		f.SetCellValue(issuesSheet, cell("A", row), "No issues")
	}

	// ── Workload ──
	loadHeaders := []string{"Secretary", "Panels", "Carousels", "Total", "Special", "Rest violations"}
	writeHeader(f, workloadSheet, 1, loadHeaders, headerStyle)
	f.SetColWidth(workloadSheet, "A", "A", 22)
	f.SetColWidth(workloadSheet, "F", "F", 70)

	row = 2
	for _, a := range loads {
		f.SetCellValue(workloadSheet, cell("A", row), a.Name)
		f.SetCellValue(workloadSheet, cell("B", row), a.Workload.Panels)
		f.SetCellValue(workloadSheet, cell("C", row), a.Workload.Carousels)
		f.SetCellValue(workloadSheet, cell("D", row), a.Workload.Total)
		f.SetCellValue(workloadSheet, cell("E", row), a.Workload.Special)
		f.SetCellValue(workloadSheet, cell("F", row), describeViolations(a.Workload.RestViolations))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, fmt.Sprintf("season-report-%s.xlsx", season), nil
}

// ═══════════════════════════════════════════════════════════
// EventsICS
// ═══════════════════════════════════════════════════════════

func (s *exportService) EventsICS(ctx context.Context, season string) (*bytes.Buffer, string, error) {
	from, to, err := calendar.SeasonBounds(season)
	if err != nil {
		return nil, "", ErrInvalidSeason
	}
	events, err := s.repo.Event.ListBetween(ctx, from, to)
	if err != nil {
		s.logger.Error("load season events failed", zap.String("season", season), zap.Error(err))
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//panelplanner//season feed//EN")
	cal.SetXWRCalName("Panels and Carousels " + season)

	stamp := s.now().UTC()
	for i := range events {
		e := &events[i]
		if !e.IsActive() {
			continue
		}
		ev := cal.AddEvent(e.EventID + "@panelplanner")
		ev.SetDtStampTime(stamp)
		ev.SetModifiedAt(e.UpdatedAt.UTC())
		ev.SetAllDayStartAt(calendar.Day(e.Date))
		ev.SetAllDayEndAt(calendar.AddDays(e.Date, calendar.SpanDays(e.Type)))
		ev.SetSummary(icsSummary(e))
		if e.Venue != nil {
			ev.SetLocation(e.Venue.Name)
		}
		ev.SetDescription(icsDescription(e))
		if e.Status == model.EventStatusConfirmed {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		} else {
			ev.SetStatus(ics.ObjectStatusTentative)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("events-%s.ics", season), nil
}

// ── helpers ──

func writeHeader(f *excelize.File, sheet string, row int, headers []string, style int) {
	for i, h := range headers {
		f.SetCellValue(sheet, cell(colName(i), row), h)
	}
	f.SetCellStyle(sheet, cell("A", row), cell(colName(len(headers)-1), row), style)
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func describeViolations(vs []restperiod.Violation) string {
	parts := make([]string, 0, len(vs))
	for _, v := range vs {
		parts = append(parts, fmt.Sprintf("%s: %s", calendar.FormatDate(v.Date), v.Detail))
	}
	return strings.Join(parts, "; ")
}

func icsSummary(e *model.Event) string {
	summary := eventLabel(e)
	if name := e.SecretaryName(); name != "" {
		summary += " - " + name
	}
	return summary
}

func icsDescription(e *model.Event) string {
	var lines []string
	if t := e.TimeOfDay(); t != "" {
		lines = append(lines, "Starts "+t)
	}
	lines = append(lines, "Status: "+string(e.Status))
	if e.EstimatedAttendance > 0 {
		lines = append(lines, fmt.Sprintf("Estimated attendance: %d", e.EstimatedAttendance))
	}
	if e.Notes != "" {
		lines = append(lines, e.Notes)
	}
	return strings.Join(lines, "\n")
}
