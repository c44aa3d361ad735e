package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/oxtobyd/panelplanner/internal/calendar"
	"github.com/oxtobyd/panelplanner/internal/model"
	"github.com/oxtobyd/panelplanner/internal/validation"
)

// snapshotFile is the on-disk season snapshot. JSON files decode through the
// same YAML decoder.
type snapshotFile struct {
	Season       string            `yaml:"season"`
	BankHolidays []string          `yaml:"bank_holidays"`
	Secretaries  []secretaryRecord `yaml:"secretaries"`
	TermDates    []termDateRecord  `yaml:"term_dates"`
	Events       []eventRecord     `yaml:"events"`
}

type secretaryRecord struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Active      *bool    `yaml:"active"`
	Unavailable []string `yaml:"unavailable"`
}

type termDateRecord struct {
	AcademicYear int    `yaml:"academic_year"`
	Name         string `yaml:"name"`
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	Type         string `yaml:"type"`
}

type eventRecord struct {
	ID                  string   `yaml:"id"`
	Type                string   `yaml:"type"`
	PanelNumber         string   `yaml:"panel_number"`
	Date                string   `yaml:"date"`
	Time                string   `yaml:"time"`
	WeekNumber          int      `yaml:"week_number"`
	Venue               string   `yaml:"venue"`
	Secretary           string   `yaml:"secretary"` // id or name
	Impacted            []string `yaml:"impacted"`  // ids or names
	Status              string   `yaml:"status"`
	EstimatedAttendance int      `yaml:"estimated_attendance"`
	ActualAttendance    int      `yaml:"actual_attendance"`
}

// seasonInput is a decoded snapshot ready for the engine.
type seasonInput struct {
	Season   string
	Snapshot validation.Snapshot
	// HasHolidays is false when the file carried no bank_holidays key.
	HasHolidays bool
}

func loadSnapshotFile(path string) (*seasonInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return decodeSnapshot(f)
}

func decodeSnapshot(r io.Reader) (*seasonInput, error) {
	var file snapshotFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return file.toInput()
}

func (f *snapshotFile) toInput() (*seasonInput, error) {
	in := &seasonInput{Season: f.Season, HasHolidays: f.BankHolidays != nil}

	holidays := calendar.NewBankHolidays()
	if f.BankHolidays != nil {
		for _, d := range f.BankHolidays {
			if _, err := calendar.ParseDate(d); err != nil {
				return nil, fmt.Errorf("bank_holidays: %w", err)
			}
		}
		holidays.Populate(f.BankHolidays)
	}
	in.Snapshot.BankHolidays = holidays

	// names resolve to ids so events may reference either
	byName := make(map[string]string, len(f.Secretaries))
	for i, s := range f.Secretaries {
		if s.Name == "" {
			return nil, fmt.Errorf("secretaries[%d]: name is required", i)
		}
		id := s.ID
		if id == "" {
			id = uuid.NewString()
		}
		sec := model.Secretary{SecretaryID: id, Name: s.Name, Active: s.Active == nil || *s.Active}
		for _, d := range s.Unavailable {
			day, err := calendar.ParseDate(d)
			if err != nil {
				return nil, fmt.Errorf("secretaries[%d].unavailable: %w", i, err)
			}
			sec.Availability = append(sec.Availability, model.SecretaryAvailability{
				SecretaryID: id, Date: day, IsAvailable: false,
			})
		}
		byName[strings.ToLower(s.Name)] = id
		in.Snapshot.Secretaries = append(in.Snapshot.Secretaries, sec)
	}
	resolve := func(ref string) string {
		if id, ok := byName[strings.ToLower(ref)]; ok {
			return id
		}
		return ref
	}

	for i, t := range f.TermDates {
		start, err := calendar.ParseDate(t.Start)
		if err != nil {
			return nil, fmt.Errorf("term_dates[%d].start: %w", i, err)
		}
		end, err := calendar.ParseDate(t.End)
		if err != nil {
			return nil, fmt.Errorf("term_dates[%d].end: %w", i, err)
		}
		typ := t.Type
		if typ == "" {
			typ = model.TermTypeTerm
		}
		in.Snapshot.TermDates = append(in.Snapshot.TermDates, model.TermDate{
			TermDateID:   uuid.NewString(),
			AcademicYear: t.AcademicYear,
			TermName:     t.Name,
			StartDate:    start,
			EndDate:      end,
			Type:         typ,
		})
	}

	for i, e := range f.Events {
		ev := model.Event{
			EventID:             e.ID,
			Type:                model.EventType(e.Type),
			PanelNumber:         e.PanelNumber,
			WeekNumber:          e.WeekNumber,
			VenueID:             e.Venue,
			Status:              model.EventStatus(e.Status),
			EstimatedAttendance: e.EstimatedAttendance,
			ActualAttendance:    e.ActualAttendance,
		}
		if ev.EventID == "" {
			ev.EventID = uuid.NewString()
		}
		if ev.Status == "" {
			ev.Status = model.EventStatusBooked
		}
		// a missing date stays zero and is reported with the event id
		if e.Date != "" {
			day, err := calendar.ParseDate(e.Date)
			if err != nil {
				return nil, fmt.Errorf("events[%d].date: %w", i, err)
			}
			ev.Date = day
		}
		if e.Time != "" {
			tm := e.Time
			ev.Time = &tm
		}
		if e.Secretary != "" {
			id := resolve(e.Secretary)
			ev.SecretaryID = &id
		}
		for _, ref := range e.Impacted {
			ev.ImpactedSecretaryIDs = append(ev.ImpactedSecretaryIDs, resolve(ref))
		}
		in.Snapshot.Events = append(in.Snapshot.Events, ev)
	}

	return in, nil
}
