package calendar

import (
	"testing"
	"time"

	"github.com/oxtobyd/panelplanner/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

// ── Easter / Holy Week ──

func TestEasterSunday_ReferenceDates(t *testing.T) {
	tests := map[int]string{
		1818: "1818-03-22",
		2000: "2000-04-23",
		2008: "2008-03-23",
		2011: "2011-04-24",
		2016: "2016-03-27",
		2019: "2019-04-21",
		2020: "2020-04-12",
		2021: "2021-04-04",
		2022: "2022-04-17",
		2023: "2023-04-09",
		2024: "2024-03-31",
		2025: "2025-04-20",
		2026: "2026-04-05",
		2038: "2038-04-25",
	}
	for year, want := range tests {
		if got := FormatDate(EasterSunday(year)); got != want {
			t.Errorf("EasterSunday(%d) = %s, want %s", year, got, want)
		}
	}
}

func TestEasterSunday_AlwaysMarchOrApril(t *testing.T) {
	for year := 1600; year <= 2400; year++ {
		m := EasterSunday(year).Month()
		if m != time.March && m != time.April {
			t.Fatalf("EasterSunday(%d) in %s", year, m)
		}
		if wd := EasterSunday(year).Weekday(); wd != time.Sunday {
			t.Fatalf("EasterSunday(%d) is a %s", year, wd)
		}
	}
}

func TestIsInHolyWeek_InclusiveBounds(t *testing.T) {
	years := []int{2024}
	tests := []struct {
		date string
		want bool
	}{
		{"2024-03-23", false},
		{"2024-03-24", true},
		{"2024-03-28", true},
		{"2024-03-31", true},
		{"2024-04-01", false},
	}
	for _, tt := range tests {
		if got := IsInHolyWeek(mustDate(t, tt.date), years); got != tt.want {
			t.Errorf("IsInHolyWeek(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
	if IsInHolyWeek(mustDate(t, "2024-03-28"), []int{2025}) {
		t.Error("2024 date must not match the 2025 Holy Week")
	}
}

// ── Seasons ──

func TestSeason(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-09-01", "2024-25"},
		{"2025-08-31", "2024-25"},
		{"2024-08-31", "2023-24"},
		{"2025-01-15", "2024-25"},
		{"2099-10-01", "2099-00"},
	}
	for _, tt := range tests {
		if got := Season(mustDate(t, tt.date)); got != tt.want {
			t.Errorf("Season(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestSeasonBounds(t *testing.T) {
	first, last, err := SeasonBounds("2024-25")
	if err != nil {
		t.Fatalf("SeasonBounds: %v", err)
	}
	if FormatDate(first) != "2024-09-01" || FormatDate(last) != "2025-08-31" {
		t.Errorf("bounds = %s..%s", FormatDate(first), FormatDate(last))
	}
	if Season(first) != "2024-25" || Season(last) != "2024-25" {
		t.Error("bounds must map back to the same season")
	}

	for _, bad := range []string{"", "2024", "2024-26", "24-25", "abcd-ef"} {
		if _, _, err := SeasonBounds(bad); err == nil {
			t.Errorf("SeasonBounds(%q) should fail", bad)
		}
	}
}

// ── Working days and due dates ──

func TestAddWorkingDays_ZeroIsIdentity(t *testing.T) {
	cache := NewBankHolidays("2024-05-06")
	for _, s := range []string{"2024-05-04", "2024-05-06", "2024-05-08"} {
		d := mustDate(t, s)
		if got := AddWorkingDays(d, 0, cache); !got.Equal(d) {
			t.Errorf("AddWorkingDays(%s, 0) = %s", s, FormatDate(got))
		}
	}
}

func TestAddWorkingDays_SkipsWeekendsAndHolidays(t *testing.T) {
	cache := NewBankHolidays("2024-05-06")
	got := AddWorkingDays(mustDate(t, "2024-05-03"), 5, cache)
	if FormatDate(got) != "2024-05-13" {
		t.Errorf("got %s, want 2024-05-13", FormatDate(got))
	}
}

func TestAddWorkingDays_NeverLandsOnNonWorkingDay(t *testing.T) {
	cache := NewBankHolidays("2024-12-25", "2024-12-26", "2025-01-01")
	start := mustDate(t, "2024-12-01")
	for i := 0; i < 60; i++ {
		from := AddDays(start, i)
		for n := 1; n <= 10; n++ {
			got := AddWorkingDays(from, n, cache)
			if !IsWorkingDay(got, cache) {
				t.Fatalf("AddWorkingDays(%s, %d) = %s is not a working day", FormatDate(from), n, FormatDate(got))
			}
		}
	}
}

func TestReportDueDate(t *testing.T) {
	empty := NewBankHolidays()
	withMayDay := NewBankHolidays("2024-05-06")

	tests := []struct {
		name  string
		date  string
		typ   model.EventType
		cache *BankHolidays
		want  string
		ok    bool
	}{
		{"panel no holidays", "2024-05-01", model.EventTypePanel, empty, "2024-05-10", true},
		{"panel with may day", "2024-05-01", model.EventTypePanel, withMayDay, "2024-05-13", true},
		{"carousel no holidays", "2024-05-01", model.EventTypeCarousel, empty, "2024-05-08", true},
		{"carousel with may day", "2024-05-01", model.EventTypeCarousel, withMayDay, "2024-05-09", true},
		{"training has none", "2024-05-01", model.EventTypeTraining, empty, "", false},
		{"candidates panel has none", "2024-05-01", model.EventTypeCandidatesPanel, empty, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ReportDueDate(mustDate(t, tt.date), tt.typ, tt.cache)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && FormatDate(got) != tt.want {
				t.Errorf("got %s, want %s", FormatDate(got), tt.want)
			}
		})
	}
}

func TestReportDueDate_NilCacheFailsOpen(t *testing.T) {
	got, ok := ReportDueDate(mustDate(t, "2024-05-01"), model.EventTypePanel, nil)
	if !ok || FormatDate(got) != "2024-05-10" {
		t.Errorf("got %s/%v, want 2024-05-10/true", FormatDate(got), ok)
	}
}

func TestPaperworkDueDate(t *testing.T) {
	d := mustDate(t, "2024-06-01")
	tests := []struct {
		typ  model.EventType
		want string
	}{
		{model.EventTypeCarousel, "2024-05-04"},
		{model.EventTypePanel, "2024-04-20"},
		{model.EventTypeConference, "2024-05-04"},
	}
	for _, tt := range tests {
		if got := FormatDate(PaperworkDueDate(d, tt.typ)); got != tt.want {
			t.Errorf("PaperworkDueDate(%s) = %s, want %s", tt.typ, got, tt.want)
		}
	}
}

// ── Occupancy ──

func TestEventOccupiesDay_PanelSpansThreeDays(t *testing.T) {
	panel := &model.Event{Type: model.EventTypePanel, Date: mustDate(t, "2024-05-01")}
	for _, s := range []string{"2024-05-01", "2024-05-02", "2024-05-03"} {
		if !EventOccupiesDay(panel, mustDate(t, s)) {
			t.Errorf("Panel should occupy %s", s)
		}
	}
	for _, s := range []string{"2024-04-30", "2024-05-04"} {
		if EventOccupiesDay(panel, mustDate(t, s)) {
			t.Errorf("Panel should not occupy %s", s)
		}
	}
	if n := len(OccupiedDays(panel)); n != 3 {
		t.Errorf("OccupiedDays = %d, want 3", n)
	}
}

func TestEventOccupiesDay_OtherTypesSingleDay(t *testing.T) {
	for _, typ := range []model.EventType{model.EventTypeCarousel, model.EventTypeTraining, model.EventTypeCandidatesPanel} {
		e := &model.Event{Type: typ, Date: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)}
		if !EventOccupiesDay(e, mustDate(t, "2024-05-01")) {
			t.Errorf("%s should occupy its own date", typ)
		}
		if EventOccupiesDay(e, mustDate(t, "2024-05-02")) {
			t.Errorf("%s should not occupy the next day", typ)
		}
	}
}

func TestEventsOnDay(t *testing.T) {
	events := []model.Event{
		{EventID: "p", Type: model.EventTypePanel, Date: mustDate(t, "2024-05-01")},
		{EventID: "c", Type: model.EventTypeCarousel, Date: mustDate(t, "2024-05-03")},
		{EventID: "x", Type: model.EventTypeCarousel, Date: mustDate(t, "2024-05-04")},
	}
	got := EventsOnDay(events, mustDate(t, "2024-05-03"))
	if len(got) != 2 || got[0].EventID != "p" || got[1].EventID != "c" {
		t.Errorf("EventsOnDay = %+v", got)
	}
}

// ── Misc ──

func TestStartOfWeek_Monday(t *testing.T) {
	tests := map[string]string{
		"2024-04-29": "2024-04-29",
		"2024-05-01": "2024-04-29",
		"2024-05-05": "2024-04-29",
		"2024-05-06": "2024-05-06",
	}
	for in, want := range tests {
		if got := FormatDate(StartOfWeek(mustDate(t, in))); got != want {
			t.Errorf("StartOfWeek(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2024, 3, 30, 23, 0, 0, 0, time.UTC)
	b := time.Date(2024, 4, 2, 1, 0, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Errorf("DaysBetween = %d, want 3", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Errorf("DaysBetween reversed = %d, want -3", got)
	}
}

func TestBankHolidays_Lifecycle(t *testing.T) {
	cache := NewBankHolidays()
	if cache.Loaded() || cache.Len() != 0 {
		t.Fatal("new cache must be empty and unloaded")
	}
	if IsBankHoliday("2024-12-25", cache) {
		t.Error("empty cache must fail open")
	}

	cache.Populate([]string{"2024-12-26", "2024-12-25"})
	if !cache.Loaded() || !IsBankHoliday("2024-12-25", cache) {
		t.Error("populated cache must report the holiday")
	}
	dates := cache.Dates()
	if len(dates) != 2 || dates[0] != "2024-12-25" {
		t.Errorf("Dates = %v", dates)
	}

	var nilCache *BankHolidays
	if nilCache.Contains("2024-12-25") || nilCache.Loaded() {
		t.Error("nil cache must behave as empty")
	}
}
