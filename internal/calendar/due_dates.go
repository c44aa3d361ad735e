package calendar

import (
	"time"

	"github.com/oxtobyd/panelplanner/internal/model"
)

const (
	reportWorkingDays = 5
	panelSpanDays     = 3
)

// AddWorkingDays advances one calendar day at a time, skipping weekends and
// cached bank holidays, until n working days have been consumed. n <= 0
// returns date unchanged.
func AddWorkingDays(date time.Time, n int, cache *BankHolidays) time.Time {
	current := Day(date)
	for remaining := n; remaining > 0; {
		current = current.AddDate(0, 0, 1)
		if IsWorkingDay(current, cache) {
			remaining--
		}
	}
	return current
}

// ReportDueDate is the advisory report deadline. Carousel: date + 5 working
// days. Panel: the clock starts on the Panel's last day, so (date + 2) + 5
// working days. Other types have no report due date and return false.
func ReportDueDate(date time.Time, eventType model.EventType, cache *BankHolidays) (time.Time, bool) {
	switch eventType {
	case model.EventTypeCarousel:
		return AddWorkingDays(date, reportWorkingDays, cache), true
	case model.EventTypePanel:
		return AddWorkingDays(AddDays(date, panelSpanDays-1), reportWorkingDays, cache), true
	}
	return time.Time{}, false
}

// PaperworkDueDate is plain calendar subtraction: six weeks before a Panel,
// four weeks before anything else.
func PaperworkDueDate(date time.Time, eventType model.EventType) time.Time {
	weeks := 4
	if eventType == model.EventTypePanel {
		weeks = 6
	}
	return AddDays(date, -7*weeks)
}
