package alert

import (
	"fmt"
	"time"
)

// ReportingWindow is the calendar range a chart covers, both ends inclusive
type ReportingWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Days returns the midnight of every calendar day touched by the window
func (w ReportingWindow) Days(loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	var days []time.Time
	last := StartOfDay(w.End, loc)
	for d := StartOfDay(w.Start, loc); !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// String formats the window for captions
func (w ReportingWindow) String() string {
	return fmt.Sprintf("%s - %s", w.Start.Format("Jan 2"), w.End.Format("Jan 2, 2006"))
}

// WeekOfMonth returns the week-th week of a month. Weeks begin on firstDay
// and week 1 is the week containing the 1st, so it may start in the previous
// month. The window ends six days after it starts, at midnight.
func WeekOfMonth(year int, month time.Month, week int, firstDay time.Weekday, loc *time.Location) ReportingWindow {
	if loc == nil {
		loc = time.UTC
	}
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	offset := (int(first.Weekday()) - int(firstDay) + 7) % 7
	start := first.AddDate(0, 0, -offset+(week-1)*7)
	return ReportingWindow{Start: start, End: start.AddDate(0, 0, 6)}
}

// CurrentWeek returns the Sunday-first week containing now
func CurrentWeek(now time.Time, loc *time.Location) ReportingWindow {
	if loc == nil {
		loc = time.UTC
	}
	today := StartOfDay(now, loc)
	start := today.AddDate(0, 0, -int(today.Weekday()))
	return ReportingWindow{Start: start, End: start.AddDate(0, 0, 6)}
}

// DefaultReportingWindow is the second week of July 2024, the range the
// dashboard chart has always covered.
func DefaultReportingWindow(loc *time.Location) ReportingWindow {
	return WeekOfMonth(2024, time.July, 2, time.Sunday, loc)
}
