package alert

import (
	"testing"
	"time"
)

func TestWeekOfMonth(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		week      int
		firstDay  time.Weekday
		wantStart time.Time
	}{
		{
			name:      "second week of July 2024, Sunday first",
			year:      2024,
			month:     time.July,
			week:      2,
			firstDay:  time.Sunday,
			wantStart: time.Date(2024, time.July, 7, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "first week starts in previous month",
			year:      2024,
			month:     time.July,
			week:      1,
			firstDay:  time.Sunday,
			wantStart: time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "Monday first, month starting on Monday",
			year:      2024,
			month:     time.July,
			week:      1,
			firstDay:  time.Monday,
			wantStart: time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WeekOfMonth(tt.year, tt.month, tt.week, tt.firstDay, time.UTC)
			if !w.Start.Equal(tt.wantStart) {
				t.Errorf("Start = %v, want %v", w.Start, tt.wantStart)
			}
			if want := tt.wantStart.AddDate(0, 0, 6); !w.End.Equal(want) {
				t.Errorf("End = %v, want %v", w.End, want)
			}
		})
	}
}

func TestReportingWindow_Days(t *testing.T) {
	w := DefaultReportingWindow(time.UTC)
	days := w.Days(time.UTC)
	if len(days) != 7 {
		t.Fatalf("Days() returned %d days, want 7", len(days))
	}
	if days[0].Day() != 7 || days[6].Day() != 13 {
		t.Errorf("Days() = %v .. %v, want Jul 7 .. Jul 13", days[0], days[6])
	}
}

func TestCurrentWeek(t *testing.T) {
	// Wednesday
	now := time.Date(2024, time.July, 10, 15, 30, 0, 0, time.UTC)
	w := CurrentWeek(now, time.UTC)
	if w.Start.Weekday() != time.Sunday || w.Start.Day() != 7 {
		t.Errorf("Start = %v, want Sunday Jul 7", w.Start)
	}
	if w.End.Day() != 13 {
		t.Errorf("End = %v, want Jul 13", w.End)
	}
}
