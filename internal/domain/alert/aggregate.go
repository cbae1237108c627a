package alert

import (
	"sort"
	"time"
)

// DayCount is the number of alerts created on one calendar day
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// Series maps a severity, exactly as the server spelled it, to its daily counts
type Series map[string][]DayCount

// Aggregate counts alerts per severity per calendar day for records created
// within [start, end] inclusive. Days are computed in loc (UTC when nil) and
// each severity's counts are ordered by day ascending. Severities without any
// record in the window are absent.
func Aggregate(alerts []Alert, start, end time.Time, loc *time.Location) Series {
	if loc == nil {
		loc = time.UTC
	}

	counts := make(map[string]map[time.Time]int)
	for _, a := range alerts {
		if a.CreatedAt.Before(start) || a.CreatedAt.After(end) {
			continue
		}
		byDay, ok := counts[a.Severity]
		if !ok {
			byDay = make(map[time.Time]int)
			counts[a.Severity] = byDay
		}
		byDay[StartOfDay(a.CreatedAt, loc)]++
	}

	series := make(Series, len(counts))
	for severity, byDay := range counts {
		days := make([]DayCount, 0, len(byDay))
		for day, n := range byDay {
			days = append(days, DayCount{Day: day, Count: n})
		}
		sort.Slice(days, func(i, j int) bool { return days[i].Day.Before(days[j].Day) })
		series[severity] = days
	}
	return series
}

// StartOfDay truncates t to midnight of its calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Severities returns the series keys in a stable order
func (s Series) Severities() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total sums every count in the series
func (s Series) Total() int {
	total := 0
	for _, days := range s {
		for _, d := range days {
			total += d.Count
		}
	}
	return total
}
