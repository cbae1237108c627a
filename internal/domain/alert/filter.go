package alert

import (
	"sort"
	"strings"
	"time"
)

// Filter applies state to alerts using the current time, sampled once.
func Filter(alerts []Alert, state FilterState) []Alert {
	return Apply(alerts, state, time.Now())
}

// Apply narrows and orders alerts for display. Steps run in a fixed order:
// date window (or newest-first sort for WindowAll), then severity, then status.
// The input slice is never modified.
func Apply(alerts []Alert, state FilterState, now time.Time) []Alert {
	out := make([]Alert, 0, len(alerts))

	if d := state.Window.Duration(); d > 0 {
		cutoff := now.Add(-d)
		for _, a := range alerts {
			if !a.CreatedAt.Before(cutoff) {
				out = append(out, a)
			}
		}
	} else {
		out = append(out, alerts...)
		SortNewestFirst(out)
	}

	if !IsAll(state.Severity) {
		out = keep(out, func(a Alert) bool { return strings.EqualFold(a.Severity, state.Severity) })
	}
	if !IsAll(state.Status) {
		out = keep(out, func(a Alert) bool { return strings.EqualFold(a.Status, state.Status) })
	}
	return out
}

// SortNewestFirst orders alerts by creation time, newest first. Ties keep
// their relative order.
func SortNewestFirst(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].CreatedAt.After(alerts[j].CreatedAt)
	})
}

// keep filters in place; out shares the backing array of in.
func keep(in []Alert, pred func(Alert) bool) []Alert {
	out := in[:0]
	for _, a := range in {
		if pred(a) {
			out = append(out, a)
		}
	}
	return out
}
