package alert

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)

func mk(id int64, severity, status string, age time.Duration) Alert {
	created := testNow.Add(-age)
	return Alert{
		ID:        id,
		Title:     "alert",
		Severity:  severity,
		Status:    status,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func sampleAlerts() []Alert {
	return []Alert{
		mk(1, "high", "open", 2*time.Hour),
		mk(2, "Low", "Closed", 30*time.Hour),
		mk(3, "HIGH", "in review", 8*24*time.Hour),
		mk(4, "medium", "open", 23*time.Hour),
		mk(5, "critical", "escalated", 3*24*time.Hour),
		mk(6, "high", "Open", 7*24*time.Hour),
		mk(7, "low", "open", 2*time.Hour),
	}
}

func ids(alerts []Alert) []int64 {
	out := make([]int64, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, a.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name  string
		state FilterState
		want  []int64
	}{
		{
			name:  "zero state sorts newest first",
			state: FilterState{},
			want:  []int64{1, 7, 4, 2, 5, 6, 3},
		},
		{
			name:  "last 24 hours keeps input order",
			state: FilterState{Window: WindowLast24Hours},
			want:  []int64{1, 4, 7},
		},
		{
			name:  "last 7 days includes the boundary",
			state: FilterState{Window: WindowLast7Days},
			want:  []int64{1, 2, 4, 5, 6, 7},
		},
		{
			name:  "severity is case-insensitive",
			state: FilterState{Window: WindowAll, Severity: "High"},
			want:  []int64{1, 6, 3},
		},
		{
			name:  "status after window",
			state: FilterState{Window: WindowLast7Days, Status: "OPEN"},
			want:  []int64{1, 4, 6, 7},
		},
		{
			name:  "all three steps",
			state: FilterState{Window: WindowLast24Hours, Severity: "low", Status: "open"},
			want:  []int64{7},
		},
		{
			name:  "explicit all selectors",
			state: FilterState{Window: WindowAll, Severity: "All", Status: "all"},
			want:  []int64{1, 7, 4, 2, 5, 6, 3},
		},
		{
			name:  "in review status",
			state: FilterState{Status: StatusInReview},
			want:  []int64{3},
		},
		{
			name:  "no match",
			state: FilterState{Severity: "informational"},
			want:  []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(sampleAlerts(), tt.state, testNow))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestApply_Idempotent(t *testing.T) {
	states := []FilterState{
		{},
		{Window: WindowLast24Hours},
		{Window: WindowLast7Days, Severity: "high"},
		{Window: WindowAll, Status: "open"},
		{Window: WindowLast7Days, Severity: "low", Status: "closed"},
	}

	for _, s := range states {
		once := Apply(sampleAlerts(), s, testNow)
		twice := Apply(once, s, testNow)
		if !reflect.DeepEqual(ids(once), ids(twice)) {
			t.Errorf("state %+v: Apply not idempotent: %v then %v", s, ids(once), ids(twice))
		}
	}
}

func TestApply_AllIsSortWithoutMembershipChange(t *testing.T) {
	in := sampleAlerts()
	got := Apply(in, FilterState{}, testNow)

	if len(got) != len(in) {
		t.Fatalf("len = %d, want %d", len(got), len(in))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].CreatedAt.Before(got[i].CreatedAt) {
			t.Errorf("not descending at %d: %v before %v", i, got[i-1].CreatedAt, got[i].CreatedAt)
		}
	}

	seen := make(map[int64]bool)
	for _, a := range got {
		seen[a.ID] = true
	}
	for _, a := range in {
		if !seen[a.ID] {
			t.Errorf("alert %d dropped", a.ID)
		}
	}
}

func TestApply_DoesNotReorderInput(t *testing.T) {
	in := sampleAlerts()
	before := ids(in)
	Apply(in, FilterState{Severity: "high"}, testNow)
	if !reflect.DeepEqual(ids(in), before) {
		t.Errorf("input reordered: %v, was %v", ids(in), before)
	}
}

func TestApply_WindowBound(t *testing.T) {
	for _, w := range []Window{WindowLast24Hours, WindowLast7Days} {
		cutoff := testNow.Add(-w.Duration())
		got := Apply(sampleAlerts(), FilterState{Window: w}, testNow)
		inResult := make(map[int64]bool)
		for _, a := range got {
			inResult[a.ID] = true
			if a.CreatedAt.Before(cutoff) {
				t.Errorf("%s: alert %d created %v before cutoff %v", w, a.ID, a.CreatedAt, cutoff)
			}
		}
		for _, a := range sampleAlerts() {
			if !a.CreatedAt.Before(cutoff) && !inResult[a.ID] {
				t.Errorf("%s: alert %d inside window was dropped", w, a.ID)
			}
		}
	}
}

func TestApply_SeverityHighExcludesUnknown(t *testing.T) {
	in := append(sampleAlerts(), mk(8, "sev-unknown", "open", time.Hour))
	got := Apply(in, FilterState{Severity: "high"}, testNow)
	for _, a := range got {
		if strings.ToLower(a.Severity) != "high" {
			t.Errorf("alert %d severity %q leaked into high filter", a.ID, a.Severity)
		}
	}

	all := Apply(in, FilterState{}, testNow)
	found := false
	for _, a := range all {
		if a.ID == 8 {
			found = true
		}
	}
	if !found {
		t.Error("unknown severity must stay visible under all")
	}
}

func TestApply_Empty(t *testing.T) {
	states := []FilterState{{}, {Window: WindowLast24Hours}, {Severity: "high", Status: "open"}}
	for _, s := range states {
		if got := Apply(nil, s, testNow); len(got) != 0 {
			t.Errorf("Apply(nil, %+v) = %v, want empty", s, got)
		}
	}
}

func TestApply_StableTies(t *testing.T) {
	in := []Alert{
		mk(1, "low", "open", time.Hour),
		mk(2, "low", "open", time.Hour),
		mk(3, "low", "open", time.Hour),
	}
	got := ids(Apply(in, FilterState{}, testNow))
	if !reflect.DeepEqual(got, []int64{1, 2, 3}) {
		t.Errorf("ties reordered: %v", got)
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{"", WindowAll, false},
		{"All", WindowAll, false},
		{"24h", WindowLast24Hours, false},
		{"Last 24 Hours", WindowLast24Hours, false},
		{"7d", WindowLast7Days, false},
		{"last-7-days", WindowLast7Days, false},
		{"30d", "", true},
	}

	for _, tt := range tests {
		got, err := ParseWindow(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWindow(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWindow(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
