package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/httech/voltgo/internal/config"
	"github.com/httech/voltgo/internal/domain/alert"
	"github.com/httech/voltgo/pkg/client"
)

const twoAlerts = `[
	{"id":1,"category":"malware","title":"A","description":"d","severity":"high","status":"open","customer":"HTT","source":"edr","source_ref":"r","rule":"x","tags":"","references":"","created_by":"s","updated_by":"s","created_at":"2024-07-10T10:00:00.000Z","updated_at":"2024-07-10T10:00:00.000Z"},
	{"id":2,"category":"phish","title":"B","description":"d","severity":"low","status":"closed","customer":"HTT","source":"mail","source_ref":"r","rule":"y","tags":"","references":"","created_by":"s","updated_by":"s","created_at":"2024-07-11T09:00:00Z","updated_at":"2024-07-11T09:00:00Z"}
]`

func newAlertService(t *testing.T, handler http.HandlerFunc) *client.AlertService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := client.NewClient(client.Config{AlertsURL: srv.URL + "/alerts", Timeout: 5 * time.Second})
	c.SetTokenSource(client.StaticToken("token"))
	return c.Alerts()
}

func wait(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not complete")
	}
}

func TestAlertList_FailureKeepsPrevious(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	svc := newAlertService(t, func(w http.ResponseWriter, r *http.Request) {
		code := int(status.Load())
		w.WriteHeader(code)
		if code == http.StatusOK {
			_, _ = w.Write([]byte(twoAlerts))
		}
	})

	list := NewAlertList(svc)
	defer list.Close()

	wait(t, list.Refresh(context.Background()))
	if got := len(list.All()); got != 2 {
		t.Fatalf("len(All()) = %d, want 2", got)
	}

	status.Store(http.StatusUnauthorized)
	wait(t, list.Refresh(context.Background()))

	if got := len(list.All()); got != 2 {
		t.Errorf("len(All()) after 401 = %d, want previous 2", got)
	}
	if client.StatusCode(list.Err()) != http.StatusUnauthorized {
		t.Errorf("Err() = %v, want status 401", list.Err())
	}
	if got := list.Message(time.Now()); got != "Error: Invalid response from server (status 401)" {
		t.Errorf("Message() = %q", got)
	}

	status.Store(http.StatusOK)
	wait(t, list.Refresh(context.Background()))
	if list.Err() != nil {
		t.Errorf("Err() after recovery = %v, want nil", list.Err())
	}
}

func TestAlertList_NullBodyKeepsPrevious(t *testing.T) {
	var null atomic.Bool
	svc := newAlertService(t, func(w http.ResponseWriter, r *http.Request) {
		if null.Load() {
			_, _ = w.Write([]byte("null"))
			return
		}
		_, _ = w.Write([]byte(twoAlerts))
	})

	list := NewAlertList(svc)
	defer list.Close()

	wait(t, list.Refresh(context.Background()))
	null.Store(true)
	wait(t, list.Refresh(context.Background()))

	if got := len(list.All()); got != 2 {
		t.Errorf("len(All()) after null body = %d, want previous 2", got)
	}
	var decodeErr *client.DecodeError
	if !errors.As(list.Err(), &decodeErr) {
		t.Errorf("Err() = %v, want DecodeError", list.Err())
	}
	if got := list.Message(time.Now()); got != "Error: Error decoding data" {
		t.Errorf("Message() = %q", got)
	}
}

func TestAlertList_VisibleAndNoData(t *testing.T) {
	svc := newAlertService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(twoAlerts))
	})

	list := NewAlertList(svc)
	defer list.Close()
	wait(t, list.Refresh(context.Background()))

	now := time.Date(2024, time.July, 12, 0, 0, 0, 0, time.UTC)

	visible := list.Visible(now)
	if len(visible) != 2 || visible[0].ID != 2 {
		t.Errorf("Visible() = %+v, want newest first", visible)
	}
	if got := list.Message(now); got != "" {
		t.Errorf("Message() = %q, want empty", got)
	}

	list.SetFilter(alert.FilterState{Window: alert.WindowAll, Severity: "HIGH"})
	if visible := list.Visible(now); len(visible) != 1 || visible[0].ID != 1 {
		t.Errorf("Visible() with severity HIGH = %+v", visible)
	}

	list.SetFilter(alert.FilterState{Window: alert.WindowLast24Hours, Severity: "high"})
	if got := list.Message(now); got != NoData {
		t.Errorf("Message() = %q, want %q", got, NoData)
	}
}

func TestAlertList_EmptyBody(t *testing.T) {
	svc := newAlertService(t, func(w http.ResponseWriter, r *http.Request) {})

	list := NewAlertList(svc)
	defer list.Close()
	wait(t, list.Refresh(context.Background()))

	if got := list.Message(time.Now()); got != "Error: No data received" {
		t.Errorf("Message() = %q", got)
	}
}

func TestAlertList_CloseDropsCompletion(t *testing.T) {
	release := make(chan struct{})
	svc := newAlertService(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, _ = w.Write([]byte(twoAlerts))
	})

	list := NewAlertList(svc)
	done := list.Refresh(context.Background())
	list.Close()
	close(release)
	wait(t, done)

	if list.Loaded() || len(list.All()) != 0 {
		t.Errorf("closed list was updated: %d alerts", len(list.All()))
	}

	// refreshing a closed list is a no-op
	wait(t, list.Refresh(context.Background()))
	if list.Loaded() {
		t.Error("Refresh() after Close() loaded data")
	}
}

// manualSource completes each ListAsync call when its gate is closed
type manualSource struct {
	gates   []chan struct{}
	results [][]alert.Alert
	calls   atomic.Int32
}

func (m *manualSource) ListAsync(ctx context.Context) *client.Task[[]alert.Alert] {
	i := int(m.calls.Add(1)) - 1
	return client.Go(context.Background(), func(context.Context) ([]alert.Alert, error) {
		<-m.gates[i]
		return m.results[i], nil
	})
}

func TestAlertList_StaleCompletionDropped(t *testing.T) {
	src := &manualSource{
		gates:   []chan struct{}{make(chan struct{}), make(chan struct{})},
		results: [][]alert.Alert{{{ID: 1}}, {{ID: 2}, {ID: 3}}},
	}
	list := NewAlertList(src)
	defer list.Close()

	first := list.Refresh(context.Background())
	second := list.Refresh(context.Background())

	close(src.gates[1])
	wait(t, second)
	close(src.gates[0])
	wait(t, first)

	all := list.All()
	if len(all) != 2 || all[0].ID != 2 {
		t.Errorf("All() = %+v, want the newer fetch", all)
	}
}

func TestAlertDetail_Comments(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    []string
		wantErr bool
	}{
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			want:    []string{NoComments},
			wantErr: true,
		},
		{
			name:   "empty thread",
			status: http.StatusOK,
			body:   `[]`,
			want:   []string{NoComments},
		},
		{
			name:   "thread",
			status: http.StatusOK,
			body:   `[{"id":1,"alert_id":5,"created_at":"2024-07-10T10:00:00.000Z","email":"a@b.c","username":"analyst","text":"checking"}]`,
			want:   []string{"analyst", "checking", "Jul 10, 2024 at 10:00 AM"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAlertService(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/alerts/5/comments" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			detail := NewAlertDetail(alert.Alert{ID: 5}, svc)
			defer detail.Close()
			wait(t, detail.Refresh(context.Background()))

			_, err := detail.Comments()
			if (err != nil) != tt.wantErr {
				t.Errorf("Comments() error = %v, wantErr %v", err, tt.wantErr)
			}

			got := strings.Join(detail.CommentLines(time.UTC), "\n")
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("CommentLines() = %q, missing %q", got, w)
				}
			}
		})
	}
}

func TestFormatCommentTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2024-07-10T14:05:00.123Z", "Jul 10, 2024 at 2:05 PM"},
		{"2024-07-10T14:05:00Z", "Jul 10, 2024 at 2:05 PM"},
		{"2024-07-10T14:05:00+02:00", "Jul 10, 2024 at 12:05 PM"},
		{"last tuesday", "last tuesday"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := FormatCommentTime(tt.raw, time.UTC); got != tt.want {
			t.Errorf("FormatCommentTime(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestSeverityColor(t *testing.T) {
	tests := []struct {
		severity string
		want     interface{}
	}{
		{"low", lowFormat},
		{"Medium", mediumFormat},
		{"HIGH", highFormat},
		{"critical", unknownFormat},
		{"", unknownFormat},
	}

	for _, tt := range tests {
		if got := SeverityColor(tt.severity); got != tt.want {
			t.Errorf("SeverityColor(%q) picked the wrong bucket", tt.severity)
		}
	}
}

func TestSummarizeAndRenderChart(t *testing.T) {
	window := alert.DefaultReportingWindow(time.UTC)
	at := func(day, hour int) time.Time { return time.Date(2024, time.July, day, hour, 0, 0, 0, time.UTC) }

	alerts := []alert.Alert{
		{ID: 1, Severity: "high", CreatedAt: at(8, 9)},
		{ID: 2, Severity: "high", CreatedAt: at(8, 17)},
		{ID: 3, Severity: "low", CreatedAt: at(10, 1)},
		{ID: 4, Severity: "critical", CreatedAt: at(11, 12)},
		{ID: 5, Severity: "low", CreatedAt: at(20, 12)},
	}

	s := Summarize(alerts, window, time.UTC)
	if s.Total != 5 || s.InWindow != 4 {
		t.Errorf("Summarize() totals = %d/%d, want 5/4", s.Total, s.InWindow)
	}
	if s.BySeverity["high"] != 2 || s.BySeverity["low"] != 1 || s.BySeverity["critical"] != 1 {
		t.Errorf("BySeverity = %v", s.BySeverity)
	}

	out := RenderChart(s.Series, window, DefaultChartConfig())
	for _, want := range []string{"high (2)", "low (1)", "critical (1)", "Jul 7 - Jul 13, 2024", "Sun 7"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderChart() missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "low (1)") > strings.Index(out, "critical (1)") {
		t.Error("legend should list known severities before others")
	}

	if got := RenderChart(alert.Series{}, window, DefaultChartConfig()); got != NoData {
		t.Errorf("RenderChart(empty) = %q, want %q", got, NoData)
	}
}

func TestEndpointsByOS(t *testing.T) {
	got := EndpointsByOS(Endpoints())
	want := []OSCount{{"Linux", 40}, {"Windows", 31}, {"Mac", 17}}
	if len(got) != len(want) {
		t.Fatalf("EndpointsByOS() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("EndpointsByOS()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if bar := Bar(40, 40, 10); bar != strings.Repeat("█", 10)+" 40" {
		t.Errorf("Bar() = %q", bar)
	}
	if bar := Bar(0, 40, 10); bar != "" {
		t.Errorf("Bar(0) = %q, want empty", bar)
	}
	if got := len(TopEndpoints(3)); got != 3 {
		t.Errorf("len(TopEndpoints(3)) = %d", got)
	}
}

func TestActivities(t *testing.T) {
	now := time.Date(2024, time.July, 10, 12, 0, 0, 0, time.UTC)
	acts := Activities(now)
	if len(acts) != 6 {
		t.Fatalf("len(Activities()) = %d, want 6", len(acts))
	}
	if got := acts[0].Since(now); got != "now" {
		t.Errorf("Since() = %q, want now", got)
	}
	if got := acts[2].Since(now); got != "2 hours ago" {
		t.Errorf("Since() = %q, want 2 hours ago", got)
	}
	if acts[0].ID == acts[1].ID {
		t.Error("activities share an id")
	}
}

func TestSettings(t *testing.T) {
	rows := Settings(config.PreferencesConfig{Notifications: true})
	values := map[string]string{}
	for _, r := range rows {
		values[r.Name] = r.Value
	}
	if values["Dark Mode"] != "off" || values["Notifications"] != "on" || values["Location Services"] != "off" {
		t.Errorf("Settings() = %v", values)
	}
}
