package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/httech/voltgo/internal/domain/alert"
)

// ChartConfig configures RenderChart
type ChartConfig struct {
	Height   int
	Width    int // 0 plots one column per day
	Location *time.Location
}

// DefaultChartConfig returns sensible defaults.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Height:   10,
		Location: time.UTC,
	}
}

// Summary is the dashboard card data for one reporting window
type Summary struct {
	Window     alert.ReportingWindow `json:"window"`
	Total      int                   `json:"total"`
	InWindow   int                   `json:"in_window"`
	BySeverity map[string]int        `json:"by_severity"`
	Series     alert.Series          `json:"series"`
}

// Summarize aggregates alerts over window
func Summarize(alerts []alert.Alert, window alert.ReportingWindow, loc *time.Location) Summary {
	series := alert.Aggregate(alerts, window.Start, window.End, loc)
	by := make(map[string]int, len(series))
	for sev, days := range series {
		for _, d := range days {
			by[sev] += d.Count
		}
	}
	return Summary{
		Window:     window,
		Total:      len(alerts),
		InWindow:   series.Total(),
		BySeverity: by,
		Series:     series,
	}
}

// chartOrder puts the known severities first, then the rest alphabetically
func chartOrder(series alert.Series) []string {
	rank := map[string]int{alert.SeverityLow: 0, alert.SeverityMedium: 1, alert.SeverityHigh: 2}
	keys := series.Severities()
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iok := rank[strings.ToLower(keys[i])]
		rj, jok := rank[strings.ToLower(keys[j])]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return false
		}
	})
	return keys
}

// dailyValues expands sparse day counts onto every day of the window
func dailyValues(counts []alert.DayCount, days []time.Time) []float64 {
	byDay := make(map[int64]int, len(counts))
	for _, c := range counts {
		byDay[c.Day.Unix()] += c.Count
	}
	values := make([]float64, len(days))
	for i, d := range days {
		values[i] = float64(byDay[d.Unix()])
	}
	return values
}

// RenderChart plots one line per severity across the window's days with a
// coloured legend underneath. An empty series renders NoData.
func RenderChart(series alert.Series, window alert.ReportingWindow, cfg ChartConfig) string {
	if series.Total() == 0 {
		return NoData
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Height < 3 {
		cfg.Height = 3
	}

	days := window.Days(cfg.Location)
	order := chartOrder(series)

	data := make([][]float64, 0, len(order))
	colors := make([]asciigraph.AnsiColor, 0, len(order))
	for _, sev := range order {
		data = append(data, dailyValues(series[sev], days))
		colors = append(colors, SeverityAnsi(sev))
	}

	opts := []asciigraph.Option{
		asciigraph.Height(cfg.Height),
		asciigraph.Caption(window.String()),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
		asciigraph.SeriesColors(colors...),
	}
	if cfg.Width > 0 && len(days) > 1 {
		opts = append(opts, asciigraph.Width(cfg.Width))
	}

	graph := strings.TrimRight(asciigraph.PlotMany(data, opts...), "\n")
	return graph + "\n" + dayAxis(days) + "\n" + legend(series, order)
}

func dayAxis(days []time.Time) string {
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Format("Mon 2")
	}
	return mutedFormat.Sprint(strings.Join(labels, "  "))
}

func legend(series alert.Series, order []string) string {
	parts := make([]string, 0, len(order))
	for _, sev := range order {
		n := 0
		for _, d := range series[sev] {
			n += d.Count
		}
		parts = append(parts, fmt.Sprintf("%s %s (%d)", SeverityColor(sev).Sprint("■"), sev, n))
	}
	return strings.Join(parts, "   ")
}
