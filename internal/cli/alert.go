package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/httech/voltgo/internal/config"
	"github.com/httech/voltgo/internal/dashboard"
	"github.com/httech/voltgo/internal/domain/alert"
	apperrors "github.com/httech/voltgo/internal/pkg/errors"
	"github.com/spf13/cobra"
)

func newAlertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "alert",
		Short:       "Browse alerts",
		Annotations: map[string]string{requiresKey: requiresSession},
	}

	cmd.AddCommand(newAlertListCmd())
	cmd.AddCommand(newAlertGetCmd())
	cmd.AddCommand(newAlertChartCmd())

	return cmd
}

// fetchAlerts loads the alert list once and returns it, or the classified failure
func fetchAlerts(ctx context.Context) (*dashboard.AlertList, error) {
	list := dashboard.NewAlertList(apiClient.Alerts())
	<-list.Refresh(ctx)
	if err := list.Err(); err != nil {
		list.Close()
		return nil, apperrors.FromFetch(err)
	}
	return list, nil
}

func newAlertListCmd() *cobra.Command {
	var window, severity, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List alerts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := alert.ParseWindow(window)
			if err != nil {
				return err
			}

			list, err := fetchAlerts(cmd.Context())
			if err != nil {
				return err
			}
			defer list.Close()

			list.SetFilter(alert.FilterState{Window: w, Severity: severity, Status: status})
			now := time.Now()
			alerts := list.Visible(now)

			format := getOutputFormat()
			if format != "table" {
				return printOutput(alerts)
			}

			if msg := list.Message(now); msg != "" {
				fmt.Println(msg)
				return nil
			}

			loc, _ := cfg.Report.Location()
			t := NewTable("ID", "CREATED", "SEVERITY", "STATUS", "CATEGORY", "TITLE")
			for _, a := range alerts {
				t.AddRow(
					strconv.FormatInt(a.ID, 10),
					dashboard.FormatCreated(a.CreatedAt, loc),
					formatSeverity(a.Severity),
					formatStatus(a.Status),
					a.Category,
					truncate(a.Title, 50),
				)
			}
			t.Render()
			fmt.Printf("\n%d of %d alerts (%s)\n", len(alerts), len(list.All()), w.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&window, "window", "all", "date window: all, 24h, 7d")
	cmd.Flags().StringVar(&severity, "severity", "all", "filter by severity: all, low, medium, high")
	cmd.Flags().StringVar(&status, "status", "all", "filter by status: all, open, closed, in review")

	return cmd
}

// alertView is the structured form of alert get
type alertView struct {
	alert.Alert
	Comments []alert.Comment `json:"comments"`
}

func newAlertGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Get alert details and comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid alert ID: %s", args[0])
			}

			list, err := fetchAlerts(cmd.Context())
			if err != nil {
				return err
			}
			defer list.Close()

			var found *alert.Alert
			for _, a := range list.All() {
				if a.ID == id {
					a := a
					found = &a
					break
				}
			}
			if found == nil {
				return fmt.Errorf("alert %d not found", id)
			}

			detail := dashboard.NewAlertDetail(*found, apiClient.Alerts())
			defer detail.Close()
			<-detail.Refresh(cmd.Context())

			format := getOutputFormat()
			if format != "table" {
				comments, _ := detail.Comments()
				return printOutput(alertView{Alert: *found, Comments: comments})
			}

			loc, _ := cfg.Report.Location()
			a := detail.Alert
			fmt.Printf("ID:          %d\n", a.ID)
			fmt.Printf("Title:       %s\n", a.Title)
			fmt.Printf("Severity:    %s\n", formatSeverity(a.Severity))
			fmt.Printf("Status:      %s\n", formatStatus(a.Status))
			fmt.Printf("Category:    %s\n", a.Category)
			fmt.Printf("Customer:    %s\n", a.Customer)
			fmt.Printf("Source:      %s (%s)\n", a.Source, a.SourceRef)
			fmt.Printf("Rule:        %s\n", a.Rule)
			if a.Tags != "" {
				fmt.Printf("Tags:        %s\n", a.Tags)
			}
			if a.References != "" {
				fmt.Printf("References:  %s\n", a.References)
			}
			if a.ClosureCode != nil {
				fmt.Printf("Closure:     %s\n", *a.ClosureCode)
			}
			fmt.Printf("Created:     %s by %s\n", dashboard.FormatCreated(a.CreatedAt, loc), a.CreatedBy)
			fmt.Printf("Updated:     %s by %s\n", dashboard.FormatCreated(a.UpdatedAt, loc), a.UpdatedBy)
			fmt.Printf("Description: %s\n", a.Description)
			fmt.Println()
			fmt.Println("Comments:")
			for _, line := range detail.CommentLines(loc) {
				fmt.Printf("  %s\n", line)
			}
			return nil
		},
	}
}

// chartWindow resolves the reporting window from flags, falling back to config
func chartWindow(from, to string, currentWeek bool) (alert.ReportingWindow, *time.Location, error) {
	loc, err := cfg.Report.Location()
	if err != nil {
		return alert.ReportingWindow{}, nil, err
	}
	if currentWeek {
		return alert.CurrentWeek(time.Now(), loc), loc, nil
	}

	report := cfg.Report
	if from != "" || to != "" {
		report = config.ReportConfig{Start: from, End: to, Timezone: cfg.Report.Timezone}
	}
	w, err := report.Window()
	return w, loc, err
}

func newAlertChartCmd() *cobra.Command {
	var from, to string
	var currentWeek bool
	var height, width int

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart daily alert counts per severity",
		RunE: func(cmd *cobra.Command, args []string) error {
			window, loc, err := chartWindow(from, to, currentWeek)
			if err != nil {
				return err
			}

			list, err := fetchAlerts(cmd.Context())
			if err != nil {
				return err
			}
			defer list.Close()

			summary := dashboard.Summarize(list.All(), window, loc)

			format := getOutputFormat()
			if format != "table" {
				return printOutput(summary)
			}

			fmt.Println(dashboard.RenderChart(summary.Series, window, dashboard.ChartConfig{
				Height:   height,
				Width:    width,
				Location: loc,
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "last day, inclusive (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&currentWeek, "current-week", false, "chart the current Sunday-first week")
	cmd.Flags().IntVar(&height, "height", 10, "chart height in rows")
	cmd.Flags().IntVar(&width, "width", 0, "chart width in columns (0 = one per day)")

	return cmd
}
