package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/httech/voltgo/internal/dashboard"
	apperrors "github.com/httech/voltgo/internal/pkg/errors"
	"github.com/spf13/cobra"
)

func newDashboardCmd() *cobra.Command {
	var height, width int

	cmd := &cobra.Command{
		Use:         "dashboard",
		Short:       "Show the alert summary, chart and endpoints",
		Annotations: map[string]string{requiresKey: requiresSession},
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := cfg.Report.Window()
			if err != nil {
				return err
			}
			loc, _ := cfg.Report.Location()

			list, err := fetchAlerts(cmd.Context())
			if err != nil {
				return err
			}
			defer list.Close()

			summary := dashboard.Summarize(list.All(), window, loc)
			top := dashboard.TopEndpoints(3)
			byOS := dashboard.EndpointsByOS(dashboard.Endpoints())

			format := getOutputFormat()
			if format != "table" {
				return printOutput(map[string]interface{}{
					"summary":         summary,
					"top_endpoints":   top,
					"endpoints_by_os": byOS,
				})
			}

			fmt.Printf("Alerts: %d total, %d in %s\n\n", summary.Total, summary.InWindow, window)
			fmt.Println(dashboard.RenderChart(summary.Series, window, dashboard.ChartConfig{
				Height:   height,
				Width:    width,
				Location: loc,
			}))
			fmt.Println()

			fmt.Println("Top Endpoints")
			t := NewTable("NAME", "COUNT", "OS")
			for _, e := range top {
				t.AddRow(e.Name, strconv.Itoa(e.Count), e.OS)
			}
			t.Render()
			fmt.Println()
			printOSBars(byOS)
			return nil
		},
	}

	cmd.Flags().IntVar(&height, "height", 8, "chart height in rows")
	cmd.Flags().IntVar(&width, "width", 0, "chart width in columns (0 = one per day)")

	return cmd
}

func printOSBars(byOS []dashboard.OSCount) {
	max := 0
	for _, o := range byOS {
		if o.Count > max {
			max = o.Count
		}
	}
	for _, o := range byOS {
		fmt.Printf("%-8s %s\n", o.OS, dashboard.Bar(o.Count, max, 30))
	}
}

func newNewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "news",
		Short:       "Show recent security news",
		Annotations: map[string]string{requiresKey: requiresClient},
		RunE: func(cmd *cobra.Command, args []string) error {
			articles, err := apiClient.News().List(cmd.Context())
			if err != nil {
				return apperrors.FromFetch(err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(articles)
			}

			if len(articles) == 0 {
				fmt.Println(dashboard.NoData)
				return nil
			}
			for _, a := range articles {
				fmt.Printf("%s\n  %s\n", a.Title, a.Link)
			}
			return nil
		},
	}
}

func newMembersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members",
		Short: "List account members",
		RunE: func(cmd *cobra.Command, args []string) error {
			members := dashboard.Members()

			format := getOutputFormat()
			if format != "table" {
				return printOutput(members)
			}

			t := NewTable("NAME", "EMAIL", "ROLE")
			for _, m := range members {
				t.AddRow(m.Name, m.Email, m.Role)
			}
			t.Render()
			return nil
		},
	}
}

func newActivityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activity",
		Short: "Show recent account activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			activities := dashboard.Activities(now)

			format := getOutputFormat()
			if format != "table" {
				return printOutput(activities)
			}

			t := NewTable("WHEN", "ACTIVITY", "USER")
			for _, a := range activities {
				t.AddRow(a.Since(now), a.Title, a.User)
			}
			t.Render()
			return nil
		},
	}
}

func newEndpointsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List monitored endpoint groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoints := dashboard.Endpoints()

			format := getOutputFormat()
			if format != "table" {
				return printOutput(endpoints)
			}

			t := NewTable("ID", "NAME", "COUNT", "OS")
			for _, e := range endpoints {
				t.AddRow(strconv.Itoa(e.ID), e.Name, strconv.Itoa(e.Count), e.OS)
			}
			t.Render()
			fmt.Println()
			printOSBars(dashboard.EndpointsByOS(endpoints))
			return nil
		},
	}
}

func newContactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contact",
		Short: "Show support contact details",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := dashboard.Contact()

			format := getOutputFormat()
			if format != "table" {
				return printOutput(info)
			}

			fmt.Printf("Email: %s\n", info.Email)
			fmt.Printf("Phone: %s\n", info.Phone)
			fmt.Printf("Help:  %s\n", info.FAQ)
			return nil
		},
	}
}

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Show preferences (change them with 'voltgo config set preferences.<name>')",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := dashboard.Settings(cfg.Preferences)

			format := getOutputFormat()
			if format != "table" {
				return printOutput(rows)
			}

			t := NewTable("SECTION", "SETTING", "VALUE")
			for _, r := range rows {
				t.AddRow(r.Section, r.Name, r.Value)
			}
			t.Render()
			return nil
		},
	}
}
