package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/httech/voltgo/pkg/client"
)

// Alert is the record shape delivered by the API client
type Alert = client.Alert

// Comment is one entry of an alert's comment thread
type Comment = client.Comment

// Known severity levels. Others are passed through untouched.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Known statuses. Others are passed through untouched.
const (
	StatusOpen     = "open"
	StatusClosed   = "closed"
	StatusInReview = "in review"
)

// All is the selector value that disables a severity or status restriction
const All = "all"

// Window selects how far back the list reaches
type Window string

// Window selectors
const (
	WindowAll         Window = "all"
	WindowLast24Hours Window = "24h"
	WindowLast7Days   Window = "7d"
)

// Windows lists the selectors in menu order
var Windows = []Window{WindowAll, WindowLast7Days, WindowLast24Hours}

// Duration returns the look-back span, or 0 for WindowAll
func (w Window) Duration() time.Duration {
	switch w {
	case WindowLast24Hours:
		return 24 * time.Hour
	case WindowLast7Days:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// Label is the human name shown in menus
func (w Window) Label() string {
	switch w {
	case WindowLast24Hours:
		return "Last 24 Hours"
	case WindowLast7Days:
		return "Last 7 Days"
	default:
		return "All"
	}
}

// ParseWindow accepts the selector names plus their menu labels
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return WindowAll, nil
	case "24h", "1d", "last 24 hours", "last-24-hours":
		return WindowLast24Hours, nil
	case "7d", "1w", "last 7 days", "last-7-days":
		return WindowLast7Days, nil
	default:
		return "", fmt.Errorf("unknown date window %q (want all, 24h or 7d)", s)
	}
}

// FilterState is the user's current list selection. The zero value restricts nothing.
type FilterState struct {
	Window   Window `json:"window"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
}

// IsAll reports whether a severity or status selector is unrestricted
func IsAll(selector string) bool {
	s := strings.TrimSpace(selector)
	return s == "" || strings.EqualFold(s, All)
}
