package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/httech/voltgo/internal/config"
)

// Version is reported on the settings screen
var Version = "1.0.0"

// Member is a person with access to the customer account
type Member struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// Members returns the account's members
func Members() []Member {
	return []Member{
		{ID: uuid.New(), Name: "John Doe", Email: "john.doe@example.com", Role: "Admin"},
		{ID: uuid.New(), Name: "Jane Smith", Email: "jane.smith@example.com", Role: "Member"},
	}
}

// Activity is one entry of the account activity feed
type Activity struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
}

// Since renders the timestamp relative to now, e.g. "2 hours ago"
func (a Activity) Since(now time.Time) string {
	return humanize.RelTime(a.Timestamp, now, "ago", "from now")
}

// Activities returns the recent activity feed relative to now, newest first
func Activities(now time.Time) []Activity {
	entries := []struct {
		title string
		user  string
		ago   time.Duration
	}{
		{"Alert 32 Updated", "John Doe", 0},
		{"Alert 43 Closed", "Alice Smith", time.Hour},
		{"Alert 67 Updated", "Bob Johnson", 2 * time.Hour},
		{"Endpoint Created", "Emma Brown", 3 * time.Hour},
		{"Endpoint Shutdown", "James Wilson", 4 * time.Hour},
		{"Profile updated", "Sophia Lee", 5 * time.Hour},
	}

	out := make([]Activity, 0, len(entries))
	for _, e := range entries {
		out = append(out, Activity{
			ID:        uuid.New(),
			Title:     e.title,
			Timestamp: now.Add(-e.ago),
			User:      e.user,
		})
	}
	return out
}

// Endpoint is a group of monitored machines
type Endpoint struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	OS    string `json:"os"`
}

// Endpoints returns the monitored endpoint groups
func Endpoints() []Endpoint {
	return []Endpoint{
		{ID: 1, Name: "Endpoint1", Count: 5, OS: "Mac"},
		{ID: 2, Name: "Endpoint2", Count: 8, OS: "Windows"},
		{ID: 3, Name: "Endpoint3", Count: 9, OS: "Mac"},
		{ID: 4, Name: "Endpoint1", Count: 15, OS: "Linux"},
		{ID: 5, Name: "Endpoint2", Count: 12, OS: "Windows"},
		{ID: 6, Name: "Endpoint3", Count: 7, OS: "Linux"},
		{ID: 7, Name: "Endpoint1", Count: 3, OS: "Mac"},
		{ID: 8, Name: "Endpoint2", Count: 18, OS: "Linux"},
		{ID: 9, Name: "Endpoint3", Count: 11, OS: "Windows"},
	}
}

// TopEndpoints returns the first n endpoint groups
func TopEndpoints(n int) []Endpoint {
	all := Endpoints()
	if n < 0 || n > len(all) {
		n = len(all)
	}
	return all[:n]
}

// OSCount is the endpoint total for one operating system
type OSCount struct {
	OS    string `json:"os"`
	Count int    `json:"count"`
}

// EndpointsByOS sums endpoint counts per operating system, largest first
func EndpointsByOS(endpoints []Endpoint) []OSCount {
	totals := make(map[string]int)
	for _, e := range endpoints {
		totals[e.OS] += e.Count
	}
	out := make([]OSCount, 0, len(totals))
	for os, n := range totals {
		out = append(out, OSCount{OS: os, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].OS < out[j].OS
	})
	return out
}

// Bar draws count as a horizontal bar scaled so max fills width
func Bar(count, max, width int) string {
	if max <= 0 || width <= 0 || count <= 0 {
		return ""
	}
	n := count * width / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n) + " " + humanize.Comma(int64(count))
}

// ContactInfo is the support contact card
type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
	FAQ   string `json:"faq"`
}

// Contact returns the support contact details
func Contact() ContactInfo {
	return ContactInfo{
		Email: "support.example@htt.com",
		Phone: "123-456-7890",
		FAQ:   "FAQ / Alerts Guide",
	}
}

// Setting is one row of the settings screen
type Setting struct {
	Section string `json:"section"`
	Name    string `json:"name"`
	Value   string `json:"value"`
}

// Settings lists the settings screen rows for the stored preferences
func Settings(p config.PreferencesConfig) []Setting {
	return []Setting{
		{Section: "User Preferences", Name: "Dark Mode", Value: onOff(p.DarkMode)},
		{Section: "Account Management", Name: "Manage Account", Value: "voltgo auth status"},
		{Section: "App Settings", Name: "Notifications", Value: onOff(p.Notifications)},
		{Section: "App Settings", Name: "Location Services", Value: onOff(p.LocationServices)},
		{Section: "Help & Support", Name: "Help Center", Value: "voltgo contact"},
		{Section: "About", Name: "Version", Value: Version},
	}
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
