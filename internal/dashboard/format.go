package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/guptarohit/asciigraph"
	"github.com/httech/voltgo/internal/domain/alert"
)

const (
	// CommentTimeLayout is how comment timestamps are shown
	CommentTimeLayout = "Jan 2, 2006 at 3:04 PM"

	// CreatedLayout is how alert creation times are shown in rows
	CreatedLayout = "2006-01-02 15:04"
)

var (
	lowFormat     = color.New(color.FgGreen)
	mediumFormat  = color.New(color.FgYellow)
	highFormat    = color.New(color.FgRed)
	unknownFormat = color.New(color.FgHiBlack)
	mutedFormat   = color.New(color.FgHiBlack)
	boldFormat    = color.New(color.Bold)
)

// SeverityColor buckets a severity case-insensitively: low green, medium
// yellow, high red, anything else grey.
func SeverityColor(severity string) *color.Color {
	switch strings.ToLower(severity) {
	case alert.SeverityLow:
		return lowFormat
	case alert.SeverityMedium:
		return mediumFormat
	case alert.SeverityHigh:
		return highFormat
	default:
		return unknownFormat
	}
}

// SeverityAnsi is the chart line colour of a severity bucket
func SeverityAnsi(severity string) asciigraph.AnsiColor {
	switch strings.ToLower(severity) {
	case alert.SeverityLow:
		return asciigraph.Green
	case alert.SeverityMedium:
		return asciigraph.Yellow
	case alert.SeverityHigh:
		return asciigraph.Red
	default:
		return asciigraph.Gray
	}
}

// ColorSeverity returns severity wrapped in its bucket colour
func ColorSeverity(severity string) string {
	return SeverityColor(severity).Sprint(severity)
}

// FormatCreated formats an alert creation time in loc
func FormatCreated(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(CreatedLayout)
}

// FormatCommentTime renders a raw comment timestamp in loc. Values that do
// not parse as RFC 3339 are returned unchanged.
func FormatCommentTime(raw string, loc *time.Location) string {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(CommentTimeLayout)
}

// FormatComment renders one comment as a single line
func FormatComment(c alert.Comment, loc *time.Location) string {
	return fmt.Sprintf("%s %s: %s",
		mutedFormat.Sprintf("[%s]", FormatCommentTime(c.CreatedAt, loc)),
		boldFormat.Sprint(c.Username),
		c.Text,
	)
}
