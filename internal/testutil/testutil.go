package testutil

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"
)

// TimestampLayout is the fractional form the platform emits
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Alert builds a complete alert record as the platform serializes it
func Alert(id int64, severity, status string, createdAt time.Time) map[string]interface{} {
	ts := createdAt.UTC().Format(TimestampLayout)
	return map[string]interface{}{
		"id":           id,
		"category":     "malware",
		"title":        "Alert " + strconv.FormatInt(id, 10),
		"description":  "Suspicious activity detected",
		"severity":     severity,
		"status":       status,
		"customer":     "HTT",
		"source":       "edr",
		"source_ref":   "EDR-" + strconv.FormatInt(id, 10),
		"rule":         "suspicious-activity",
		"tags":         "endpoint",
		"references":   "",
		"closure_code": nil,
		"date":         createdAt.UTC().Format("2006-01-02"),
		"created_by":   "system",
		"updated_by":   "system",
		"created_at":   ts,
		"updated_at":   ts,
	}
}

// Comment builds a comment record for alertID
func Comment(id, alertID int64, username, text string, at time.Time) map[string]interface{} {
	return map[string]interface{}{
		"id":         id,
		"alert_id":   alertID,
		"created_at": at.UTC().Format(TimestampLayout),
		"email":      username + "@httech.io",
		"username":   username,
		"text":       text,
	}
}

// NewStatePath returns a state database path inside a per-test directory
func NewStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), ".voltgo", "state.db")
}
