package client

import (
	"fmt"
	"time"

	"github.com/httech/voltgo/internal/pkg/metrics"
)

// TimestampFormat is one accepted wire form of an alert timestamp.
type TimestampFormat struct {
	Name   string
	Layout string
	// Fractional requires a fractional-seconds field. time.Parse accepts an
	// optional fraction after the seconds for any layout, so the check is explicit.
	Fractional bool
}

// TimestampFormats lists the accepted alert timestamp forms in priority order.
var TimestampFormats = []TimestampFormat{
	{Name: "rfc3339_fractional", Layout: time.RFC3339Nano, Fractional: true},
	{Name: "rfc3339", Layout: time.RFC3339},
}

// TimestampError is returned when no accepted format matches.
type TimestampError struct {
	Value string
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("cannot decode date string: %s", e.Value)
}

// ParseTimestamp tries each format of TimestampFormats in order.
func (c *Client) ParseTimestamp(value string) (time.Time, error) {
	for _, f := range TimestampFormats {
		if f.Fractional && !hasFraction(value) {
			metrics.RecordTimestampAttempt(f.Name, false)
			c.log.With("format", f.Name).Debugf("timestamp %q has no fractional seconds", value)
			continue
		}
		t, err := time.Parse(f.Layout, value)
		if err != nil {
			metrics.RecordTimestampAttempt(f.Name, false)
			c.log.With("format", f.Name).Debugf("timestamp %q rejected: %v", value, err)
			continue
		}
		metrics.RecordTimestampAttempt(f.Name, true)
		return t, nil
	}
	return time.Time{}, &TimestampError{Value: value}
}

// hasFraction reports whether value carries a fractional-seconds field right
// after the HH:MM:SS part of an RFC 3339 date-time.
func hasFraction(value string) bool {
	const secondsEnd = len("2006-01-02T15:04:05")
	if len(value) < secondsEnd+2 {
		return false
	}
	sep := value[secondsEnd]
	next := value[secondsEnd+1]
	return (sep == '.' || sep == ',') && next >= '0' && next <= '9'
}
