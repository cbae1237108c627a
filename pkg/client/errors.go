package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidURL matches every URLError
	ErrInvalidURL = errors.New("invalid URL")

	// ErrMissingCredential is returned before any request when no bearer token is available
	ErrMissingCredential = errors.New("missing bearer credential")

	// ErrEmptyBody is returned when a success response carries no body
	ErrEmptyBody = errors.New("empty response body")
)

// URLError reports a malformed endpoint URL. No request was attempted.
type URLError struct {
	URL string
	Err error
}

func (e *URLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %v", e.URL, e.Err)
}

func (e *URLError) Unwrap() error { return e.Err }

func (e *URLError) Is(target error) bool { return target == ErrInvalidURL }

// TransportError wraps DNS, timeout and connection failures
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError represents a non-2xx response from the API
type StatusError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func newStatusError(status int, body []byte) *StatusError {
	e := &StatusError{StatusCode: status}
	// best effort: the API sometimes sends {"code","message"}
	if err := json.Unmarshal(body, e); err != nil {
		e.Message = strings.TrimSpace(string(body))
	}
	e.StatusCode = status
	return e
}

// Error implements the error interface
func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
	}
	if e.Message != "" {
		return fmt.Sprintf("API error: %s (status: %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("API error (status: %d)", e.StatusCode)
}

// IsNotFound returns true if the error is a 404 not found error
func (e *StatusError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized returns true if the error is a 401 unauthorized error
func (e *StatusError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsForbidden returns true if the error is a 403 forbidden error
func (e *StatusError) IsForbidden() bool {
	return e.StatusCode == 403
}

// IsServerError returns true if the error is a 5xx server error
func (e *StatusError) IsServerError() bool {
	return e.StatusCode >= 500
}

// DecodeError reports a body that does not match the expected schema.
// Field is the offending wire field when known.
type DecodeError struct {
	Index int // record index within the array, -1 when not applicable
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	switch {
	case e.Field != "" && e.Index >= 0:
		return fmt.Sprintf("decode record %d field %q: %v", e.Index, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("decode field %q: %v", e.Field, e.Err)
	default:
		return fmt.Sprintf("decode response: %v", e.Err)
	}
}

func (e *DecodeError) Unwrap() error { return e.Err }

// StatusCode extracts the HTTP status from err, or 0 when err is not a StatusError
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
