package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/httech/voltgo/pkg/client"
)

// AppError is a failure ready to be shown to the user
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code,omitempty"`
	Internal   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Error codes
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeInvalidURL      = "INVALID_URL"
	ErrCodeUnauthenticated = "UNAUTHENTICATED"
	ErrCodeNetwork         = "NETWORK_ERROR"
	ErrCodeHTTPStatus      = "HTTP_STATUS"
	ErrCodeEmptyBody       = "EMPTY_BODY"
	ErrCodeDecode          = "DECODE_ERROR"
	ErrCodeCanceled        = "CANCELED"
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Internal: err,
	}
}

// FromFetch classifies a fetch failure into the user-facing taxonomy.
// It returns nil for a nil error.
func FromFetch(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var (
		urlErr       *client.URLError
		transportErr *client.TransportError
		statusErr    *client.StatusError
		decodeErr    *client.DecodeError
	)

	switch {
	case errors.As(err, &urlErr):
		return Wrap(err, ErrCodeInvalidURL, "Invalid server URL")
	case errors.Is(err, client.ErrMissingCredential):
		return Wrap(err, ErrCodeUnauthenticated, "Not logged in")
	case errors.As(err, &statusErr):
		e := Wrap(err, ErrCodeHTTPStatus, fmt.Sprintf("Invalid response from server (status %d)", statusErr.StatusCode))
		e.StatusCode = statusErr.StatusCode
		return e
	case errors.Is(err, client.ErrEmptyBody):
		return Wrap(err, ErrCodeEmptyBody, "No data received")
	case errors.As(err, &decodeErr):
		msg := "Error decoding data"
		if decodeErr.Field != "" {
			msg = fmt.Sprintf("Error decoding data: field %q", decodeErr.Field)
		}
		return Wrap(err, ErrCodeDecode, msg)
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "Request canceled")
	case errors.As(err, &transportErr):
		return Wrap(transportErr.Err, ErrCodeNetwork, "Network error")
	default:
		return Wrap(err, ErrCodeInternal, "Unexpected error")
	}
}
