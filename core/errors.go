package core

import (
	"net/http"

	"github.com/pkg/errors"
)

// ErrUnauthorized is returned when the backend rejects the session credentials (HTTP 401).
var ErrUnauthorized = errors.New("session expired")

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Field + ": " + err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

// APIError is a non-2xx reply of the backend.
type APIError struct {
	Status  int
	Message string // server supplied text, if any
}

func NewAPIError(status int, msg string) error {
	return &APIError{Status: status, Message: msg}
}

func (err APIError) Error() string {
	if err.Message != "" {
		return err.Message
	}
	return http.StatusText(err.Status)
}

// ServerMessage returns the message supplied by the backend within `err`, or `fallback`.
func ServerMessage(err error, fallback string) string {
	if apiErr, ok := errors.Cause(err).(*APIError); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsStatus reports whether `err` is an APIError with the given status.
func IsStatus(err error, status int) bool {
	apiErr, ok := errors.Cause(err).(*APIError)
	return ok && apiErr.Status == status
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
