package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound       = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden      = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized   = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict       = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation     = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal       = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrUpstream       = New("UPSTREAM_ERROR", http.StatusBadGateway, "upstream request failed")
	ErrUpstreamFailed = New("UPSTREAM_REJECTED", http.StatusUnprocessableEntity, "upstream rejected the operation")
	ErrScheduleClosed = New("SCHEDULE_CLOSED", http.StatusForbidden, "registration window is closed")
	ErrCacheMiss      = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

type fieldErrorer interface {
	FieldMessages() map[string]string
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	var fe fieldErrorer
	if errors.As(err, &fe) {
		out := Wrap(err, ErrValidation.Code, ErrValidation.Status, ErrValidation.Message)
		out.Fields = fe.FieldMessages()
		return out
	}

	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		status := httpErr.StatusCode
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return Wrap(err, codeForStatus(httpErr.StatusCode), status, httpErr.Message)
	}

	var netErr *apiclient.NetworkError
	if errors.As(err, &netErr) {
		return Wrap(err, ErrUpstream.Code, ErrUpstream.Status, ErrUpstream.Message)
	}

	var domainErr *apiclient.DomainError
	if errors.As(err, &domainErr) {
		return Wrap(err, ErrUpstreamFailed.Code, ErrUpstreamFailed.Status, domainErr.Message)
	}

	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound.Code
	case http.StatusUnauthorized:
		return ErrUnauthorized.Code
	case http.StatusForbidden:
		return ErrForbidden.Code
	case http.StatusConflict:
		return ErrConflict.Code
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrValidation.Code
	default:
		return ErrUpstream.Code
	}
}
