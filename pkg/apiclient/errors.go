package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NetworkError reports a request that never produced an HTTP response.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is returned when the backend answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
}

// DomainError describes a 2xx envelope carrying status=false.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return "operation was not successful"
	}
	return e.Message
}

// GenericMessage is the fallback used when an error body carries no usable message.
func GenericMessage(status int) string {
	return fmt.Sprintf("request failed with status %d", status)
}

// newHTTPError extracts a message from the body on a best-effort basis.
// A body that is not JSON, or JSON without message/error, yields the fallback.
func newHTTPError(status int, body []byte, fallback string) *HTTPError {
	if fallback == "" {
		fallback = GenericMessage(status)
	}
	return &HTTPError{StatusCode: status, Message: messageFromBody(body, fallback), Body: body}
}

func messageFromBody(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil {
		return fallback
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	if msg := strings.TrimSpace(payload.Error); msg != "" {
		return msg
	}
	return fallback
}
