package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"
)

// APIError is a response outside the 2xx range. Body carries the decoded
// JSON value when the server sent parseable JSON, and the text otherwise.
type APIError struct {
	StatusCode int
	Header     http.Header
	Body       any
	Raw        []byte
	Parsed     bool
	// Message and Code come from ThingsBoard's error payload
	// ({"status":..,"message":..,"errorCode":..}) when present.
	Message   string
	Code      int
	RequestID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if msg == "" {
		msg = "API request failed"
	}
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, msg)
}

func newAPIError(status int, header http.Header, body any, raw []byte, parsed bool) *APIError {
	e := &APIError{
		StatusCode: status,
		Header:     header,
		Body:       body,
		Raw:        raw,
		Parsed:     parsed,
		RequestID:  requestIDFromHeader(header),
	}
	if parsed {
		e.Message = strings.TrimSpace(gjson.GetBytes(raw, "message").String())
		e.Code = int(gjson.GetBytes(raw, "errorCode").Int())
	}
	return e
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	return header.Get("X-Request-Id")
}

// MissingParameterError is raised before any I/O when a required endpoint
// parameter was not supplied.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return "Missing required parameter: " + e.Name
}

// UnknownOperationError is returned by Invoke for names absent from the
// endpoint table.
type UnknownOperationError struct {
	Operation   string
	Suggestions []string
}

func (e *UnknownOperationError) Error() string {
	msg := fmt.Sprintf("unknown operation %q", e.Operation)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// AuthError represents an authentication problem detected client side.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

// IsAuthError checks if the error is an authentication error.
func IsAuthError(err error) bool {
	var e *AuthError
	if errors.As(err, &e) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsMissingParameter checks if the error reports a missing parameter.
func IsMissingParameter(err error) bool {
	var e *MissingParameterError
	return errors.As(err, &e)
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound || apiErr.Code == tbItemNotFound
	}
	return false
}

// StatusCode extracts the HTTP status from an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
