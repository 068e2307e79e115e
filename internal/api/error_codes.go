package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrorCode classifies a failure for scripted callers and exit codes.
type ErrorCode string

const (
	ErrBadRequest       ErrorCode = "bad_request"
	ErrUnauthorized     ErrorCode = "unauthorized"
	ErrTokenExpired     ErrorCode = "token_expired"
	ErrForbidden        ErrorCode = "forbidden"
	ErrNotFound         ErrorCode = "not_found"
	ErrConflict         ErrorCode = "conflict"
	ErrValidation       ErrorCode = "validation_failed"
	ErrMissingParameter ErrorCode = "missing_parameter"
	ErrUnknownOperation ErrorCode = "unknown_operation"
	ErrRateLimited      ErrorCode = "rate_limited"
	ErrServerError      ErrorCode = "server_error"
	ErrTimeout          ErrorCode = "timeout"
	ErrNetwork          ErrorCode = "network_error"
	ErrUnknown          ErrorCode = "unknown"
)

// errorCode values ThingsBoard puts in its error payloads.
const (
	tbGeneral              = 2
	tbAuthentication       = 10
	tbJWTExpired           = 11
	tbCredentialsExpired   = 15
	tbPermissionDenied     = 20
	tbInvalidArguments     = 30
	tbBadRequestParams     = 31
	tbItemNotFound         = 32
	tbTooManyRequests      = 33
	tbTooManyUpdates       = 34
	tbSubscriptionViolated = 40
)

var suggestions = map[ErrorCode]string{
	ErrUnauthorized:     "Run 'tb auth login' to authenticate",
	ErrTokenExpired:     "Run 'tb auth refresh' or log in again",
	ErrForbidden:        "Check the authority of the logged in user",
	ErrNotFound:         "Verify the entity ID exists",
	ErrRateLimited:      "Wait a moment and retry, or pass --retry-attempts",
	ErrValidation:       "Check the request parameters",
	ErrBadRequest:       "Check the request parameters",
	ErrMissingParameter: "Pass the parameter with --param name=value",
	ErrUnknownOperation: "Run 'tb ops' to list operations",
	ErrConflict:         "The entity changed; refresh and retry",
	ErrServerError:      "The server encountered an error; try again later",
	ErrTimeout:          "The request timed out; raise --timeout or retry",
	ErrNetwork:          "Check the base URL and network connectivity",
}

var byStatus = map[int]ErrorCode{
	400: ErrBadRequest,
	401: ErrUnauthorized,
	403: ErrForbidden,
	404: ErrNotFound,
	409: ErrConflict,
	422: ErrValidation,
	429: ErrRateLimited,
}

var byThingsBoardCode = map[int]ErrorCode{
	tbAuthentication:       ErrUnauthorized,
	tbJWTExpired:           ErrTokenExpired,
	tbCredentialsExpired:   ErrTokenExpired,
	tbPermissionDenied:     ErrForbidden,
	tbSubscriptionViolated: ErrForbidden,
	tbInvalidArguments:     ErrValidation,
	tbBadRequestParams:     ErrValidation,
	tbItemNotFound:         ErrNotFound,
	tbTooManyRequests:      ErrRateLimited,
	tbTooManyUpdates:       ErrRateLimited,
}

// IsRetryable reports whether a request failing with c may succeed later.
func (c ErrorCode) IsRetryable() bool {
	return c == ErrRateLimited || c == ErrServerError || c == ErrTimeout || c == ErrNetwork
}

// Suggestion returns a hint for resolving c, or "".
func (c ErrorCode) Suggestion() string { return suggestions[c] }

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(status int) ErrorCode {
	if code, ok := byStatus[status]; ok {
		return code
	}
	if status >= 500 && status <= 599 {
		return ErrServerError
	}
	return ErrUnknown
}

// errorCodeFromThingsBoard prefers the payload's errorCode over the status.
func errorCodeFromThingsBoard(apiErr *APIError) ErrorCode {
	if code, ok := byThingsBoardCode[apiErr.Code]; ok {
		return code
	}
	return ErrorCodeFromStatus(apiErr.StatusCode)
}

// StructuredError is the machine-readable form of a failure, printed as
// JSON on stderr in structured output modes.
type StructuredError struct {
	Code          ErrorCode      `json:"code"`
	Message       string         `json:"message"`
	Retryable     bool           `json:"retryable"`
	Suggestion    string         `json:"suggestion,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewStructuredError fills in retryability and suggestion from code.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// NewValidationError reports a value outside an allowed set.
func NewValidationError(field, got string, allowed []string) *StructuredError {
	list := strings.Join(allowed, ", ")
	return &StructuredError{
		Code:          ErrValidation,
		Message:       fmt.Sprintf("invalid %s %q: must be one of %s", field, got, list),
		Suggestion:    "Use one of: " + list,
		AllowedValues: allowed,
		Context:       map[string]any{"field": field, "got": got},
	}
}

// StructuredErrorFromAPIError converts a non-2xx reply.
func StructuredErrorFromAPIError(apiErr *APIError) *StructuredError {
	se := NewStructuredError(errorCodeFromThingsBoard(apiErr), apiErr.Error())
	se.Context = map[string]any{"status_code": apiErr.StatusCode}
	if apiErr.Code != 0 && apiErr.Code != tbGeneral {
		se.Context["error_code"] = apiErr.Code
	}
	if apiErr.RequestID != "" {
		se.Context["request_id"] = apiErr.RequestID
	}
	return se
}

// StructuredErrorFromError classifies any error; nil stays nil.
func StructuredErrorFromError(err error) *StructuredError {
	var (
		se      *StructuredError
		apiErr  *APIError
		missing *MissingParameterError
		unknown *UnknownOperationError
		authErr *AuthError
		netErr  net.Error
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &se):
		return se
	case errors.As(err, &apiErr):
		return StructuredErrorFromAPIError(apiErr)
	case errors.As(err, &missing):
		se = NewStructuredError(ErrMissingParameter, missing.Error())
		se.Context = map[string]any{"parameter": missing.Name}
		return se
	case errors.As(err, &unknown):
		se = NewStructuredError(ErrUnknownOperation, unknown.Error())
		se.AllowedValues = unknown.Suggestions
		return se
	case errors.As(err, &authErr):
		return NewStructuredError(ErrUnauthorized, authErr.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return NewStructuredError(ErrTimeout, err.Error())
	case errors.As(err, &netErr):
		if netErr.Timeout() {
			return NewStructuredError(ErrTimeout, err.Error())
		}
		return NewStructuredError(ErrNetwork, err.Error())
	}
	return &StructuredError{Code: ErrUnknown, Message: err.Error()}
}
