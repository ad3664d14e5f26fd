package result

import (
	"fmt"
	"strings"
)

// Standard error codes shared across commands.
//
// Codes are stable machine-readable strings; callers branch on the
// code, never on message text.
const (
	// Validation errors. Non-retryable.
	CodeValidationError      = "VALIDATION_ERROR"
	CodeInvalidInput         = "INVALID_INPUT"
	CodeMissingRequiredField = "MISSING_REQUIRED_FIELD"
	CodeInvalidFormat        = "INVALID_FORMAT"

	// Resource errors. Non-retryable.
	CodeNotFound      = "NOT_FOUND"
	CodeAlreadyExists = "ALREADY_EXISTS"
	CodeConflict      = "CONFLICT"

	// Authorization errors.
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeTokenExpired = "TOKEN_EXPIRED"

	// Rate limiting. Retryable.
	CodeRateLimited   = "RATE_LIMITED"
	CodeQuotaExceeded = "QUOTA_EXCEEDED"

	// Network and service errors. Retryable.
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeTimeout            = "TIMEOUT"
	CodeConnectionError    = "CONNECTION_ERROR"

	// Internal errors.
	CodeInternalError  = "INTERNAL_ERROR"
	CodeNotImplemented = "NOT_IMPLEMENTED"
	CodeUnknownError   = "UNKNOWN_ERROR"

	// Dispatch errors produced by the registry, batch, and pipeline layers.
	CodeCommandNotFound       = "COMMAND_NOT_FOUND"
	CodeCommandExecutionError = "COMMAND_EXECUTION_ERROR"
	CodeCommandSkipped        = "COMMAND_SKIPPED"
	CodeInvalidBatchRequest   = "INVALID_BATCH_REQUEST"
	CodeInvalidCommandArgs    = "INVALID_COMMAND_ARGS"
	CodeCommandCancelled      = "COMMAND_CANCELLED"
)

// Error is the structured failure payload carried by a failed Result.
//
// Errors should be actionable: Suggestion turns a dead-end into a
// recoverable situation. Retryable distinguishes transient failures
// (rate limits, timeouts) from permanent ones (not found, validation);
// absent means treat as non-retryable.
type Error struct {
	// Code is a stable machine-readable code in SCREAMING_SNAKE_CASE.
	Code string `json:"code"`

	// Message describes what went wrong.
	Message string `json:"message"`

	// Suggestion tells the caller what to do next.
	Suggestion string `json:"suggestion,omitempty"`

	// Retryable reports whether retrying the same request might succeed.
	Retryable *bool `json:"retryable,omitempty"`

	// Details holds additional technical context. Avoid sensitive data.
	Details map[string]any `json:"details,omitempty"`

	// Cause is the original error that led to this one, if any.
	Cause *Error `json:"cause,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates an Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithSuggestion sets the suggestion and returns e.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithRetryable sets the retryable flag and returns e.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = &retryable
	return e
}

// WithDetails sets the details map and returns e.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// WithCause sets the causal error and returns e.
func (e *Error) WithCause(cause *Error) *Error {
	e.Cause = cause
	return e
}

// NotFoundError creates a NOT_FOUND error for a resource.
func NotFoundError(resource, id string) *Error {
	return &Error{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s with ID '%s' not found", resource, id),
		Suggestion: fmt.Sprintf("Verify the %s ID exists and try again", strings.ToLower(resource)),
		Retryable:  boolPtr(false),
		Details: map[string]any{
			"resourceType": resource,
			"resourceId":   id,
		},
	}
}

// ValidationError creates a VALIDATION_ERROR. suggestion may be empty.
func ValidationError(message, suggestion string) *Error {
	return &Error{
		Code:       CodeValidationError,
		Message:    message,
		Suggestion: suggestion,
		Retryable:  boolPtr(false),
	}
}

// InvalidInputError creates an INVALID_INPUT error for a named field.
func InvalidInputError(field, reason string) *Error {
	return &Error{
		Code:       CodeInvalidInput,
		Message:    fmt.Sprintf("invalid value for '%s': %s", field, reason),
		Suggestion: fmt.Sprintf("Correct the '%s' field and retry", field),
		Retryable:  boolPtr(false),
		Details: map[string]any{
			"field": field,
		},
	}
}

// ExecutionError creates a COMMAND_EXECUTION_ERROR wrapping a handler fault.
func ExecutionError(message string) *Error {
	return &Error{
		Code:       CodeCommandExecutionError,
		Message:    message,
		Suggestion: "Check the input parameters and try again",
		Retryable:  boolPtr(false),
	}
}

// RateLimitedError creates a RATE_LIMITED error. retryAfterSeconds <= 0
// means the wait time is unknown.
func RateLimitedError(retryAfterSeconds int) *Error {
	e := &Error{
		Code:       CodeRateLimited,
		Message:    "Rate limit exceeded",
		Suggestion: "Wait a moment and try again",
		Retryable:  boolPtr(true),
	}
	if retryAfterSeconds > 0 {
		e.Suggestion = fmt.Sprintf("Wait %d seconds and try again", retryAfterSeconds)
		e.Details = map[string]any{"retryAfterSeconds": retryAfterSeconds}
	}
	return e
}

// TimeoutError creates a TIMEOUT error for a named operation.
func TimeoutError(operation string, timeoutMs int64) *Error {
	return &Error{
		Code:       CodeTimeout,
		Message:    fmt.Sprintf("Operation '%s' timed out after %dms", operation, timeoutMs),
		Suggestion: "Try again with a simpler request or contact support if this persists",
		Retryable:  boolPtr(true),
		Details: map[string]any{
			"operationName": operation,
			"timeoutMs":     timeoutMs,
		},
	}
}

// InternalError creates an INTERNAL_ERROR with a generic recovery suggestion.
func InternalError(message string) *Error {
	return &Error{
		Code:       CodeInternalError,
		Message:    message,
		Suggestion: "Please try again. If this persists, contact support.",
		Retryable:  boolPtr(true),
	}
}

func boolPtr(b bool) *bool { return &b }
