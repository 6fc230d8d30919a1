// Package dto defines API request/response types and error handling.
//
// This package is the API contract layer: request types carry path/query/json
// struct tags for parameter binding, response types use string IDs and
// RFC3339 timestamps, and errors are structured with HTTP status codes and
// machine-readable error codes. It has no dependency on the hub package;
// conversion between the two lives in the handlers package.
package dto

import (
	"fmt"
	"maps"
	"net/http"
)

// ErrorCode defines specific error types for the API.
type ErrorCode string

const (
	// ErrorCodeValidationFailed is returned when input data fails validation.
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrorCodeMissingField is returned when a required field is missing.
	ErrorCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrorCodeInvalidFormat is returned when a field has an invalid format.
	ErrorCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	// ErrorCodeNotFound is returned when a node is not found.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrorCodeVersionConflict is returned when a write carries a stale
	// version. The current version is in the details under "currentVersion".
	ErrorCodeVersionConflict ErrorCode = "VERSION_CONFLICT"
	// ErrorCodeInvalidParent is returned when the target parent is missing,
	// deleted or not a folder.
	ErrorCodeInvalidParent ErrorCode = "INVALID_PARENT"
	// ErrorCodeCycleDetected is returned when a move would make a node its
	// own ancestor.
	ErrorCodeCycleDetected ErrorCode = "CYCLE_DETECTED"
	// ErrorCodeTreeTooDeep is returned when an operation exceeds the depth
	// bound.
	ErrorCodeTreeTooDeep ErrorCode = "TREE_TOO_DEEP"
	// ErrorCodeNotDeleted is returned when purging a node that is not in the
	// trash.
	ErrorCodeNotDeleted ErrorCode = "NOT_DELETED"
	// ErrorCodeQuotaExceeded is returned when the node quota is reached.
	ErrorCodeQuotaExceeded ErrorCode = "QUOTA_EXCEEDED"

	// ErrorCodeInternal is returned when an unexpected server error occurs.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodeUnauthorized is returned when authentication is missing or invalid.
	ErrorCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrorCodeForbidden is returned when a user has insufficient permissions.
	ErrorCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrorCodeRateLimited is returned when the client exceeds a rate limit.
	ErrorCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrorCodePayloadTooLarge is returned when the request body exceeds the limit.
	ErrorCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
)

// ErrorDetails defines the structured error information in a response.
type ErrorDetails struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error   ErrorDetails   `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorWithStatus is an error that includes an HTTP status code and error code.
type ErrorWithStatus interface {
	Error() string
	StatusCode() int
	Code() ErrorCode
	Details() map[string]any
}

// APIError is a concrete error type with status code and optional details.
type APIError struct {
	statusCode int
	code       ErrorCode
	message    string
	details    map[string]any
	wrappedErr error
}

// NewAPIError creates a new APIError with the given status code and message.
func NewAPIError(statusCode int, code ErrorCode, message string) *APIError {
	return &APIError{
		statusCode: statusCode,
		code:       code,
		message:    message,
		details:    make(map[string]any),
	}
}

// WithDetails adds details to the error.
func (e *APIError) WithDetails(details map[string]any) *APIError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	maps.Copy(e.details, details)
	return e
}

// WithDetail adds a single detail to the error.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// Wrap wraps an underlying error.
func (e *APIError) Wrap(err error) *APIError {
	e.wrappedErr = err
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.wrappedErr != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrappedErr)
	}
	return e.message
}

// StatusCode returns the HTTP status code.
func (e *APIError) StatusCode() int {
	return e.statusCode
}

// Code returns the error code.
func (e *APIError) Code() ErrorCode {
	return e.code
}

// Details returns additional error details.
func (e *APIError) Details() map[string]any {
	return e.details
}

// Unwrap returns the wrapped error if any.
func (e *APIError) Unwrap() error {
	return e.wrappedErr
}

// Predefined error constructors for common cases

// NotFound creates a 404 Not Found error.
func NotFound(resource string) *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeNotFound, resource+" not found")
}

// BadRequest creates a 400 Bad Request error.
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeValidationFailed, message)
}

// MissingField creates a 400 Bad Request error for a missing field.
func MissingField(fieldName string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeMissingField, "Missing required field: "+fieldName)
}

// VersionConflict creates a 409 Conflict error carrying the current version
// so the client can re-read and retry.
func VersionConflict(currentVersion int) *APIError {
	return NewAPIError(http.StatusConflict, ErrorCodeVersionConflict, "version conflict").
		WithDetail("currentVersion", currentVersion)
}

// InvalidParent creates a 400 error for an unusable target parent.
func InvalidParent() *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeInvalidParent, "parent must be an existing live folder")
}

// CycleDetected creates a 400 error for a move that would create a cycle.
func CycleDetected() *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeCycleDetected, "move would make the node its own ancestor")
}

// TreeTooDeep creates a 400 error for exceeding the depth bound.
func TreeTooDeep() *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeTreeTooDeep, "tree depth bound exceeded")
}

// NotDeleted creates a 409 error for purging a node outside the trash.
func NotDeleted() *APIError {
	return NewAPIError(http.StatusConflict, ErrorCodeNotDeleted, "node is not in the trash")
}

// QuotaExceeded creates a 403 error for the node quota.
func QuotaExceeded() *APIError {
	return NewAPIError(http.StatusForbidden, ErrorCodeQuotaExceeded, "node quota exceeded")
}

// Forbidden returns a 403 Forbidden error.
func Forbidden(message string) error {
	return NewAPIError(http.StatusForbidden, ErrorCodeForbidden, message)
}

// Unauthorized returns a 401 Unauthorized error.
func Unauthorized() error {
	return NewAPIError(http.StatusUnauthorized, ErrorCodeUnauthorized, "Unauthorized")
}

// Internal returns a 500 Internal Server Error.
func Internal(message string) *APIError {
	return NewAPIError(http.StatusInternalServerError, ErrorCodeInternal, message)
}

// InternalWithError creates a 500 error wrapping an underlying error.
func InternalWithError(message string, err error) *APIError {
	return Internal(message).Wrap(err)
}

// RateLimitExceeded creates a 429 error with a retry hint in seconds.
func RateLimitExceeded(retryAfterSeconds int) *APIError {
	return NewAPIError(http.StatusTooManyRequests, ErrorCodeRateLimited, "rate limit exceeded").
		WithDetail("retryAfterSeconds", retryAfterSeconds)
}

// PayloadTooLarge creates a 413 error with the body size limit in bytes.
func PayloadTooLarge(limit int64) *APIError {
	return NewAPIError(http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "request body too large").
		WithDetail("limitBytes", limit)
}
