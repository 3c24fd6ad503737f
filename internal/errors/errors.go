// Package errors provides error types and handling for sapinvoices-ui.
// It includes custom error types with HTTP status codes and error codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// AppError represents an application error with an associated HTTP status code.
type AppError struct {
	// Code is an error code string for programmatic handling
	Code string
	// Message is a user-friendly error message
	Message string
	// StatusCode is the HTTP status code to return
	StatusCode int
	// Cause is the underlying error (for error wrapping)
	Cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for error unwrapping.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is allows errors.Is to work with AppError.
func (e *AppError) Is(target error) bool {
	if t, ok := target.(*AppError); ok {
		return e.Code != "" && e.Code == t.Code
	}
	return false
}

// Predefined error codes.
const (
	// Client error codes.
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInvalidRunType     = "INVALID_RUN_TYPE"
	ErrCodeTaskNotFound       = "TASK_NOT_FOUND"
	ErrCodeLogStreamNotFound  = "LOG_STREAM_NOT_FOUND"
	ErrCodeActiveTaskConflict = "ACTIVE_TASK_CONFLICT"

	// Server error codes.
	ErrCodeInternalError               = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable          = "SERVICE_UNAVAILABLE"
	ErrCodeTaskDefinitionNotFound      = "TASK_DEFINITION_NOT_FOUND"
	ErrCodeInvalidNetworkConfiguration = "INVALID_NETWORK_CONFIGURATION"
	ErrCodeTaskTimeoutExceeded         = "TASK_TIMEOUT_EXCEEDED"
)

// NewClientError creates a new client error (4xx status codes).
func NewClientError(statusCode int, code, message string, cause error) *AppError {
	if statusCode < 400 || statusCode >= 500 {
		panic(fmt.Sprintf("NewClientError called with non-client status code: %d", statusCode))
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// NewServerError creates a new server error (5xx status codes).
func NewServerError(statusCode int, code, message string, cause error) *AppError {
	if statusCode < 500 || statusCode >= 600 {
		panic(fmt.Sprintf("NewServerError called with non-server status code: %d", statusCode))
	}
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Cause:      cause,
	}
}

// TimeoutExceededError is the cause carried by a task timeout error.
type TimeoutExceededError struct {
	Timeout time.Duration
}

func (e *TimeoutExceededError) Error() string {
	return fmt.Sprintf("timeout of %s exceeded", e.Timeout)
}

// Convenience constructors for common errors

// ErrUnauthorized creates an unauthorized error (401).
func ErrUnauthorized(message string, cause error) *AppError {
	return NewClientError(http.StatusUnauthorized, ErrCodeUnauthorized, message, cause)
}

// ErrNotFound creates a not found error (404).
func ErrNotFound(message string, cause error) *AppError {
	return NewClientError(http.StatusNotFound, ErrCodeNotFound, message, cause)
}

// ErrBadRequest creates a bad request error (400).
func ErrBadRequest(message string, cause error) *AppError {
	return NewClientError(http.StatusBadRequest, ErrCodeInvalidRequest, message, cause)
}

// ErrInvalidRunType creates an invalid run type error (400) naming the rejected value.
func ErrInvalidRunType(runType string) *AppError {
	return NewClientError(http.StatusBadRequest, ErrCodeInvalidRunType,
		fmt.Sprintf("Cannot run task for unrecognized run_type='%s'", runType), nil)
}

// ErrTaskNotFound creates a task not found error (404).
func ErrTaskNotFound(taskID string) *AppError {
	return NewClientError(http.StatusNotFound, ErrCodeTaskNotFound,
		fmt.Sprintf("No task found for task id '%s'.", taskID), nil)
}

// ErrLogStreamNotFound creates a log stream not found error (404).
func ErrLogStreamNotFound(taskID string, cause error) *AppError {
	return NewClientError(http.StatusNotFound, ErrCodeLogStreamNotFound,
		fmt.Sprintf("No log streams found for task id '%s'.", taskID), cause)
}

// ErrActiveTaskConflict creates a conflict error (409) raised when a run is
// requested while other tasks are still active.
func ErrActiveTaskConflict(activeTasks int) *AppError {
	return NewClientError(http.StatusConflict, ErrCodeActiveTaskConflict,
		fmt.Sprintf("Cannot run multiple tasks: %d task(s) currently active.", activeTasks), nil)
}

// ErrInternalError creates an internal server error (500).
func ErrInternalError(message string, cause error) *AppError {
	return NewServerError(http.StatusInternalServerError, ErrCodeInternalError, message, cause)
}

// ErrServiceUnavailable creates a service unavailable error (503).
// Use this when a remote AWS service cannot be reached.
func ErrServiceUnavailable(message string, cause error) *AppError {
	return NewServerError(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message, cause)
}

// ErrTaskDefinitionNotFound creates an error (500) for a configured task
// definition that is not registered in the cluster.
func ErrTaskDefinitionNotFound(taskDefinition string) *AppError {
	return NewServerError(http.StatusInternalServerError, ErrCodeTaskDefinitionNotFound,
		fmt.Sprintf("No task definition found for '%s'.", taskDefinition), nil)
}

// ErrInvalidNetworkConfiguration creates an error (500) for a network
// configuration that cannot be decoded.
func ErrInvalidNetworkConfiguration(cause error) *AppError {
	return NewServerError(http.StatusInternalServerError, ErrCodeInvalidNetworkConfiguration,
		"Invalid ECS network configuration", cause)
}

// ErrTaskTimeoutExceeded creates a gateway timeout error (504) carrying the
// configured timeout as a *TimeoutExceededError cause.
func ErrTaskTimeoutExceeded(timeout time.Duration) *AppError {
	return NewServerError(http.StatusGatewayTimeout, ErrCodeTaskTimeoutExceeded,
		fmt.Sprintf("Task runtime exceeded set timeout of %s.", formatTimeout(timeout)),
		&TimeoutExceededError{Timeout: timeout})
}

func formatTimeout(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%d seconds", int64(d/time.Second))
	}
	return d.String()
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	return errors.Is(err, &AppError{Code: code})
}

// GetStatusCode extracts the HTTP status code from an error.
// Returns 500 if the error is not an AppError.
func GetStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// GetErrorCode extracts the error code from an error.
// Returns empty string if the error is not an AppError.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetErrorMessage extracts a user-friendly message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetErrorDetails extracts detailed error information including the underlying cause.
// Returns the underlying error message if available, otherwise returns the main error message.
func GetErrorDetails(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if appErr.Cause != nil {
			return appErr.Cause.Error()
		}
		return appErr.Message
	}
	return err.Error()
}
