package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// ErrorType classifies an AppError; it is also the "type" field of API error bodies
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeMissingEndpoint ErrorType = "MISSING_ENDPOINT"
	ErrorTypeInternal        ErrorType = "INTERNAL"
	ErrorTypeUnavailable     ErrorType = "UNAVAILABLE"
	ErrorTypeDatabase        ErrorType = "DATABASE"
)

// statusByType is the HTTP status each error type maps to
var statusByType = map[ErrorType]int{
	ErrorTypeValidation:      http.StatusBadRequest,
	ErrorTypeNotFound:        http.StatusNotFound,
	ErrorTypeMissingEndpoint: http.StatusNotFound,
	ErrorTypeInternal:        http.StatusInternalServerError,
	ErrorTypeUnavailable:     http.StatusServiceUnavailable,
	ErrorTypeDatabase:        http.StatusInternalServerError,
}

// AppError is the error carried from the graph, the preset stores and the
// services up to the HTTP layer
type AppError struct {
	Type       ErrorType              `json:"type"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	StackTrace string                 `json:"-"`
	HTTPStatus int                    `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause attaches the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func newAppError(errType ErrorType, message string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		HTTPStatus: statusByType[errType],
		StackTrace: stackTrace(),
	}
}

// stackTrace skips runtime.Callers, itself, newAppError and the exported constructor
func stackTrace() string {
	var pcs [32]uintptr
	n := runtime.Callers(4, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])

	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s:%d %s\n", frame.File, frame.Line, frame.Function)
		if !more {
			break
		}
	}
	return b.String()
}

func NewValidationError(message string) *AppError {
	return newAppError(ErrorTypeValidation, message)
}

// NewNotFoundError reports that resource (a preset filename, a node name) does not exist
func NewNotFoundError(resource string) *AppError {
	return newAppError(ErrorTypeNotFound, fmt.Sprintf("%s not found", resource))
}

// NewMissingEndpointError is returned when a relation references a node that
// is not in the graph. missing lists the absent node names.
func NewMissingEndpointError(source, target string, missing ...string) *AppError {
	names := make([]interface{}, 0, len(missing))
	for _, m := range missing {
		names = append(names, m)
	}
	err := newAppError(ErrorTypeMissingEndpoint, fmt.Sprintf("both nodes must exist: %s, %s", source, target))
	err.Details = map[string]interface{}{"source": source, "target": target, "missing": names}
	return err
}

func NewInternalError(message string) *AppError {
	return newAppError(ErrorTypeInternal, message)
}

// NewUnavailableError is returned while a backing service (the preset store
// behind its circuit breaker) refuses calls
func NewUnavailableError(service string) *AppError {
	return newAppError(ErrorTypeUnavailable, fmt.Sprintf("service '%s' is unavailable", service))
}

// NewDatabaseError wraps a failed preset store operation
func NewDatabaseError(operation string, err error) *AppError {
	return newAppError(ErrorTypeDatabase, fmt.Sprintf("database operation '%s' failed", operation)).WithCause(err)
}

// GetAppError extracts the first AppError from an error chain
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsType reports whether the chain holds an AppError of errType
func IsType(err error, errType ErrorType) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == errType
}

func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

func IsValidation(err error) bool {
	return IsType(err, ErrorTypeValidation)
}

func IsMissingEndpoint(err error) bool {
	return IsType(err, ErrorTypeMissingEndpoint)
}

func IsUnavailable(err error) bool {
	return IsType(err, ErrorTypeUnavailable)
}

// Wrap prefixes message onto an AppError, keeping its type and status, and
// turns any other error into an internal one. The original error is not modified.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if appErr := GetAppError(err); appErr != nil {
		wrapped := *appErr
		wrapped.Message = fmt.Sprintf("%s: %s", message, appErr.Message)
		return &wrapped
	}

	return NewInternalError(message).WithCause(err)
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
