// Package errors defines the application error taxonomy. Business and
// validation failures are typed operational errors carrying an HTTP status
// and a name; they travel up the call chain as values and are translated to
// the response envelope only at the delivery boundary.
package errors

import (
	"net/http"

	"hyperstream/internal/errors"
)

// AppError is the interface every operational application error implements.
type AppError interface {
	error
	StatusCode() int    // HTTP status code
	Name() string       // Error name, e.g. "UNAUTHORIZED"
	Message() string    // User-facing message
	IsOperational() bool
}

// BaseError is the canonical AppError implementation.
type BaseError struct {
	statusCode    int
	name          string
	message       string
	isOperational bool
}

// NewBaseError creates a new operational error.
func NewBaseError(statusCode int, name, message string) *BaseError {
	return &BaseError{
		statusCode:    statusCode,
		name:          name,
		message:       message,
		isOperational: true,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	return e.message
}

// StatusCode returns the HTTP status code.
func (e *BaseError) StatusCode() int {
	return e.statusCode
}

// Name returns the error name used in the response envelope.
func (e *BaseError) Name() string {
	return e.name
}

// Message returns the user-facing message.
func (e *BaseError) Message() string {
	return e.message
}

// IsOperational reports whether the failure is an expected business outcome.
func (e *BaseError) IsOperational() bool {
	return e.isOperational
}

// WithMessage returns a copy of the error carrying a different message.
// The original sentinel stays comparable via errors.Is.
func (e *BaseError) WithMessage(message string) *BaseError {
	clone := *e
	clone.message = message

	return &clone
}

// Wrap annotates the error with additional context and a stack trace.
func (e *BaseError) Wrap(message string) error {
	return errors.Wrap(e, message)
}

// Is lets wrapped copies produced by WithMessage match the original sentinel.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.statusCode == other.statusCode && e.name == other.name
}

// Error names used in the response envelope.
const (
	NameBadRequest   = "BAD_REQUEST"
	NameUnauthorized = "UNAUTHORIZED"
	NameForbidden    = "FORBIDDEN"
	NameNotFound     = "NOT_FOUND"
	NameConflict     = "CONFLICT"
	NameInternal     = "INTERNAL_SERVER_ERROR"
)

// BadRequest builds a 400 error.
func BadRequest(message string) *BaseError {
	if message == "" {
		message = "Bad request"
	}

	return NewBaseError(http.StatusBadRequest, NameBadRequest, message)
}

// Unauthorized builds a 401 error.
func Unauthorized(message string) *BaseError {
	if message == "" {
		message = "Unauthorized: You need to be authenticated to perform this request"
	}

	return NewBaseError(http.StatusUnauthorized, NameUnauthorized, message)
}

// Forbidden builds a 403 error.
func Forbidden(message string) *BaseError {
	if message == "" {
		message = "You are not authorized to perform this request"
	}

	return NewBaseError(http.StatusForbidden, NameForbidden, message)
}

// NotFound builds a 404 error.
func NotFound(message string) *BaseError {
	if message == "" {
		message = "Requested data is not found"
	}

	return NewBaseError(http.StatusNotFound, NameNotFound, message)
}

// Conflict builds a 409 error.
func Conflict(message string) *BaseError {
	if message == "" {
		message = "Data already exist"
	}

	return NewBaseError(http.StatusConflict, NameConflict, message)
}

// Internal builds a 500 error.
func Internal(message string) *BaseError {
	if message == "" {
		message = "Internal server error"
	}

	return NewBaseError(http.StatusInternalServerError, NameInternal, message)
}

// Predefined errors shared across use cases.
var (
	ErrInvalidCredentials = Unauthorized("Please enter correct password!")
	ErrEmailNotVerified   = Unauthorized("Please verify your email first!")
	ErrInvalidToken       = Unauthorized("Invalid or expired token")
	ErrRefreshTokenReused = Unauthorized("Refresh token is expired or used!")
	ErrUserNotFound       = NotFound("User with the provided username or email does not exist.")
	ErrUserAlreadyExists  = Conflict("Username or email is already registered.")
	ErrStreamNotFound     = NotFound("Stream not found.")
)
