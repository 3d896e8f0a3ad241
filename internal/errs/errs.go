// Package errs defines the error taxonomy shared by the optimization engine
// and its callers. Errors carry a stable code and a class that maps to an
// HTTP status at the API boundary.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Class groups error codes by who is at fault and whether a retry makes sense.
type Class string

const (
	ClassClient   Class = "CLIENT"   // malformed input, never retried
	ClassBusiness Class = "BUSINESS" // domain rule violation, never retried automatically
	ClassSystem   Class = "SYSTEM"   // unexpected internal fault, retry per caller policy
)

// Stable error codes.
const (
	CodeInvalidItem       = "CLIENT_001"
	CodeInvalidRequest    = "CLIENT_002"
	CodeInvalidConstraint = "CLIENT_003"

	CodeOptimizationFailed       = "BUSINESS_001"
	CodeInvalidCuttingParameters = "BUSINESS_002"
	CodeEmptyItemList            = "BUSINESS_003"

	CodeInternal = "SYSTEM_001"
)

// AppError is a structured error with a stable code. The Message field must
// never contain stack traces or internal state dumps.
type AppError struct {
	Code    string            `json:"code"`
	Class   Class             `json:"class"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail attaches a single key/value detail and returns the error.
func (e *AppError) WithDetail(key, value string) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithDetails replaces the detail map and returns the error.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Wrap attaches an underlying cause and returns the error.
func (e *AppError) Wrap(err error) *AppError {
	e.Err = err
	return e
}

// HTTPStatus maps the error class to an HTTP status code.
func (e *AppError) HTTPStatus() int {
	switch e.Class {
	case ClassClient:
		return http.StatusBadRequest
	case ClassBusiness:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// New creates an AppError with an explicit class and code.
func New(class Class, code, message string) *AppError {
	return &AppError{Code: code, Class: class, Message: message}
}

// Client creates a CLIENT-class error.
func Client(code, message string) *AppError {
	return New(ClassClient, code, message)
}

// Business creates a BUSINESS-class error.
func Business(code, message string) *AppError {
	return New(ClassBusiness, code, message)
}

// Internal creates a SYSTEM-class error wrapping an underlying cause.
func Internal(message string, err error) *AppError {
	return New(ClassSystem, CodeInternal, message).Wrap(err)
}

// As extracts an AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// From converts any error into an AppError, treating unknown errors as
// SYSTEM-class internal faults.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal("an internal error occurred", err)
}
