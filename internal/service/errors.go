// Package service provides application-level services for staff
// authentication and patient intake.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent expected conditions that callers check with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError with operation context
// 3. The API layer maps service errors to HTTP status codes and error codes
var (
	// ErrInvalidCredentials indicates a login attempt with a wrong username
	// or password. The two cases are deliberately indistinguishable so the
	// response does not reveal which accounts exist.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDeactivated indicates a login attempt against an account
	// that has been soft-disabled.
	// API layer should map this to HTTP 401 Unauthorized.
	ErrAccountDeactivated = errors.New("account is deactivated")

	// ErrAdminRequired indicates that a role-gated operation was attempted
	// by an account without the ADMIN role.
	// API layer should map this to HTTP 403 Forbidden.
	ErrAdminRequired = errors.New("only administrators can perform this operation")

	// ErrUsernameTaken indicates a registration attempt with a username
	// that already belongs to another account.
	// API layer should map this to HTTP 409 Conflict.
	ErrUsernameTaken = errors.New("username already exists")

	// ErrPasswordTooShort indicates a registration attempt with a password
	// below the minimum length.
	// API layer should map this to HTTP 400 Bad Request.
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")

	// ErrDuplicatePESEL indicates an admission attempt for a PESEL that is
	// already registered.
	// API layer should map this to HTTP 409 Conflict.
	ErrDuplicatePESEL = errors.New("patient with this PESEL already exists")

	// ErrPatientNotFound indicates that the requested patient does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrUserNotFound indicates that the requested account does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrUserNotFound = errors.New("user not found")
)

// ServiceError wraps unexpected errors from service operations with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "login", "admit_patient")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
