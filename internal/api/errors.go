package api

import (
	"errors"
	"net/http"

	"github.com/triageops/er-intake-api/internal/api/shared"
	"github.com/triageops/er-intake-api/internal/domain"
	"github.com/triageops/er-intake-api/internal/service"
	"github.com/triageops/er-intake-api/internal/service/auth"
	"github.com/triageops/er-intake-api/internal/store"
)

// Stable machine-readable error codes returned in error responses.
const (
	CodeAuthFailed        = "AUTH_FAILED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeValidationError   = "VALIDATION_ERROR"
	CodeDuplicatePESEL    = "DUPLICATE_PESEL"
	CodeDuplicateUsername = "DUPLICATE_USERNAME"
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidID         = "INVALID_ID"
	CodeInternalError     = "INTERNAL_ERROR"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDeactivated),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrAdminRequired):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrPatientNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrDuplicatePESEL),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidPESEL),
		errors.Is(err, domain.ErrInvalidCondition),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrEmptyFirstName),
		errors.Is(err, domain.ErrEmptyLastName),
		errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrEmptyFullName),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// MapErrorToCode maps internal errors to stable machine-readable error codes.
func MapErrorToCode(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountDeactivated):
		return CodeAuthFailed

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return CodeUnauthorized

	case errors.Is(err, service.ErrAdminRequired):
		return CodeForbidden

	case errors.Is(err, service.ErrDuplicatePESEL):
		return CodeDuplicatePESEL

	case errors.Is(err, service.ErrUsernameTaken):
		return CodeDuplicateUsername

	case errors.Is(err, service.ErrPatientNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound):
		return CodeNotFound

	case errors.Is(err, domain.ErrInvalidID):
		return CodeInvalidID

	case errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidPESEL),
		errors.Is(err, domain.ErrInvalidCondition),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrEmptyFirstName),
		errors.Is(err, domain.ErrEmptyLastName),
		errors.Is(err, domain.ErrEmptyUsername),
		errors.Is(err, domain.ErrEmptyFullName),
		errors.Is(err, store.ErrInvalidEntity):
		return CodeValidationError

	default:
		return CodeInternalError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid username or password"

	case errors.Is(err, service.ErrAccountDeactivated):
		return "Account is deactivated"

	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return "Invalid token"

	case errors.Is(err, service.ErrAdminRequired):
		return "Only administrators can perform this operation"

	case errors.Is(err, service.ErrDuplicatePESEL):
		return "Patient with this PESEL already exists"

	case errors.Is(err, service.ErrUsernameTaken):
		return "Username already exists"

	case errors.Is(err, service.ErrPasswordTooShort):
		return "Password must be at least 6 characters"

	case errors.Is(err, service.ErrPatientNotFound):
		return "Patient not found"

	case errors.Is(err, service.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, domain.ErrInvalidPESEL):
		return "Invalid PESEL"

	case errors.Is(err, domain.ErrInvalidCondition):
		return "Invalid condition"

	case errors.Is(err, domain.ErrInvalidStatus):
		return "Invalid status"

	case errors.Is(err, domain.ErrInvalidRole):
		return "Invalid role"

	case errors.Is(err, domain.ErrEmptyFirstName):
		return "First name is required"

	case errors.Is(err, domain.ErrEmptyLastName):
		return "Last name is required"

	case errors.Is(err, domain.ErrEmptyUsername):
		return "Username is required"

	case errors.Is(err, domain.ErrEmptyFullName):
		return "Full name is required"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps an error to its status code, error code and safe
// message and writes the response. An optional override message replaces the
// mapped message when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, overrideMessage string) {
	status := MapErrorToStatusCode(err)
	code := MapErrorToCode(err)

	message := GetSafeErrorMessage(err)
	if overrideMessage != "" {
		message = overrideMessage
	}

	shared.RespondWithErrorAndLog(w, r, status, message, code, err)
}
