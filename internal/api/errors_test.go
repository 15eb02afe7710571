package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/triageops/er-intake-api/internal/domain"
	"github.com/triageops/er-intake-api/internal/service"
	"github.com/triageops/er-intake-api/internal/service/auth"
	"github.com/triageops/er-intake-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"deactivated account", service.ErrAccountDeactivated, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"admin required", service.ErrAdminRequired, http.StatusForbidden},
		{"patient not found", service.ErrPatientNotFound, http.StatusNotFound},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound},
		{"store not found", store.ErrPatientNotFound, http.StatusNotFound},
		{"duplicate pesel", service.ErrDuplicatePESEL, http.StatusConflict},
		{"username taken", service.ErrUsernameTaken, http.StatusConflict},
		{"short password", service.ErrPasswordTooShort, http.StatusBadRequest},
		{"invalid pesel", domain.ErrInvalidPESEL, http.StatusBadRequest},
		{"invalid condition", domain.ErrInvalidCondition, http.StatusBadRequest},
		{"invalid status", domain.ErrInvalidStatus, http.StatusBadRequest},
		{"invalid role", domain.ErrInvalidRole, http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped sentinel",
			service.NewServiceError("login", "wrapping", nil),
			http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestMapErrorToCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"invalid credentials", service.ErrInvalidCredentials, CodeAuthFailed},
		{"deactivated account", service.ErrAccountDeactivated, CodeAuthFailed},
		{"expired token", auth.ErrExpiredToken, CodeUnauthorized},
		{"admin required", service.ErrAdminRequired, CodeForbidden},
		{"duplicate pesel", service.ErrDuplicatePESEL, CodeDuplicatePESEL},
		{"username taken", service.ErrUsernameTaken, CodeDuplicateUsername},
		{"patient not found", service.ErrPatientNotFound, CodeNotFound},
		{"invalid id", domain.ErrInvalidID, CodeInvalidID},
		{"invalid pesel", domain.ErrInvalidPESEL, CodeValidationError},
		{"short password", service.ErrPasswordTooShort, CodeValidationError},
		{"unknown error", errors.New("boom"), CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "An unexpected error occurred"},
		{"invalid credentials", service.ErrInvalidCredentials, "Invalid username or password"},
		{"deactivated account", service.ErrAccountDeactivated, "Account is deactivated"},
		{"duplicate pesel", service.ErrDuplicatePESEL, "Patient with this PESEL already exists"},
		{"username taken", service.ErrUsernameTaken, "Username already exists"},
		{"short password", service.ErrPasswordTooShort, "Password must be at least 6 characters"},
		{"patient not found", service.ErrPatientNotFound, "Patient not found"},
		{"invalid pesel", domain.ErrInvalidPESEL, "Invalid PESEL"},
		{
			"internal details are not leaked",
			errors.New("pq: connection to host 10.0.0.5 failed"),
			"An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetSafeErrorMessage(tt.err))
		})
	}
}
