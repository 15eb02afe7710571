package api

import (
	"time"

	"github.com/triageops/er-intake-api/internal/domain"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	// Token is the bearer token used for API authorization
	Token string `json:"token"`

	// Username, FullName and Role describe the authenticated account
	Username string      `json:"username"`
	FullName string      `json:"fullName"`
	Role     domain.Role `json:"role"`

	// ExpiresIn is the token validity window in seconds
	ExpiresIn int64 `json:"expiresIn"`
}

// RegisterRequest defines the payload for the staff registration endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role"     validate:"required"`
}

// UserResponse defines the representation of a staff account in responses.
// The password hash is never serialized.
type UserResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	FullName  string      `json:"fullName"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
	IsActive  bool        `json:"isActive"`
}

// NewUserResponse builds a UserResponse from a domain User.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		IsActive:  user.IsActive,
	}
}

// MeResponse echoes the identity carried by the presented token.
type MeResponse struct {
	UserID   int64       `json:"userId"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// AdmitPatientRequest defines the payload for the patient admission endpoint.
// Status is optional; an omitted or empty status admits the patient as NEW.
type AdmitPatientRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName"  validate:"required"`
	PESEL     string `json:"pesel"     validate:"required,len=11"`
	Condition string `json:"condition" validate:"required"`
	Status    string `json:"status,omitempty"`
}

// UpdateStatusRequest defines the payload for the status update endpoint.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// PatientResponse defines the representation of a patient in responses.
type PatientResponse struct {
	ID         int64            `json:"id"`
	FirstName  string           `json:"firstName"`
	LastName   string           `json:"lastName"`
	PESEL      string           `json:"pesel"`
	Condition  domain.Condition `json:"condition"`
	Status     domain.Status    `json:"status"`
	AdmittedAt time.Time        `json:"admittedAt"`
}

// NewPatientResponse builds a PatientResponse from a domain Patient.
func NewPatientResponse(patient *domain.Patient) PatientResponse {
	return PatientResponse{
		ID:         patient.ID,
		FirstName:  patient.FirstName,
		LastName:   patient.LastName,
		PESEL:      patient.PESEL,
		Condition:  patient.Condition,
		Status:     patient.Status,
		AdmittedAt: patient.AdmittedAt,
	}
}

// PaginatedResponse wraps a page of results with the total count and the
// paging bounds that produced it. Total reflects all matching records,
// independent of Limit and Offset.
type PaginatedResponse struct {
	Data   interface{} `json:"data"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
