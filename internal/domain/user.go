package domain

import (
	"errors"
	"strings"
	"time"
)

// Role represents the access level granted to a staff account.
type Role string

// Staff roles. Each gates a set of operations at the transport and
// service layers.
const (
	RoleAdmin  Role = "ADMIN"  // Full access, including account registration
	RoleDoctor Role = "DOCTOR" // Can admit and handle patients
	RoleNurse  Role = "NURSE"  // Can view and handle patients
)

// Common validation errors for User
var (
	ErrEmptyUsername       = errors.New("username cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrEmptyFullName       = errors.New("full name cannot be empty")
	ErrInvalidRole         = errors.New("invalid role")
)

// User represents a staff account allowed to operate the intake service.
// It contains essential profile information and authentication details.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	FullName       string    `json:"fullName"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	IsActive       bool      `json:"isActive"`
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	if u.FullName == "" {
		return ErrEmptyFullName
	}

	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	return nil
}

// IsValid checks if the given role is one of the defined staff roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse:
		return true
	default:
		return false
	}
}

// ParseRole converts a string to a Role, case-insensitively.
// Returns ErrInvalidRole if the value is not a defined staff role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(s))
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}
