package auth

import (
	"context"
	"time"

	"github.com/triageops/er-intake-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed bearer token for the given account,
	// carrying the username as subject and the user ID and role as claims.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims containing user information if the token is valid,
	// or an error if validation fails (expired, invalid signature, wrong
	// issuer or audience, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// TokenLifetime returns the validity window of issued tokens.
	// Callers use it to report remaining validity to clients.
	TokenLifetime() time.Duration
}

// Claims represents the custom claims structure for the bearer tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the unique identifier of the account the token was issued for.
	UserID int64 `json:"userId"`

	// Role is the account's staff role, used for role-gated operations.
	Role domain.Role `json:"role"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Username returns the username the token was issued for.
// The username is carried in the subject claim.
func (c *Claims) Username() string {
	return c.Subject
}
