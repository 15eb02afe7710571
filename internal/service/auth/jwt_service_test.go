package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/triageops/er-intake-api/internal/config"
	"github.com/triageops/er-intake-api/internal/domain"
)

const testSecret = "test-secret-0123456789abcdefghijklmnop"

func testUser() *domain.User {
	return &domain.User{
		ID:             42,
		Username:       "jkowalski",
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		FullName:       "Jan Kowalski",
		Role:           domain.RoleDoctor,
		CreatedAt:      time.Now().UTC(),
		IsActive:       true,
	}
}

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTService(t *testing.T) {
	t.Run("rejects short secret", func(t *testing.T) {
		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:            "tooshort",
			TokenLifetimeMinutes: 60,
		})
		assert.Error(t, err)
	})

	t.Run("accepts valid config", func(t *testing.T) {
		svc, err := NewJWTService(config.AuthConfig{
			JWTSecret:            testSecret,
			TokenLifetimeMinutes: 30,
		})
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, svc.TokenLifetime())
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	user := testUser()

	token, err := svc.GenerateToken(ctx, user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Role, claims.Role)
	assert.Equal(t, user.Username, claims.Subject)
	assert.Equal(t, user.Username, claims.Username())
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestValidateToken_Expired(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)

	// Issue a token in the past, beyond lifetime plus clock skew.
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.timeFunc = func() time.Time { return issuedAt }

	token, err := svc.GenerateToken(ctx, testUser())
	require.NoError(t, err)

	svc.timeFunc = time.Now
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_WrongKey(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken(ctx, testUser())
	require.NoError(t, err)

	other, err := NewJWTService(config.AuthConfig{
		JWTSecret:            "another-secret-0123456789abcdefghijk",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Malformed(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)

	_, err := svc.ValidateToken(ctx, "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("doctor123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "doctor123", hash)

	assert.NoError(t, hasher.Compare(hash, "doctor123"))
	assert.Error(t, hasher.Compare(hash, "wrongpassword"))
}
