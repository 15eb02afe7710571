package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/triageops/er-intake-api/internal/api/shared"
	"github.com/triageops/er-intake-api/internal/domain"
	"github.com/triageops/er-intake-api/internal/service/auth"
)

// MockJWTService is a mock implementation of auth.JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, user *domain.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	claims, _ := args.Get(0).(*auth.Claims)
	return claims, args.Error(1)
}

func (m *MockJWTService) TokenLifetime() time.Duration {
	args := m.Called()
	lifetime, _ := args.Get(0).(time.Duration)
	return lifetime
}

func doctorClaims() *auth.Claims {
	return &auth.Claims{
		UserID:    7,
		Role:      domain.RoleDoctor,
		Subject:   "jkowalski",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
		ID:        "token-id",
	}
}

// claimsCapturingHandler records the claims the middleware placed in context.
func claimsCapturingHandler(captured **auth.Claims) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := GetClaims(r)
		*captured = claims
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	t.Run("valid token passes claims through", func(t *testing.T) {
		jwtService := &MockJWTService{}
		claims := doctorClaims()
		jwtService.On("ValidateToken", mock.Anything, "valid-token").Return(claims, nil)

		var captured *auth.Claims
		middleware := NewAuthMiddleware(jwtService)
		handler := middleware.Authenticate(claimsCapturingHandler(&captured))

		req := httptest.NewRequest("GET", "/patients", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, captured)
		assert.Equal(t, int64(7), captured.UserID)
		assert.Equal(t, domain.RoleDoctor, captured.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		middleware := NewAuthMiddleware(&MockJWTService{})
		handler := middleware.Authenticate(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			}))

		req := httptest.NewRequest("GET", "/patients", nil)
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		middleware := NewAuthMiddleware(&MockJWTService{})
		handler := middleware.Authenticate(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			}))

		for _, header := range []string{"valid-token", "Basic dXNlcjpwYXNz", "Bearer"} {
			req := httptest.NewRequest("GET", "/patients", nil)
			req.Header.Set("Authorization", header)
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, req)

			assert.Equal(t, http.StatusUnauthorized, recorder.Code, "header %q", header)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		jwtService := &MockJWTService{}
		jwtService.On("ValidateToken", mock.Anything, "expired-token").
			Return(nil, auth.ErrExpiredToken)

		middleware := NewAuthMiddleware(jwtService)
		handler := middleware.Authenticate(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			}))

		req := httptest.NewRequest("GET", "/patients", nil)
		req.Header.Set("Authorization", "Bearer expired-token")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)

		var errResp shared.ErrorResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
		assert.Equal(t, "Token expired", errResp.Message)
	})

	t.Run("invalid token", func(t *testing.T) {
		jwtService := &MockJWTService{}
		jwtService.On("ValidateToken", mock.Anything, "bad-token").
			Return(nil, auth.ErrInvalidToken)

		middleware := NewAuthMiddleware(jwtService)
		handler := middleware.Authenticate(http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not be reached")
			}))

		req := httptest.NewRequest("GET", "/patients", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	middleware := NewAuthMiddleware(&MockJWTService{})
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("matching role passes", func(t *testing.T) {
		claims := doctorClaims()
		claims.Role = domain.RoleAdmin

		req := httptest.NewRequest("GET", "/auth/users", nil)
		req = req.WithContext(
			context.WithValue(req.Context(), shared.ClaimsContextKey, claims))
		recorder := httptest.NewRecorder()

		requireAdmin(okHandler).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("other role is forbidden", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/users", nil)
		req = req.WithContext(
			context.WithValue(req.Context(), shared.ClaimsContextKey, doctorClaims()))
		recorder := httptest.NewRecorder()

		requireAdmin(okHandler).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("missing claims is unauthorized", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/users", nil)
		recorder := httptest.NewRecorder()

		requireAdmin(okHandler).ServeHTTP(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
