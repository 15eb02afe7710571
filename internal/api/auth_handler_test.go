package api

import (
	"bytes"
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
	"github.com/triageops/er-intake-api/internal/service"
	"github.com/triageops/er-intake-api/internal/service/auth"
)

// MockAuthService is a mock implementation of service.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(
	ctx context.Context,
	username, password string,
) (*service.LoginResult, error) {
	args := m.Called(ctx, username, password)
	result, _ := args.Get(0).(*service.LoginResult)
	return result, args.Error(1)
}

func (m *MockAuthService) Register(
	ctx context.Context,
	actorRole domain.Role,
	input service.RegisterInput,
) (*domain.User, error) {
	args := m.Called(ctx, actorRole, input)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) ListUsers(
	ctx context.Context,
	actorRole domain.Role,
) ([]*domain.User, error) {
	args := m.Called(ctx, actorRole)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

// withClaims attaches token claims to the request context the way the
// authentication middleware does.
func withClaims(req *http.Request, claims *auth.Claims) *http.Request {
	ctx := context.WithValue(req.Context(), shared.ClaimsContextKey, claims)
	return req.WithContext(ctx)
}

func adminClaims() *auth.Claims {
	return &auth.Claims{
		UserID:    1,
		Role:      domain.RoleAdmin,
		Subject:   "admin",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
		ID:        "token-id",
	}
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var errResp shared.ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&errResp))
	return errResp
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("Login", mock.Anything, "jkowalski", "doctor123").
			Return(&service.LoginResult{
				Token:     "signed.token.value",
				Username:  "jkowalski",
				FullName:  "Jan Kowalski",
				Role:      domain.RoleDoctor,
				ExpiresIn: 3600,
			}, nil)

		handler := NewAuthHandler(authService)
		req := jsonRequest(t, "POST", "/auth/login", map[string]string{
			"username": "jkowalski",
			"password": "doctor123",
		})
		recorder := httptest.NewRecorder()

		handler.Login(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var resp LoginResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, "signed.token.value", resp.Token)
		assert.Equal(t, domain.RoleDoctor, resp.Role)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("Login", mock.Anything, "jkowalski", "wrong").
			Return(nil, service.ErrInvalidCredentials)

		handler := NewAuthHandler(authService)
		req := jsonRequest(t, "POST", "/auth/login", map[string]string{
			"username": "jkowalski",
			"password": "wrong",
		})
		recorder := httptest.NewRecorder()

		handler.Login(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		errResp := decodeError(t, recorder)
		assert.Equal(t, CodeAuthFailed, errResp.Code)
		assert.Equal(t, "Invalid username or password", errResp.Message)
	})

	t.Run("deactivated account", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("Login", mock.Anything, "retired", "doctor123").
			Return(nil, service.ErrAccountDeactivated)

		handler := NewAuthHandler(authService)
		req := jsonRequest(t, "POST", "/auth/login", map[string]string{
			"username": "retired",
			"password": "doctor123",
		})
		recorder := httptest.NewRecorder()

		handler.Login(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		errResp := decodeError(t, recorder)
		assert.Equal(t, CodeAuthFailed, errResp.Code)
		assert.Equal(t, "Account is deactivated", errResp.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		handler := NewAuthHandler(&MockAuthService{})
		req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString("{not json"))
		recorder := httptest.NewRecorder()

		handler.Login(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, CodeInvalidRequest, decodeError(t, recorder).Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		handler := NewAuthHandler(&MockAuthService{})
		req := jsonRequest(t, "POST", "/auth/login", map[string]string{"username": "jkowalski"})
		recorder := httptest.NewRecorder()

		handler.Login(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, CodeValidationError, decodeError(t, recorder).Code)
	})
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	payload := map[string]string{
		"username": "anowak",
		"password": "nurse1234",
		"fullName": "Anna Nowak",
		"role":     "NURSE",
	}

	t.Run("success", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("Register", mock.Anything, domain.RoleAdmin, service.RegisterInput{
			Username: "anowak",
			Password: "nurse1234",
			FullName: "Anna Nowak",
			Role:     "NURSE",
		}).Return(&domain.User{
			ID:       12,
			Username: "anowak",
			FullName: "Anna Nowak",
			Role:     domain.RoleNurse,
			IsActive: true,
		}, nil)

		handler := NewAuthHandler(authService)
		req := withClaims(jsonRequest(t, "POST", "/auth/register", payload), adminClaims())
		recorder := httptest.NewRecorder()

		handler.Register(recorder, req)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		var resp UserResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		assert.Equal(t, int64(12), resp.ID)
		assert.True(t, resp.IsActive)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("Register", mock.Anything, domain.RoleNurse, mock.Anything).
			Return(nil, service.ErrAdminRequired)

		handler := NewAuthHandler(authService)
		claims := adminClaims()
		claims.Role = domain.RoleNurse
		req := withClaims(jsonRequest(t, "POST", "/auth/register", payload), claims)
		recorder := httptest.NewRecorder()

		handler.Register(recorder, req)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Equal(t, CodeForbidden, decodeError(t, recorder).Code)
	})

	t.Run("duplicate username", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("Register", mock.Anything, domain.RoleAdmin, mock.Anything).
			Return(nil, service.ErrUsernameTaken)

		handler := NewAuthHandler(authService)
		req := withClaims(jsonRequest(t, "POST", "/auth/register", payload), adminClaims())
		recorder := httptest.NewRecorder()

		handler.Register(recorder, req)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		errResp := decodeError(t, recorder)
		assert.Equal(t, CodeDuplicateUsername, errResp.Code)
		assert.Equal(t, "Username already exists", errResp.Message)
	})

	t.Run("short password", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("Register", mock.Anything, domain.RoleAdmin, mock.Anything).
			Return(nil, service.ErrPasswordTooShort)

		handler := NewAuthHandler(authService)
		shortPayload := map[string]string{
			"username": "anowak",
			"password": "short",
			"fullName": "Anna Nowak",
			"role":     "NURSE",
		}
		req := withClaims(jsonRequest(t, "POST", "/auth/register", shortPayload), adminClaims())
		recorder := httptest.NewRecorder()

		handler.Register(recorder, req)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		errResp := decodeError(t, recorder)
		assert.Equal(t, CodeValidationError, errResp.Code)
		assert.Equal(t, "Password must be at least 6 characters", errResp.Message)
	})

	t.Run("missing claims", func(t *testing.T) {
		handler := NewAuthHandler(&MockAuthService{})
		req := jsonRequest(t, "POST", "/auth/register", payload)
		recorder := httptest.NewRecorder()

		handler.Register(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestAuthHandler_Me(t *testing.T) {
	t.Parallel()

	handler := NewAuthHandler(&MockAuthService{})
	req := withClaims(httptest.NewRequest("GET", "/auth/me", nil), adminClaims())
	recorder := httptest.NewRecorder()

	handler.Me(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	var resp MeResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.UserID)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, domain.RoleAdmin, resp.Role)
}

func TestAuthHandler_ListUsers(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("ListUsers", mock.Anything, domain.RoleAdmin).
			Return([]*domain.User{
				{ID: 1, Username: "admin", Role: domain.RoleAdmin, IsActive: true},
				{ID: 2, Username: "jkowalski", Role: domain.RoleDoctor, IsActive: false},
			}, nil)

		handler := NewAuthHandler(authService)
		req := withClaims(httptest.NewRequest("GET", "/auth/users", nil), adminClaims())
		recorder := httptest.NewRecorder()

		handler.ListUsers(recorder, req)

		assert.Equal(t, http.StatusOK, recorder.Code)
		var resp []UserResponse
		require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))
		require.Len(t, resp, 2)
		assert.False(t, resp[1].IsActive)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		authService := &MockAuthService{}
		authService.On("ListUsers", mock.Anything, domain.RoleDoctor).
			Return(nil, service.ErrAdminRequired)

		handler := NewAuthHandler(authService)
		claims := adminClaims()
		claims.Role = domain.RoleDoctor
		req := withClaims(httptest.NewRequest("GET", "/auth/users", nil), claims)
		recorder := httptest.NewRecorder()

		handler.ListUsers(recorder, req)

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
