package api

import (
	"net/http"

	"github.com/triageops/er-intake-api/internal/api/shared"
	"github.com/triageops/er-intake-api/internal/service"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Login handles the POST /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Invalid request format", CodeInvalidRequest)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Username and password are required", CodeValidationError)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:     result.Token,
		Username:  result.Username,
		FullName:  result.FullName,
		Role:      result.Role,
		ExpiresIn: result.ExpiresIn,
	})
}

// Register handles the POST /auth/register endpoint. Only callers holding
// an ADMIN token may register new accounts.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(w, r)
	if !ok {
		return
	}

	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Invalid request format", CodeInvalidRequest)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Username, password, full name and role are required", CodeValidationError)
		return
	}

	user, err := h.authService.Register(r.Context(), claims.Role, service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user))
}

// Me handles the GET /auth/me endpoint. It echoes the identity carried by
// the presented token without touching the store.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MeResponse{
		UserID:   claims.UserID,
		Username: claims.Username(),
		Role:     claims.Role,
	})
}

// ListUsers handles the GET /auth/users endpoint.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaimsFromContext(w, r)
	if !ok {
		return
	}

	users, err := h.authService.ListUsers(r.Context(), claims.Role)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
