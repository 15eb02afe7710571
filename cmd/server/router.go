package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/triageops/er-intake-api/internal/api"
	apiMiddleware "github.com/triageops/er-intake-api/internal/api/middleware"
	"github.com/triageops/er-intake-api/internal/domain"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.authService)
	patientHandler := api.NewPatientHandler(app.patientService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Authentication endpoints (public)
	r.Post("/auth/login", authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		// Staff account endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Get("/auth/me", authHandler.Me)
		r.With(authMiddleware.RequireRole(domain.RoleAdmin)).
			Get("/auth/users", authHandler.ListUsers)

		// Patient endpoints
		r.Post("/patients", patientHandler.Admit)
		r.Get("/patients", patientHandler.List)
		r.Get("/patients/new", patientHandler.ListNew)
		r.Get("/patients/{id}", patientHandler.Get)
		r.Put("/patients/{id}/status", patientHandler.UpdateStatus)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
