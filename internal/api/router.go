package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kinetikids/motionhub/internal/api/handler"
	apimiddleware "github.com/kinetikids/motionhub/internal/api/middleware"
	"github.com/kinetikids/motionhub/internal/events"
	"github.com/kinetikids/motionhub/internal/middleware"
	"github.com/kinetikids/motionhub/internal/services/admin"
	"github.com/kinetikids/motionhub/internal/services/auth"
	"github.com/kinetikids/motionhub/internal/services/catalog"
	"github.com/kinetikids/motionhub/internal/services/profile"
	"github.com/kinetikids/motionhub/internal/services/session"
	"github.com/kinetikids/motionhub/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	ProfileStore      *profile.Store
	CatalogService    *catalog.Service
	SessionController *session.Controller
	AdminService      *admin.Service
	Storage           storage.Storage
	EventHub          *events.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService, cfg.ProfileStore, cfg.SessionController)
	catalogHandler := handler.NewCatalogHandler(cfg.CatalogService, cfg.ProfileStore)
	sessionHandler := handler.NewSessionHandler(cfg.SessionController)
	adminHandler := handler.NewAdminHandler(cfg.AdminService)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	adminMiddleware := apimiddleware.RequireAdmin(cfg.Storage)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User routes (no auth required for registering/logging in)
	api.HandleFunc("/users/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/login", userHandler.Login).Methods(http.MethodPost)

	// Protected user routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.HandleFunc("/logout", userHandler.Logout).Methods(http.MethodPost)
	users.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)

	// Catalog routes (all require auth)
	cat := api.PathPrefix("/catalog").Subrouter()
	cat.Use(authMiddleware)
	cat.HandleFunc("", catalogHandler.List).Methods(http.MethodGet)
	cat.HandleFunc("/{entry_id}/phases", catalogHandler.Phases).Methods(http.MethodGet)

	// Session routes (all require auth)
	sess := api.PathPrefix("/session").Subrouter()
	sess.Use(authMiddleware)
	sess.HandleFunc("", sessionHandler.Get).Methods(http.MethodGet)
	sess.HandleFunc("/entry", sessionHandler.SelectEntry).Methods(http.MethodPost)
	sess.HandleFunc("/phase", sessionHandler.SelectPhase).Methods(http.MethodPost)
	sess.HandleFunc("/finish", sessionHandler.Finish).Methods(http.MethodPost)
	sess.HandleFunc("/dismiss", sessionHandler.Dismiss).Methods(http.MethodPost)
	sess.HandleFunc("/abort", sessionHandler.Abort).Methods(http.MethodPost)
	sess.HandleFunc("/admin", sessionHandler.EnterAdmin).Methods(http.MethodPost)
	sess.HandleFunc("/admin", sessionHandler.ExitAdmin).Methods(http.MethodDelete)

	// Admin routes (auth + admin role)
	adm := api.PathPrefix("/admin").Subrouter()
	adm.Use(authMiddleware)
	adm.Use(adminMiddleware)
	adm.HandleFunc("/users", adminHandler.ListUsers).Methods(http.MethodGet)
	adm.HandleFunc("/users/{user_id}/permissions", adminHandler.SetPermission).Methods(http.MethodPatch)
	adm.HandleFunc("/users/{user_id}/coins", adminHandler.GiftCoins).Methods(http.MethodPost)

	// Event stream (auth required)
	eventsRoute := api.PathPrefix("/events").Subrouter()
	eventsRoute.Use(authMiddleware)
	eventsRoute.HandleFunc("", func(w http.ResponseWriter, r *http.Request) {
		s := apimiddleware.MustGetSession(r.Context())
		events.ServeSSE(w, r, cfg.EventHub, s.UserID)
	}).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
