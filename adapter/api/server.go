// Package api serves the Ordo JSON API.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/ordo/internal/app"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

// Server is the HTTP API server.
type Server struct {
	mux    *http.ServeMux
	server *http.Server
	logger *slog.Logger
	app    *app.Container
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates the API server over the container's handlers.
func NewServer(cfg ServerConfig, c *app.Container) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		logger: c.Logger,
		app:    c,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.recoverer(s.requestLogger(s.mux))
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Accounts
	s.mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignup)
	s.mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.mux.Handle("POST /api/v1/auth/logout", s.authed(s.handleLogout))
	s.mux.Handle("GET /api/v1/auth/me", s.authed(s.handleMe))

	// Todos
	s.mux.Handle("GET /api/v1/todos", s.authed(s.handleListItems))
	s.mux.Handle("GET /api/v1/todos/due-soon", s.authed(s.handleDueSoon))
	s.mux.Handle("GET /api/v1/todos/new", s.authed(s.handleItemDraft))
	s.mux.Handle("POST /api/v1/todos", s.mutating(s.handleCreateItem))
	s.mux.Handle("POST /api/v1/todos/reorder", s.mutating(s.handleReorderItems))
	s.mux.Handle("GET /api/v1/todos/{id}", s.authed(s.handleGetItem))
	s.mux.Handle("PUT /api/v1/todos/{id}", s.mutating(s.handleUpdateItem))
	s.mux.Handle("DELETE /api/v1/todos/{id}", s.mutating(s.handleDeleteItem))
	s.mux.Handle("POST /api/v1/todos/{id}/toggle", s.mutating(s.handleToggleItem))
	s.mux.Handle("POST /api/v1/todos/{id}/complete-and-followup", s.mutating(s.handleCompleteAndFollowup))

	// Categories
	s.mux.Handle("GET /api/v1/categories", s.authed(s.handleListCategories))
	s.mux.Handle("POST /api/v1/categories", s.mutating(s.handleCreateCategory))
	s.mux.Handle("POST /api/v1/categories/reorder", s.mutating(s.handleReorderCategories))
	s.mux.Handle("DELETE /api/v1/categories/{id}", s.mutating(s.handleDeleteCategory))

	// Arcade
	s.mux.HandleFunc("GET /api/v1/arcade/leaderboard", s.handleLeaderboard)
	s.mux.Handle("POST /api/v1/arcade/scores", s.authed(s.handleSubmitScore))
	s.mux.Handle("GET /api/v1/arcade/players/active", s.authed(s.handleActivePlayers))
	s.mux.Handle("PUT /api/v1/arcade/players/me/state", s.authed(s.handleUpdateGameState))
	s.mux.Handle("DELETE /api/v1/arcade/players/me/state", s.authed(s.handleEndGame))
	s.mux.Handle("GET /api/v1/arcade/players/{username}/state", s.authed(s.handlePlayerState))

	// Deploy
	s.mux.HandleFunc("POST /webhooks/github", s.handleGitHubWebhook)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := s.app.Health.Check(ctx)
	status := http.StatusOK
	if health.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
