package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/matchtips/core/internal/config"
	"github.com/matchtips/core/pkg/handlers/health"
	"github.com/matchtips/core/pkg/handlers/webhook"
	"github.com/matchtips/core/pkg/logger"
	"github.com/matchtips/core/pkg/middleware"
)

// Server represents the webhook server
type Server struct {
	router   *chi.Mux
	http     *http.Server
	logger   *logger.Logger
	handlers struct {
		health  *health.Handler
		webhook *webhook.Handler
	}
}

// New creates a server exposing /health and the inbound update endpoint
func New(cfg config.ServerConfig, updates *webhook.Handler, log *logger.Logger) *Server {
	s := &Server{
		logger: log,
	}
	s.handlers.health = health.NewHandler(log)
	s.handlers.webhook = updates
	s.router = s.buildRouter()
	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) buildRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(s.logger))

	r.Get("/health", s.handlers.health.HealthCheck)
	r.Post("/webhook", s.handlers.webhook.HandleUpdate)

	return r
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called
func (s *Server) Start() error {
	addr := s.http.Addr
	s.logger.Info().
		Str("action", "server_start").
		Str("addr", addr).
		Msg("Starting webhook server")

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed on %s: %w", addr, err)
	}
	return nil
}

// Shutdown stops accepting requests and waits up to timeout for in-flight ones
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.logger.Info().Str("action", "server_shutdown").Msg("Shutting down webhook server")
	return s.http.Shutdown(ctx)
}
