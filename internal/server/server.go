package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/linkedin-scraper/scraper-ui/internal/assets"
	"github.com/linkedin-scraper/scraper-ui/internal/backend"
	"github.com/linkedin-scraper/scraper-ui/internal/config"
	"github.com/linkedin-scraper/scraper-ui/internal/handlers"
	"github.com/linkedin-scraper/scraper-ui/internal/logger"
	"github.com/linkedin-scraper/scraper-ui/internal/metrics"
	"github.com/linkedin-scraper/scraper-ui/internal/middleware"
	"github.com/linkedin-scraper/scraper-ui/internal/submit"
)

const (
	// ServerShutdownTimeout is the timeout for graceful server shutdown
	ServerShutdownTimeout = 10 * time.Second
)

type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	handlers *handlers.HandlerService
}

// NewServer wires the backend client, the page handlers and the router.
func NewServer(cfg *config.Config, logger *slog.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	client := backend.NewClient(cfg.BackendURL,
		backend.WithLogger(logger),
		backend.WithMetrics(m),
	)

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		metrics: m,
		handlers: &handlers.HandlerService{
			Backend:          client,
			Metrics:          m,
			ProfilesStrategy: submit.SingleAttempt,
			CommentsStrategy: cfg.CommentsSubmitStrategy(),
		},
	}

	s.setupMiddleware()
	s.RegisterRoutes(s.router)
	return s
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) RegisterRoutes(router chi.Router) {
	h := s.handlers

	router.Handle("/static/*", assets.Handler())

	router.Get("/health/live", h.HandleLiveness)
	router.Get("/health/ready", h.HandleReadiness)
	router.Handle("/metrics", s.metrics.Handler())

	router.Get("/", h.HandleHome)
	router.Get("/profiles", h.HandleProfiles)
	router.Get("/comments", h.HandleComments)

	// submissions call the backend
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst, h.RenderError))
		r.Use(middleware.RequestSizeLimit(s.config.MaxFormBytes, h.RenderError))

		r.Post("/profiles", h.HandleProfilesPost)
		r.Post("/comments", h.HandleCommentsPost)
	})

	router.NotFound(h.HandleNotFound)
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(s.metrics.Middleware)
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.ServerTiming)
	s.router.Use(middleware.Compress)

	// a retrying submission can legitimately take several backend timeouts
	s.router.Use(chimiddleware.Timeout(s.config.WriteTimeout))
}

// Start runs the server until ctx is canceled, then shuts it down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("UI server listening", slog.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down UI server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ServerShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
			return err
		}
	}

	return nil
}
