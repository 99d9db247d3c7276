// Package server provides the HTTP server and routing for the lab.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/blackroad/qlab/internal/benchmarks"
	"github.com/blackroad/qlab/internal/config"
	"github.com/blackroad/qlab/internal/database"
	"github.com/blackroad/qlab/internal/events"
	"github.com/blackroad/qlab/internal/experiments"
	benchmarkhandlers "github.com/blackroad/qlab/internal/modules/benchmarks/handlers"
	experimenthandlers "github.com/blackroad/qlab/internal/modules/experiments/handlers"
	factoringhandlers "github.com/blackroad/qlab/internal/modules/factoring/handlers"
	resulthandlers "github.com/blackroad/qlab/internal/modules/results/handlers"
	"github.com/blackroad/qlab/internal/results"
	"github.com/blackroad/qlab/internal/runner"
)

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Config      *config.Config
	DB          *database.DB
	Repo        *results.Repository
	Runner      *runner.Runner
	Experiments *experiments.Registry
	Benchmarks  *benchmarks.Registry
	Bus         *events.Bus
}

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	cfg    Config
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		cfg:    cfg,
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	systemHandlers := NewSystemHandlers(s.log, s.cfg.DB, s.cfg.Repo)
	eventsStream := NewEventsStreamHandler(s.cfg.Bus, s.log)
	wsStream := NewWSStreamHandler(s.cfg.Bus, s.log)

	experimentHandler := experimenthandlers.NewHandler(s.cfg.Experiments, s.cfg.Runner, s.log)
	benchmarkHandler := benchmarkhandlers.NewHandler(s.cfg.Benchmarks, s.cfg.Runner, s.log)
	factoringHandler := factoringhandlers.NewHandler(s.cfg.Repo, s.log)
	resultHandler := resulthandlers.NewHandler(s.cfg.Repo, s.cfg.Runner, s.log)

	s.router.Route("/api", func(r chi.Router) {
		experimentHandler.RegisterRoutes(r)
		benchmarkHandler.RegisterRoutes(r)
		factoringHandler.RegisterRoutes(r)
		resultHandler.RegisterRoutes(r)

		r.Route("/system", func(r chi.Router) {
			r.Get("/info", systemHandlers.HandleInfo)
			r.Get("/db", systemHandlers.HandleDBStats)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/stream", eventsStream.ServeHTTP)
			r.Get("/ws", wsStream.ServeHTTP)
		})
	})
}

// Router exposes the router for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start begins serving HTTP requests. Blocks until shutdown.
func (s *Server) Start() error {
	s.log.Info().
		Str("addr", s.server.Addr).
		Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := s.cfg.DB.QuickCheck(r.Context()); err != nil {
		s.log.Error().Err(err).Msg("Health check failed")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"status":"unavailable"}`)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ok"}`)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}
