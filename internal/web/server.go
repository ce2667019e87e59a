// Package web provides the HTTP API for validating submission workbooks.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/scvtools/scvcheck/internal/audit"
	"github.com/scvtools/scvcheck/internal/config"
	"github.com/scvtools/scvcheck/internal/scv"
	mw "github.com/scvtools/scvcheck/internal/web/middleware"
)

// Server is the HTTP server for the validation API.
type Server struct {
	cfg     *config.Config
	catalog *scv.Catalog
	runs    *audit.RunStore // nil when no history store is configured
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a server for one loaded rule catalog. runs may be nil.
func NewServer(cfg *config.Config, catalog *scv.Catalog, runs *audit.RunStore) *Server {
	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		runs:    runs,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if len(s.cfg.Security.TrustedProxies) > 0 {
		s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	}
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(&s.cfg.Security))

		r.Post("/validate", s.handleValidate)
		r.Get("/rules", s.handleRules)
		r.Get("/runs", s.handleRuns)
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start(addr string) error {
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
