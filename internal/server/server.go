// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes search and export over HTTP with gin: route
// handlers, error envelopes, Prometheus metrics, per-client rate limits,
// and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/crossref-search/internal/config"
	"github.com/pdiddy/crossref-search/internal/httputil"
	"github.com/pdiddy/crossref-search/internal/logger"
	"github.com/pdiddy/crossref-search/pkg/types"
)

// Default timeout values.
const (
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 120 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultShutdownTimeout = 15 * time.Second
)

// Deps are the collaborators a Server is built from. Outbound is the shared
// client used by the Crossref and doi.org paths; the server releases its
// connections on shutdown.
type Deps struct {
	Searcher      Searcher
	Bibliographer Bibliographer
	Outbound      *http.Client
	Registry      *prometheus.Registry
	Logger        logger.Logger
}

// Server is the HTTP front end.
type Server struct {
	router   *gin.Engine
	server   *http.Server
	outbound *http.Client
	metrics  *Metrics
	log      logger.Logger
}

// New builds a Server from cfg and deps.
func New(cfg types.Config, deps Deps) (*Server, error) {
	searchRate, err := config.ParseRate(cfg.Server.RateLimitSearches)
	if err != nil {
		return nil, fmt.Errorf("search rate limit: %w", err)
	}
	exportRate, err := config.ParseRate(cfg.Server.RateLimitExports)
	if err != nil {
		return nil, fmt.Errorf("export rate limit: %w", err)
	}

	log := deps.Logger
	if log == nil {
		log = logger.NewNop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := NewMetrics(reg)
	h := NewHandler(deps.Searcher, deps.Bibliographer, metrics, log)

	router := gin.New()
	router.Use(RequestIDMiddleware(), LoggerMiddleware(log), RecoveryMiddleware(log))
	SetupRoutes(router, h, metrics, NewClientLimiter(searchRate), NewClientLimiter(exportRate))

	return &Server{
		router: router,
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		outbound: deps.Outbound,
		metrics:  metrics,
		log:      log,
	}, nil
}

// SetupRoutes registers every route on router.
func SetupRoutes(router *gin.Engine, h *Handler, m *Metrics, searchLimit, exportLimit *ClientLimiter) {
	router.GET("/healthz", h.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.GET("/search", RateLimitMiddleware(searchLimit), h.Search)

	exports := router.Group("/export", RateLimitMiddleware(exportLimit))
	{
		exports.GET("/csv", h.ExportCSV)
		exports.GET("/xlsx", h.ExportXLSX)
		exports.GET("/bibtex", h.ExportBibTeX)
	}
}

// Router returns the underlying gin engine.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start serves until the server is shut down.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", logger.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and releases outbound connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	defer httputil.CloseIdle(s.outbound)

	shutdownCtx, cancel := context.WithTimeout(ctx, defaultShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.log.Info("HTTP server stopped gracefully")
	return nil
}

// Run serves until SIGINT, SIGTERM or ctx cancellation, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		httputil.CloseIdle(s.outbound)
		return err
	case sig := <-sigCh:
		s.log.Info("shutdown signal received", logger.String("signal", sig.String()))
	case <-ctx.Done():
		s.log.Info("context cancelled, shutting down")
	}

	// The original ctx may already be cancelled.
	return s.Shutdown(context.Background())
}
