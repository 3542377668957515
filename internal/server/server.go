// Package server wires the HTTP surface: router, middleware and lifecycle.
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
	"go.uber.org/zap"

	"github.com/imrishuroy/go-sales-ingest/internal/config"
	"github.com/imrishuroy/go-sales-ingest/internal/handlers"
	"github.com/imrishuroy/go-sales-ingest/internal/logger"
	"github.com/imrishuroy/go-sales-ingest/internal/metrics"
	"github.com/imrishuroy/go-sales-ingest/internal/middlewares"
	"github.com/imrishuroy/go-sales-ingest/internal/warehouse"
)

const (
	shutdownTimeout = 10 * time.Second
	metricsTimeout  = 5 * time.Second
)

// Deps are the collaborators built by main.
type Deps struct {
	Destination *warehouse.Destination
	// Metrics is optional; nil disables request metrics.
	Metrics metrics.Recorder
	Logger  *zap.SugaredLogger
}

// Server owns the router and the listening http.Server.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	log    *zap.SugaredLogger
}

// New builds the router for cfg. Nothing listens until Start or Run.
func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Destination == nil || deps.Destination.Inserter == nil {
		return nil, errors.New("server: destination is required")
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID(), middlewares.LoggingMiddleware(log))
	if deps.Metrics != nil {
		r.Use(metrics.Middleware(deps.Metrics, metricsTimeout, cfg.RunLocal, log))
	}

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	handlers.RegisterIngestRoutes(r, handlers.HandlerConfig{
		Inserter:  deps.Destination.Inserter,
		Table:     cfg.Table,
		StoreName: deps.Destination.Name,
		Logger:    log,
	})

	return &Server{
		engine: r,
		srv: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

// Handler exposes the router, e.g. for the Lambda proxy adapter.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

// Start listens and serves until Stop. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.srv.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		errChan <- s.Start()
	}()

	select {
	case <-ctxShutdown.Done():
		s.log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Stop(shutdownCtx); err != nil {
		s.log.Errorw("HTTP server shutdown error", "error", err)
		return err
	}

	s.log.Info("HTTP server stopped gracefully")
	return nil
}
