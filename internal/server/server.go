// Package server exposes frenum's evaluator, audit log, and report
// synthesizer over HTTP, for deployments that call into a running
// sidecar rather than invoking the CLI per tool call.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/terry-li-hm/frenum/internal/engine"
)

// Server is the echo-backed HTTP surface over an engine.Store.
type Server struct {
	echo   *echo.Echo
	config Config
}

// New constructs a Server wired to store for evaluation and
// cfg.AuditLogPath for audit history. store may be reloaded concurrently (e.g. by an
// engine.Watcher); every request reads whatever policy is current.
func New(cfg Config, store *engine.Store) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, config: cfg}
	s.setupMiddleware()
	s.setupRoutes(store)
	return s
}

// Start runs the server until Shutdown is called or it fails.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	log.Info().Int("port", s.config.Port).Msg("starting frenum HTTP server")

	s.echo.Server.ReadTimeout = time.Duration(s.config.ReadTimeout) * time.Second
	s.echo.Server.WriteTimeout = time.Duration(s.config.WriteTimeout) * time.Second

	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down frenum HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Duration(s.config.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))

	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Content-Type"},
	}))
}

func (s *Server) setupRoutes(store *engine.Store) {
	evalHandler := NewEvaluateHandler(store, s.config.AuditLogPath)
	auditHandler := NewAuditHandler(s.config.AuditLogPath)
	reportHandler := NewReportHandler(s.config.AuditLogPath)

	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/evaluate", evalHandler.Evaluate)
	s.echo.GET("/audit", auditHandler.GetAuditLog)
	s.echo.GET("/report", reportHandler.GetReport)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
