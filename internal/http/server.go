// Package http provides the API server, router assembly and the metrics
// server.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/secretd/internal/auth/http"
	"github.com/allisson/secretd/internal/config"
	"github.com/allisson/secretd/internal/metrics"
	secretsHTTP "github.com/allisson/secretd/internal/secrets/http"
	"github.com/allisson/secretd/internal/secrets/session"
)

// Server is the API server for secret lifecycle operations.
type Server struct {
	server       *http.Server
	logger       *slog.Logger
	shuttingDown atomic.Bool
}

// NewServer creates the API server and assembles its router.
//
// Route map:
//
//	POST   /v1/sessions               open a session (client credentials)
//	DELETE /v1/sessions               close the caller's session
//	POST   /v1/secrets                define a secret
//	GET    /v1/secrets                list visible secret UUIDs
//	GET    /v1/secrets/lookup         resolve a usage scope
//	GET    /v1/secrets/:uuid          secret metadata
//	DELETE /v1/secrets/:uuid          undefine and purge
//	GET    /v1/secrets/:uuid/xml      XML descriptor (never the value)
//	GET    /v1/secrets/:uuid/value    read the value
//	PUT    /v1/secrets/:uuid/value    store a value
//
// Everything under /v1 except POST /v1/sessions requires a session token.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	sessions *session.Manager,
	sessionHandler *authHTTP.SessionHandler,
	secretHandler *secretsHTTP.SecretHandler,
	metricsProvider *metrics.Provider,
) *Server {
	gin.SetMode(cfg.GetGinMode())

	s := &Server{logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New())
	router.Use(CustomLoggerMiddleware(logger))

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}
	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	router.GET("/health", healthHandler)
	router.GET("/ready", readinessHandler(s.shuttingDown.Load))

	v1 := router.Group("/v1")
	v1.POST("/sessions", sessionHandler.OpenSessionHandler)

	authenticated := v1.Group("", authHTTP.SessionMiddleware(sessions, logger))
	if cfg.RateLimitEnabled {
		authenticated.Use(authHTTP.RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	authenticated.DELETE("/sessions", sessionHandler.CloseSessionHandler)
	authenticated.POST("/secrets", secretHandler.DefineSecretHandler)
	authenticated.GET("/secrets", secretHandler.ListSecretsHandler)
	authenticated.GET("/secrets/lookup", secretHandler.LookupSecretHandler)
	authenticated.GET("/secrets/:uuid", secretHandler.GetSecretHandler)
	authenticated.DELETE("/secrets/:uuid", secretHandler.UndefineSecretHandler)
	authenticated.GET("/secrets/:uuid/xml", secretHandler.DescribeSecretHandler)
	authenticated.GET("/secrets/:uuid/value", secretHandler.GetValueHandler)
	authenticated.PUT("/secrets/:uuid/value", secretHandler.SetValueHandler)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the API server. Blocks until the server stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the API server. The readiness endpoint
// flips to 503 immediately so load balancers stop routing new work.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shuttingDown.Store(true)
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
