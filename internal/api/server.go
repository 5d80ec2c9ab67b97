// Package api provides the HTTP transport for the patient analysis server.
// It is a thin layer over the analysis pipeline: request shaping, status-code
// mapping and operational endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/patient-analysis-server/internal/config"
	"github.com/patient-analysis-server/internal/domain"
	"github.com/patient-analysis-server/internal/service"
)

// Server represents the HTTP server
type Server struct {
	configManager *config.Manager
	logger        *logrus.Logger
	analysis      *service.PatientAnalysisService
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(configManager *config.Manager, logger *logrus.Logger, analysis *service.PatientAnalysisService) *Server {
	cfg := configManager.GetConfig()

	// Set Gin mode based on log level
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware(domain.UUIDGenerator{}))
	router.Use(requestLoggingMiddleware(logger))
	router.Use(corsMiddleware(cfg.Server.CORSOrigins))
	router.Use(rateLimitMiddleware(rate.NewLimiter(
		rate.Limit(cfg.RateLimit.RequestsPerSecond),
		cfg.RateLimit.Burst,
	)))

	server := &Server{
		configManager: configManager,
		logger:        logger,
		analysis:      analysis,
		router:        router,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	cfg := s.configManager.GetServerConfig()
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/health/ready", s.handleReadiness)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/patient/analyze", s.handleAnalyze)
	}
}
