package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/patient-analysis-server/internal/api"
	"github.com/patient-analysis-server/internal/config"
	"github.com/patient-analysis-server/internal/domain"
	"github.com/patient-analysis-server/internal/service"
	"github.com/patient-analysis-server/pkg/external"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := newLogger(cfg.Logging)

	clock := domain.SystemClock{}
	ids := domain.UUIDGenerator{}

	// Remote collaborators are built only when configured; absence means the
	// corresponding pipeline stage runs on local rules.
	var remote domain.RemoteClassifier
	if cfg.Classifier.Enabled() {
		remote = external.NewClassifierClient(cfg.Classifier, clock, logger)
	}

	var narrative domain.NarrativeGenerator
	if cfg.Narrative.Enabled() {
		narrative = external.NewNarrativeClient(cfg.Narrative, logger)
	}

	engine := service.NewRiskRuleEngine(logger)
	classifier := service.NewClassificationService(logger, remote, engine, clock)
	recommender := service.NewRecommendationService(logger, narrative, service.NewRecommendationAssembler(), clock)
	analysis := service.NewPatientAnalysisService(logger, classifier, recommender, clock, ids)

	logger.WithFields(logrus.Fields{
		"host":                cfg.Server.Host,
		"port":                cfg.Server.Port,
		"remote_classifier":   cfg.Classifier.Enabled(),
		"narrative_generator": cfg.Narrative.Enabled(),
	}).Info("Starting patient analysis server")

	// Create server
	server := api.NewServer(configManager, logger, analysis)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

// newLogger builds the application logger from the logging configuration.
func newLogger(cfg domain.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger
}
