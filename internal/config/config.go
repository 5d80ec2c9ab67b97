// Package config provides configuration management for the patient analysis
// server, layering defaults, an optional config file and environment
// variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/patient-analysis-server/internal/domain"
)

// Manager loads and holds the application configuration using Viper
type Manager struct {
	config *domain.Config
}

// NewManager creates a new configuration manager
func NewManager() (*Manager, error) {
	m := &Manager{}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	// Set configuration file name and paths
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/patient-analysis-server/")

	// Set environment variable prefix and enable automatic env binding
	viper.SetEnvPrefix("PATIENT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Set default values
	m.setDefaults()

	// Read configuration file (optional - defaults and env vars apply if not found)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Unmarshal configuration into struct
	config := &domain.Config{}
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.config = config
	return nil
}

// setDefaults sets default configuration values
func (m *Manager) setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8082)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")
	viper.SetDefault("server.cors_origins", []string{"*"})

	// Remote classifier defaults: no endpoint configured, local rules only
	viper.SetDefault("classifier.base_url", "")
	viper.SetDefault("classifier.timeout", "30s")

	// Narrative generator defaults: delegate absent
	viper.SetDefault("narrative.base_url", "")
	viper.SetDefault("narrative.api_key", "")
	viper.SetDefault("narrative.model", "gemini-2.0-flash")
	viper.SetDefault("narrative.timeout", "30s")

	// Rate limit defaults
	viper.SetDefault("rate_limit.requests_per_second", 50)
	viper.SetDefault("rate_limit.burst", 100)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

// Validate checks the loaded configuration for invalid values.
func (m *Manager) Validate() error {
	cfg := m.config

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Classifier.Timeout <= 0 {
		return fmt.Errorf("classifier timeout must be positive: %v", cfg.Classifier.Timeout)
	}
	if cfg.Narrative.Timeout <= 0 {
		return fmt.Errorf("narrative timeout must be positive: %v", cfg.Narrative.Timeout)
	}
	if cfg.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate limit must be positive: %v", cfg.RateLimit.RequestsPerSecond)
	}

	return nil
}

// GetConfig returns the full application configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns the HTTP server configuration
func (m *Manager) GetServerConfig() domain.ServerConfig {
	return m.config.Server
}

// GetClassifierConfig returns the remote classifier configuration
func (m *Manager) GetClassifierConfig() domain.ClassifierConfig {
	return m.config.Classifier
}

// GetNarrativeConfig returns the narrative generator configuration
func (m *Manager) GetNarrativeConfig() domain.NarrativeConfig {
	return m.config.Narrative
}
