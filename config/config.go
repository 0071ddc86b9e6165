// Package config handles loading and validation of application configuration
// from environment variables and an optional YAML configuration file.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/NomadCrew/feedback-service/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	// DefaultPort is the listen port when PORT is not set.
	DefaultPort = "3001"
	// DefaultDBPath is the SQLite file used when DB_PATH is not set,
	// resolved against the working directory.
	DefaultDBPath = "data/feedback.db"
	// DefaultBusyTimeoutMS bounds how long a writer waits on a locked database.
	DefaultBusyTimeoutMS = 4000
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	ServiceName    string      `mapstructure:"SERVICE_NAME" yaml:"service_name"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	// TrustedProxies is a list of CIDR ranges or IPs of trusted reverse proxies.
	// If empty, X-Forwarded-For headers are ignored entirely.
	TrustedProxies         []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
	ShutdownTimeoutSeconds int      `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

// DatabaseConfig holds the SQLite store settings.
type DatabaseConfig struct {
	Path          string `mapstructure:"PATH" yaml:"path"`
	BusyTimeoutMS int    `mapstructure:"BUSY_TIMEOUT_MS" yaml:"busy_timeout_ms"`
	AutoMigrate   bool   `mapstructure:"AUTO_MIGRATE" yaml:"auto_migrate"`
}

// RateLimitConfig holds configuration for submission rate limiting.
type RateLimitConfig struct {
	// SubmissionsPerMinute is the per-client budget for POST /api/feedback. 0 disables limiting.
	SubmissionsPerMinute int `mapstructure:"SUBMISSIONS_PER_MINUTE" yaml:"submissions_per_minute"`
	// Burst is the number of submissions allowed back to back.
	Burst int `mapstructure:"BURST" yaml:"burst"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig    `mapstructure:"SERVER" yaml:"server"`
	Database  DatabaseConfig  `mapstructure:"DATABASE" yaml:"database"`
	RateLimit RateLimitConfig `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", DefaultPort)
	v.SetDefault("SERVER.SERVICE_NAME", "feedback-api")
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("SERVER.SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("DATABASE.PATH", DefaultDBPath)
	v.SetDefault("DATABASE.BUSY_TIMEOUT_MS", DefaultBusyTimeoutMS)
	v.SetDefault("DATABASE.AUTO_MIGRATE", true)
	v.SetDefault("RATE_LIMIT.SUBMISSIONS_PER_MINUTE", 0)
	v.SetDefault("RATE_LIMIT.BURST", 5)
}

// LoadConfig loads configuration from environment variables using Viper.
// If CONFIG_FILE is set, that YAML file is read first and environment
// variables override it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.SERVICE_NAME", "SERVICE_NAME"},
		{"SERVER.VERSION", "VERSION"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
		{"SERVER.SHUTDOWN_TIMEOUT_SECONDS", "SHUTDOWN_TIMEOUT_SECONDS"},
		{"DATABASE.PATH", "DB_PATH"},
		{"DATABASE.BUSY_TIMEOUT_MS", "DB_BUSY_TIMEOUT_MS"},
		{"DATABASE.AUTO_MIGRATE", "DB_AUTO_MIGRATE"},
		{"RATE_LIMIT.SUBMISSIONS_PER_MINUTE", "RATE_LIMIT_SUBMISSIONS_PER_MINUTE"},
		{"RATE_LIMIT.BURST", "RATE_LIMIT_BURST"},
	}
	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Infow("Configuration loaded",
		"environment", cfg.Server.Environment,
		"server_port", cfg.Server.Port,
		"db_path", cfg.Database.Path,
		"db_busy_timeout_ms", cfg.Database.BusyTimeoutMS,
		"allowed_origins", cfg.Server.AllowedOrigins,
		"submission_rate_limit", cfg.RateLimit.SubmissionsPerMinute,
	)
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	switch cfg.Server.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", cfg.Server.Environment)
	}
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.Server.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}
	if cfg.Server.ShutdownTimeoutSeconds <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}

	if strings.TrimSpace(cfg.Database.Path) == "" {
		return fmt.Errorf("database path is required")
	}
	if cfg.Database.BusyTimeoutMS < 0 {
		return fmt.Errorf("database busy timeout must not be negative")
	}

	if cfg.RateLimit.SubmissionsPerMinute < 0 {
		return fmt.Errorf("rate limit submissions per minute must not be negative")
	}
	if cfg.RateLimit.SubmissionsPerMinute > 0 && cfg.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit burst must be positive when limiting is enabled")
	}

	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
