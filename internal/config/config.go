// Package config loads runtime settings from a YAML file, GEODE_ environment variables and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/napolitain/solver-geode/internal/solver"
	"github.com/napolitain/solver-geode/internal/solver/geode"
)

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Solver   SolverConfig   `mapstructure:"solver"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SolverConfig holds search and scoring settings
type SolverConfig struct {
	Horizon         int           `mapstructure:"horizon" validate:"min=0,max=1024"`
	ExtendedHorizon int           `mapstructure:"extended_horizon" validate:"min=0,max=1024"`
	TopCount        int           `mapstructure:"top_count" validate:"min=1"`
	Workers         int           `mapstructure:"workers" validate:"min=1"`
	Timeout         time.Duration `mapstructure:"timeout"`
	Dominance       string        `mapstructure:"dominance" validate:"oneof=latest best off"`
	Bound           bool          `mapstructure:"bound"`
}

// ServerConfig holds gRPC server settings
type ServerConfig struct {
	Port      int             `mapstructure:"port" validate:"min=1,max=65535"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig bounds incoming requests per second
type RateLimitConfig struct {
	Requests int `mapstructure:"requests" validate:"min=1"`
	Burst    int `mapstructure:"burst" validate:"min=1"`
}

// DatabaseConfig holds result cache connection configuration
type DatabaseConfig struct {
	// Enabled turns on result caching
	Enabled bool `mapstructure:"enabled"`

	// Connection type: "postgres" or "sqlite"
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// Full connection URL (takes precedence over individual fields)
	URL string `mapstructure:"url"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// SQLite file, ":memory:" for a throwaway cache
	Path string `mapstructure:"path"`
}

// MetricsConfig holds Prometheus endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1024,max=65535"`
	Host    string `mapstructure:"host"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig controls console verbosity
type LoggingConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// LoadConfig loads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func LoadConfig(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/geode")
	}

	v.SetEnvPrefix("GEODE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	registerDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadConfigOrDefault loads configuration or returns the defaults on error
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Default()
	}
	return cfg
}

// SolverSettings maps the solver section onto evaluator settings
func (c *Config) SolverSettings() (solver.Settings, error) {
	mode, err := geode.ParseDominanceMode(c.Solver.Dominance)
	if err != nil {
		return solver.Settings{}, err
	}
	return solver.Settings{
		Horizon:         c.Solver.Horizon,
		ExtendedHorizon: c.Solver.ExtendedHorizon,
		TopCount:        c.Solver.TopCount,
		Workers:         c.Solver.Workers,
		Timeout:         c.Solver.Timeout,
		Dominance:       mode,
		Bound:           c.Solver.Bound,
	}, nil
}

// MetricsAddr is the host:port the metrics endpoint listens on
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.Metrics.Host, c.Metrics.Port)
}
