package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config validation errors
var (
	ErrInvalidEntities    = errors.New("entities must be positive")
	ErrInvalidIterations  = errors.New("iterations must be positive")
	ErrInvalidChurn       = errors.New("churn_percent must be in [0,100]")
	ErrInvalidPageSize    = errors.New("page_size must be positive")
	ErrInvalidMetricsAddr = errors.New("metrics_addr cannot be empty when metrics are enabled")
	ErrInvalidLogFormat   = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel    = errors.New("log_level must be debug, info, warn, or error")
)

// Config holds the benchmark run parameters. All fields can be set via
// MEMBENCH_* environment variables; a .env file in the working
// directory is honored when present.
type Config struct {
	Entities     int    `envconfig:"ENTITIES" default:"100000"`
	Iterations   int    `envconfig:"ITERATIONS" default:"100"`
	ChurnPercent int    `envconfig:"CHURN_PERCENT" default:"25"`
	PageSize     int    `envconfig:"PAGE_SIZE" default:"1024"`
	Metrics      bool   `envconfig:"METRICS" default:"false"`
	MetricsAddr  string `envconfig:"METRICS_ADDR" default:"0.0.0.0:9090"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"console"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads an optional .env file, then the MEMBENCH_*
// environment, and validates the result.
func LoadConfig() (Config, error) {
	// Missing .env is fine; a present but unreadable one is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process("membench", &cfg); err != nil {
		return Config{}, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.Entities <= 0 {
		return ErrInvalidEntities
	}
	if cfg.Iterations <= 0 {
		return ErrInvalidIterations
	}
	if cfg.ChurnPercent < 0 || cfg.ChurnPercent > 100 {
		return ErrInvalidChurn
	}
	if cfg.PageSize <= 0 {
		return ErrInvalidPageSize
	}
	if cfg.Metrics && cfg.MetricsAddr == "" {
		return ErrInvalidMetricsAddr
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	return nil
}
