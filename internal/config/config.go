package config

import (
	"os"
	"strconv"

	"gobayes/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Prior    PriorConfig
	Compare  CompareConfig
}

// DatabaseConfig holds database connection settings. An empty URL disables
// persistence; the service then runs compute-only.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// PriorConfig holds the default shared prior pseudo-counts. These are only
// defaults for requests that omit a prior; every comparison carries its own
// prior value, never a process-wide constant.
type PriorConfig struct {
	Alpha float64
	Beta  float64
}

// CompareConfig holds defaults for strategy parameters and batch workers
type CompareConfig struct {
	Draws   int
	Step    float64
	Workers int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: envOr("PORT", "8080"),
		},
		Prior: PriorConfig{
			Alpha: envFloat("PRIOR_ALPHA", 1.0),
			Beta:  envFloat("PRIOR_BETA", 1.0),
		},
		Compare: CompareConfig{
			Draws:   envInt("COMPARE_DRAWS", 100_000),
			Step:    envFloat("COMPARE_STEP", 0.001),
			Workers: envInt("COMPARE_WORKERS", 4),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Prior.Alpha <= 0 || cfg.Prior.Beta <= 0 {
		return errors.ConfigInvalid("PRIOR_ALPHA and PRIOR_BETA must be positive")
	}
	if cfg.Compare.Draws <= 0 {
		return errors.ConfigInvalid("COMPARE_DRAWS must be positive")
	}
	if cfg.Compare.Step <= 0 || cfg.Compare.Step >= 1 {
		return errors.ConfigInvalid("COMPARE_STEP must be in (0, 1)")
	}
	if cfg.Compare.Workers <= 0 {
		return errors.ConfigInvalid("COMPARE_WORKERS must be positive")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
