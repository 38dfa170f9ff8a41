package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	AccidentsSource string // path or URL of the state-month accident CSV
	StatesSource    string // path or URL of the state boundary GeoJSON
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	LoadTimeout     time.Duration
	DefaultState    string // initially selected state code
	Watch           bool   // reload the dataset when the source files change
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	// Optional; absence is the normal production case.
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	loadTimeout, err := parseDuration("LOAD_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AccidentsSource: envOrDefault("ACCIDENTS_CSV", "data/us_accidents_state_month.csv"),
		StatesSource:    envOrDefault("STATES_GEOJSON", "data/us_states.geojson"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		LoadTimeout:     loadTimeout,
		DefaultState:    strings.ToUpper(envOrDefault("DEFAULT_STATE", "CA")),
		Watch:           os.Getenv("WATCH") == "true",
	}

	if cfg.AccidentsSource == "" {
		return nil, errors.New("ACCIDENTS_CSV is required")
	}
	if cfg.StatesSource == "" {
		return nil, errors.New("STATES_GEOJSON is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
