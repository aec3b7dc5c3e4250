package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Session   SessionConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8090"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// SessionConfig holds terminal session configuration.
type SessionConfig struct {
	// BaseDir is the root for per-session artifact directories. Empty
	// selects the per-user default (~/.tui-tester/sessions).
	BaseDir       string        `envconfig:"SESSION_DIR" default:""`
	Rows          int           `envconfig:"SESSION_ROWS" default:"24"`
	Cols          int           `envconfig:"SESSION_COLS" default:"80"`
	SettleDelay   time.Duration `envconfig:"SESSION_SETTLE_DELAY" default:"500ms"`
	SweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"30s"`
	SweepEnabled  bool          `envconfig:"SESSION_SWEEP_ENABLED" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8090",
			Host: "0.0.0.0",
		},
		Session: SessionConfig{
			Rows:          24,
			Cols:          80,
			SettleDelay:   500 * time.Millisecond,
			SweepInterval: 30 * time.Second,
			SweepEnabled:  true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
