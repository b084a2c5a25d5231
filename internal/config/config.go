// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// Calendar store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds all server settings.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	NagerBaseURL        string        `env:"NAGER_BASE_URL" envDefault:"https://date.nager.at/api/v3" validate:"required,url"`
	CountriesNowBaseURL string        `env:"COUNTRIESNOW_BASE_URL" envDefault:"https://countriesnow.space/api/v0.1" validate:"required,url"`
	UpstreamTimeout     time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s" validate:"gt=0"`

	CalendarStore string `env:"CALENDAR_STORE" envDefault:"memory" validate:"oneof=memory redis"`
	RedisURL      string `env:"REDIS_URL" validate:"required_if=CalendarStore redis"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*" validate:"min=1"`
}

var validate = validator.New()

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
