package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration.
type Config struct {
	ServerPort          int           `env:"PORT" envDefault:"8080"`
	DatabasePath        string        `env:"DATABASE_PATH" envDefault:"./scribble.db"`
	JWTSecret           string        `env:"JWT_SECRET" envDefault:"dev"`
	SessionTTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	Environment         string        `env:"APP_ENV" envDefault:"development"`
	MaintenanceSchedule string        `env:"MAINTENANCE_SCHEDULE" envDefault:"0 4 * * *"`
	AllowedOrigins      []string      `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Production reports whether the app runs with production settings,
// which controls the Secure flag on session cookies.
func (c *Config) Production() bool {
	return c.Environment == "production"
}
