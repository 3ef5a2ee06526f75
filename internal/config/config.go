// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server binary needs at startup. The storage
// handle, token secret, and port all arrive here and are injected down the
// stack explicitly; nothing reads the environment after startup.
type Config struct {
	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the SQLite database file. Parent directories are created.
	DBPath string `env:"DB_PATH" envDefault:"./data/tripmate.db"`

	// JWTSecret signs credential tokens. Required.
	JWTSecret string `env:"JWT_SECRET,notEmpty"`

	// TokenTTL bounds token lifetime. Zero (the default) issues unbounded
	// tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// FromEnv parses the configuration from environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
