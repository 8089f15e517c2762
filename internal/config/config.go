package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr   string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath     string     `env:"DB_PATH" envDefault:"data/agentquest.db"`
	LogLevel   slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	CORSOrigin string     `env:"CORS_ORIGIN" envDefault:"*"`
	SPADir     string     `env:"SPA_DIR" envDefault:""`

	// Optional static API key gating the /api/leads endpoints.
	// Empty means the lead endpoints are open.
	APIKey string `env:"API_KEY"`

	// Admin credentials. AdminPasswordHash (bcrypt) wins over the plain
	// AdminPassword when both are set.
	AdminUsername     string `env:"ADMIN_USERNAME"`
	AdminPassword     string `env:"ADMIN_PASSWORD"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	// When set, admin sessions live in Redis with native TTL expiry
	// instead of the in-process map.
	RedisURL   string        `env:"REDIS_URL"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
