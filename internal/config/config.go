package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ModerationConfig holds the thresholds driving auto-hide and strike escalation.
type ModerationConfig struct {
	HideThreshold int           `env:"HIDE_THRESHOLD" envDefault:"5"`
	StrikeLimit   int           `env:"STRIKE_LIMIT" envDefault:"3"`
	BanDuration   time.Duration `env:"BAN_DURATION" envDefault:"168h"`
}

type Config struct {
	Environment    string        `env:"ENV" envDefault:"development"` // ENV: production, development, etc.
	Port           string        `env:"PORT" envDefault:"8080"`
	Host           string        `env:"HOST" envDefault:"http://localhost:8080"` // Raw HOST env (e.g. https://api.safespace.app)
	StoreDriver    string        `env:"STORE_DRIVER" envDefault:"postgres"`      // postgres or memory
	PostgresURI    string        `env:"POSTGRES_URI" envDefault:"postgres://localhost:5432/safespace?sslmode=disable"`
	MongoURI       string        `env:"MONGODB_URI"`
	RedisURI       string        `env:"REDIS_URI"`
	JWTSecret      string        `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"720h"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:","`

	FeedDefaultLimit int `env:"FEED_DEFAULT_LIMIT" envDefault:"20"`
	FeedMaxLimit     int `env:"FEED_MAX_LIMIT" envDefault:"50"`

	Moderation ModerationConfig `envPrefix:"MODERATION_"`

	// Audit log retention, only used when MONGODB_URI is set
	ViolationRetention       time.Duration `env:"VIOLATION_RETENTION" envDefault:"720h"`
	ViolationCleanupInterval time.Duration `env:"VIOLATION_CLEANUP_INTERVAL" envDefault:"24h"`

	AllowedHost string `env:"-"` // Hostname only for strict host check (production only)
}

const defaultJWTSecret = "your-secret-key-change-in-production"

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))

	// AllowedHost is only set in production; host check is skipped in development
	if cfg.IsProduction() {
		cfg.AllowedHost = hostname(cfg.Host)
	}

	cfg.AllowedOrigins = parseOrigins(cfg.AllowedOrigins)
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:3000"}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("STORE_DRIVER must be postgres or memory, got %q", c.StoreDriver)
	}
	if c.Moderation.HideThreshold < 1 {
		return errors.New("MODERATION_HIDE_THRESHOLD must be at least 1")
	}
	if c.Moderation.StrikeLimit < 1 {
		return errors.New("MODERATION_STRIKE_LIMIT must be at least 1")
	}
	if c.Moderation.BanDuration <= 0 {
		return errors.New("MODERATION_BAN_DURATION must be positive")
	}
	if c.ViolationRetention <= 0 || c.ViolationCleanupInterval <= 0 {
		return errors.New("VIOLATION_RETENTION and VIOLATION_CLEANUP_INTERVAL must be positive")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.FeedDefaultLimit < 1 || c.FeedMaxLimit < c.FeedDefaultLimit {
		return errors.New("FEED_DEFAULT_LIMIT must be at least 1 and not exceed FEED_MAX_LIMIT")
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set in production")
	}
	return nil
}

// hostname strips scheme, path and port from a HOST value.
func hostname(host string) string {
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

func parseOrigins(in []string) []string {
	var out []string
	for _, part := range in {
		part = strings.TrimSpace(part)
		if part != "" && !containsOrigin(out, part) {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}
