package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all service configuration. Values come from RIPPLE_-prefixed
// environment variables, optionally seeded from a .env file.
type Config struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"ripple"`
	DBPassword string `envconfig:"DB_PASSWORD" default:"ripple_dev_password"`
	DBName     string `envconfig:"DB_NAME" default:"ripple"`

	ValkeyAddr string `envconfig:"VALKEY_ADDR" default:"localhost:6379"`

	JWTSecret string `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`

	// Rate limit for auth endpoints: max requests per window.
	AuthRateLimit  int `envconfig:"AUTH_RATE_LIMIT" default:"100"`
	AuthRateWindow int `envconfig:"AUTH_RATE_WINDOW_SECONDS" default:"900"`
}

// Load reads .env (if present) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("ripple", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
