// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DevSessionKey is the session signing key used when SECRET_KEY is not set.
// It is rejected outside development.
const DevSessionKey = "dev_secret_key"

// ErrInsecureSessionKey is returned by Validate when production runs with the development key.
var ErrInsecureSessionKey = errors.New("SECRET_KEY must be set in production")

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"5000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// AWS
	AWSRegion  string `env:"AWS_REGION" envDefault:"us-east-1"`
	SecretName string `env:"SECRET_NAME" envDefault:"rewear-app-secret"`

	// Database (PostgreSQL). The password comes from the secret bundle.
	DBUser    string `env:"DB_USER" envDefault:"postgres"`
	DBHost    string `env:"DB_HOST" envDefault:"postgres"`
	DBName    string `env:"DB_NAME" envDefault:"rewear"`
	DBPort    int    `env:"DB_PORT" envDefault:"5432"`
	DBSSLMode string `env:"DB_SSLMODE" envDefault:"disable"`

	// Object storage. Endpoint and static keys are only for S3-compatible backends such as MinIO.
	S3Bucket    string `env:"S3_BUCKET" envDefault:"my-second-hand-clothes-storage"`
	S3Endpoint  string `env:"S3_ENDPOINT" envDefault:""`
	S3AccessKey string `env:"S3_ACCESS_KEY" envDefault:""`
	S3SecretKey string `env:"S3_SECRET_KEY" envDefault:""`

	// Session cookie signing key
	SessionKey string `env:"SECRET_KEY" envDefault:"dev_secret_key"`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DatabaseURL assembles the PostgreSQL connection string from the DB_* settings
// and the password fetched from the secret store.
func (c *Config) DatabaseURL(password string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, password),
		Host:   net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:   "/" + c.DBName,
	}
	if c.DBSSLMode != "" {
		q := url.Values{}
		q.Set("sslmode", c.DBSSLMode)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// Validate checks settings that cannot be expressed as env tags.
func (c *Config) Validate() error {
	if c.IsProduction() && c.SessionKey == DevSessionKey {
		return ErrInsecureSessionKey
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("MAX_REQUEST_BODY_SIZE must be positive, got %d", c.MaxRequestBodySize)
	}
	return nil
}

// Load parses environment variables and returns a Config.
// A .env file in the working directory is applied first when present;
// variables already set in the environment win.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
