package configs

import (
	"errors"
	"os"
	"strings"
)

// DefaultJWTSecret is the development signing key. Production refuses it.
const DefaultJWTSecret = "default-secret-change-in-production"

// ErrInsecureJWTSecret is returned by Validate when production runs on the default signing key
var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value in production")

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Market   MarketConfig
	Log      LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port        string
	Env         string
	MetricsAddr string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// AuthConfig holds admin authentication configuration
type AuthConfig struct {
	JWTSecret     string
	AdminUsername string
	AdminPassword string
}

// MarketConfig holds market-hours configuration
type MarketConfig struct {
	// HoursFile overrides the embedded schedule when set
	HoursFile string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Env:         getEnv("GO_ENV", "development"),
			MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
			AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		Market: MarketConfig{
			HoursFile: getEnv("MARKET_HOURS_FILE", ""),
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
	}
}

// IsProduction reports whether GO_ENV is production
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate rejects settings that are unsafe for the configured environment
func (c *Config) Validate() error {
	if c.IsProduction() && (c.Auth.JWTSecret == "" || c.Auth.JWTSecret == DefaultJWTSecret) {
		return ErrInsecureJWTSecret
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
