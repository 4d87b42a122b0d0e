package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all application configuration
type Config struct {
	// Environment name ("development" enables pretty logs)
	Env string `env:"ENV" envDefault:"production"`

	// Server configuration
	Server ServerConfig

	// Upstream magazine feed
	Upstream UpstreamConfig

	// Genre catalog
	Catalog CatalogConfig

	// Deadline presentation and windowing
	Display DisplayConfig

	// Digest archive
	Archive ArchiveConfig

	// Database configuration (used only when the archive is enabled)
	Database DatabaseConfig

	// Per-client rate limiting
	RateLimit RateLimitConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// UpstreamConfig points at the service that returns the raw magazine list
type UpstreamConfig struct {
	URL     string        `env:"UPSTREAM_URL"`
	Timeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"15s"`

	// LegacyURL is the variable name used by earlier deployments
	LegacyURL string `env:"JSON_API_URL"`
}

// CatalogConfig locates the genre catalog. An empty path selects the
// catalog compiled into the binary.
type CatalogConfig struct {
	Path string `env:"GENRE_CATALOG_PATH"`
}

// DisplayConfig controls windowing and date presentation
type DisplayConfig struct {
	Locale         string `env:"DISPLAY_LOCALE" envDefault:"en-US"`
	Timezone       string `env:"DISPLAY_TIMEZONE"`
	DeadlinePolicy string `env:"DEADLINE_POLICY" envDefault:"first"`
}

// ArchiveConfig holds digest archive settings
type ArchiveConfig struct {
	Enabled          bool          `env:"ARCHIVE_ENABLED" envDefault:"false"`
	ScheduleInterval time.Duration `env:"ARCHIVE_SCHEDULE_INTERVAL" envDefault:"0s"`
	MigrationsPath   string        `env:"MIGRATIONS_PATH" envDefault:"./migrations"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string        `env:"DB_HOST" envDefault:"localhost"`
	Port         string        `env:"DB_PORT" envDefault:"5432"`
	User         string        `env:"DB_USER" envDefault:"postgres"`
	Password     string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name         string        `env:"DB_NAME" envDefault:"submission_digest"`
	SSLMode      string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"2"`
	MaxLifetime  time.Duration `env:"DB_MAX_LIFETIME" envDefault:"5m"`
}

// RateLimitConfig holds the token bucket applied per client IP. RPS 0
// disables limiting.
type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.Upstream.URL == "" {
		cfg.Upstream.URL = cfg.Upstream.LegacyURL
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Display.DeadlinePolicy {
	case "first", "earliest":
	default:
		return fmt.Errorf("DEADLINE_POLICY must be one of: first, earliest")
	}
	if _, err := c.Display.Location(); err != nil {
		return fmt.Errorf("DISPLAY_TIMEZONE is invalid: %w", err)
	}
	if c.RateLimit.RPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must not be negative")
	}
	if c.RateLimit.Enabled() && c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive when rate limiting is enabled")
	}
	if c.Archive.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when ARCHIVE_ENABLED is set")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required when ARCHIVE_ENABLED is set")
		}
	}
	return nil
}

// Enabled reports whether requests are rate limited
func (r RateLimitConfig) Enabled() bool {
	return r.RPS > 0
}

// IsDevelopment reports whether the server runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location resolves the display timezone. An empty value means the
// process-local zone, so calendar days follow the host running the service.
func (d DisplayConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(d.Timezone)
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
