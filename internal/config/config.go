// Package config defines all configuration structures for crystal-api.
// No I/O or parsing logic lives here — only plain data types and validation.
package config

import (
	"fmt"
	"time"

	cacheredis "github.com/gemmology-dev/crystal-api/internal/infrastructure/cache/redis"
	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
	storageminio "github.com/gemmology-dev/crystal-api/internal/infrastructure/storage/minio"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CORSConfig holds cross-origin settings for the public API.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAgeSeconds  int      `mapstructure:"max_age_seconds"`
}

// RateLimitConfig holds the per-client token-bucket settings.
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// CacheConfig wraps the Redis settings; Enabled false leaves the service on
// the pass-through cache.
type CacheConfig struct {
	Enabled bool              `mapstructure:"enabled"`
	Redis   cacheredis.Config `mapstructure:"redis"`
}

// StorageConfig wraps the MinIO artifact-store settings; Enabled false
// disables artifact uploads entirely.
type StorageConfig struct {
	Enabled bool                `mapstructure:"enabled"`
	MinIO   storageminio.Config `mapstructure:"minio"`
}

// Config is the root configuration structure for the service.
type Config struct {
	Server    ServerConfig      `mapstructure:"server"`
	CORS      CORSConfig        `mapstructure:"cors"`
	RateLimit RateLimitConfig   `mapstructure:"rate_limit"`
	Cache     CacheConfig       `mapstructure:"cache"`
	Storage   StorageConfig     `mapstructure:"storage"`
	Log       logging.LogConfig `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the service.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}
	if c.Server.MaxBodySize < 1 {
		return fmt.Errorf("config: server.max_body_size must be ≥ 1, got %d", c.Server.MaxBodySize)
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("config: rate_limit.requests_per_second must be > 0, got %g", c.RateLimit.RequestsPerSecond)
		}
		if c.RateLimit.Burst < 1 {
			return fmt.Errorf("config: rate_limit.burst must be ≥ 1, got %d", c.RateLimit.Burst)
		}
	}

	if c.Cache.Enabled && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("config: cache.redis.addr is required when cache is enabled")
	}

	if c.Storage.Enabled {
		if c.Storage.MinIO.Endpoint == "" {
			return fmt.Errorf("config: storage.minio.endpoint is required when storage is enabled")
		}
		if c.Storage.MinIO.Bucket == "" {
			return fmt.Errorf("config: storage.minio.bucket is required when storage is enabled")
		}
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
