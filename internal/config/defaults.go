package config

import "time"

// Default value constants.
const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "release"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultMaxBodySize     = 64 << 10 // 64 KiB; CDL inputs are ≤ 5000 chars
	DefaultShutdownTimeout = 15 * time.Second

	DefaultRateLimitRPS   = 20.0
	DefaultRateLimitBurst = 40

	DefaultRedisAddr = "localhost:6379"
	DefaultCacheTTL  = 15 * time.Minute

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "crystal-artifacts"
	DefaultPresignExpiry = time.Hour

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the service default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling and before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// ── CORS ──────────────────────────────────────────────────────────────────
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Content-Type", "Authorization"}
	}
	if cfg.CORS.MaxAgeSeconds == 0 {
		cfg.CORS.MaxAgeSeconds = 600
	}

	// ── Rate limit ────────────────────────────────────────────────────────────
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = DefaultRateLimitRPS
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = DefaultRateLimitBurst
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Redis.Addr == "" {
		cfg.Cache.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Cache.Redis.DefaultTTL == 0 {
		cfg.Cache.Redis.DefaultTTL = DefaultCacheTTL
	}

	// ── Storage ───────────────────────────────────────────────────────────────
	if cfg.Storage.MinIO.Endpoint == "" {
		cfg.Storage.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.Storage.MinIO.Bucket == "" {
		cfg.Storage.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.Storage.MinIO.PresignExpiry == 0 {
		cfg.Storage.MinIO.PresignExpiry = DefaultPresignExpiry
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// NewDefaultConfig returns a Config populated entirely with defaults, used
// when no config file is present.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
