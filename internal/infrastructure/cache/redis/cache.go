// Package redis provides the optional render/export result cache backed by
// Redis.  Cached values are encoded artifacts (SVG, STL, glTF bytes) keyed by
// a content hash of the request; entries are immutable, so no invalidation
// protocol is needed beyond TTL expiry.
package redis

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/gemmology-dev/crystal-api/internal/infrastructure/monitoring/logging"
	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// Config holds Redis connection parameters.
type Config struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// Cache is the artifact-cache contract used by the pipeline service.
// Implementations must be safe for concurrent use.
type Cache interface {
	// GetOrCompute returns the cached value for key, or runs compute, stores
	// its result, and returns it.  hit reports whether the value came from
	// the cache.  The Redis implementation collapses concurrent misses for
	// the same key to a single compute invocation; the pass-through cache
	// computes on every call.
	GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) ([]byte, error)) (value []byte, hit bool, err error)

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}

type redisCache struct {
	rdb        *redis.Client
	log        logging.Logger
	prefix     string
	defaultTTL time.Duration
	group      singleflight.Group
}

// New connects to Redis and returns a Cache.  The connection is verified
// with a ping so misconfiguration surfaces at startup.
func New(ctx context.Context, cfg Config, log logging.Logger) (Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeCacheError, "failed to connect to redis")
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "crystal:"
	}
	ttl := cfg.DefaultTTL
	if ttl == 0 {
		ttl = 15 * time.Minute
	}
	return &redisCache{rdb: rdb, log: log, prefix: prefix, defaultTTL: ttl}, nil
}

func (c *redisCache) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	full := c.prefix + key

	data, err := c.rdb.Get(ctx, full).Bytes()
	if err == nil {
		return data, true, nil
	}
	if err != redis.Nil {
		// Cache trouble degrades to direct computation.
		c.log.Warn("redis get failed, computing directly", logging.String("key", full), logging.Err(err))
		v, cerr := compute(ctx)
		return v, false, cerr
	}

	v, err, _ := c.group.Do(full, func() (interface{}, error) {
		// Another goroutine may have populated the key while we queued.
		if data, err := c.rdb.Get(ctx, full).Bytes(); err == nil {
			return data, nil
		}
		out, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := c.rdb.Set(ctx, full, out, c.jitterTTL(c.defaultTTL)).Err(); err != nil {
			c.log.Warn("redis set failed", logging.String("key", full), logging.Err(err))
		}
		return out, nil
	})
	if err != nil {
		return nil, false, err
	}
	return v.([]byte), false, nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.CodeCacheError, "redis ping failed")
	}
	return nil
}

// jitterTTL spreads expiry by ±10% so a burst of identical requests does not
// expire as one thundering herd.
func (c *redisCache) jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return 0
	}
	jitter := time.Duration(float64(ttl) * 0.1 * (rand.Float64()*2 - 1))
	return ttl + jitter
}

// nopCache always computes; used when no Redis is configured.
type nopCache struct{}

func (nopCache) GetOrCompute(ctx context.Context, _ string, compute func(ctx context.Context) ([]byte, error)) ([]byte, bool, error) {
	v, err := compute(ctx)
	return v, false, err
}

func (nopCache) Ping(context.Context) error { return nil }

// NewNop returns a pass-through Cache for deployments without Redis.
func NewNop() Cache { return nopCache{} }
