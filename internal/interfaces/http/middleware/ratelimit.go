package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gemmology-dev/crystal-api/pkg/errors"
)

// RateLimitConfig holds the per-client token-bucket settings.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// bucket is one client's token bucket.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.  Buckets idle longer
// than the eviction window are dropped to bound memory.
type RateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// evictAfter is how long an idle bucket survives before cleanup.
const evictAfter = 10 * time.Minute

// NewRateLimiter creates a RateLimiter with the given settings.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// allow consumes one token for key, refilling by elapsed time first.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, ok := rl.buckets[key]
	if !ok {
		if len(rl.buckets) > 4096 {
			rl.evictLocked(now)
		}
		b = &bucket{tokens: float64(rl.cfg.Burst)}
		rl.buckets[key] = b
	} else {
		elapsed := now.Sub(b.lastSeen).Seconds()
		b.tokens += elapsed * rl.cfg.RequestsPerSecond
		if max := float64(rl.cfg.Burst); b.tokens > max {
			b.tokens = max
		}
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) evictLocked(now time.Time) {
	for k, b := range rl.buckets {
		if now.Sub(b.lastSeen) > evictAfter {
			delete(rl.buckets, k)
		}
	}
}

// Handler returns the gin middleware enforcing the limit.
func (rl *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			err := errors.RateLimit("request rate limit exceeded")
			c.AbortWithStatusJSON(err.Code.HTTPStatus(), gin.H{"error": err.Message})
			return
		}
		c.Next()
	}
}
