package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"

	pkgredis "github.com/000000-cmd/SaasBack/pkg/redis"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Rate limit per second per client IP (0 = unlimited)
	RequestsPerSecond int
	// Token bucket capacity
	BurstSize int
	// Use Redis for distributed limiting; falls back to local when nil
	RedisClient *pkgredis.Client
	// Key prefix for Redis counters
	KeyPrefix string
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 1000,
		BurstSize:         100,
		KeyPrefix:         "ratelimit:",
	}
}

type bucket struct {
	tokens     float64
	lastUpdate time.Time
	mu         sync.Mutex
}

// localLimiterMaxEntries caps how many per-key buckets are kept before
// stale ones are swept
const localLimiterMaxEntries = 10000

// localLimiter implements an in-memory token bucket per key
type localLimiter struct {
	cfg        RateLimitConfig
	maxEntries int64
	entries    sync.Map
	size       atomic.Int64
}

func (rl *localLimiter) allow(key string) bool {
	now := time.Now()

	entry, loaded := rl.entries.LoadOrStore(key, &bucket{
		tokens:     float64(rl.cfg.BurstSize),
		lastUpdate: now,
	})
	if !loaded && rl.size.Add(1) > rl.maxEntries {
		rl.evict(now)
	}
	b := entry.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastUpdate).Seconds()
	b.tokens = min(float64(rl.cfg.BurstSize), b.tokens+elapsed*float64(rl.cfg.RequestsPerSecond))
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// evict drops buckets idle long enough to have refilled completely.
// An idle full bucket carries no state a fresh one would not.
func (rl *localLimiter) evict(now time.Time) {
	refill := time.Duration(float64(rl.cfg.BurstSize) / float64(rl.cfg.RequestsPerSecond) * float64(time.Second))
	idle := refill + time.Second

	rl.entries.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		stale := now.Sub(b.lastUpdate) > idle
		b.mu.Unlock()
		if stale {
			rl.entries.Delete(key)
			rl.size.Add(-1)
		}
		return true
	})
}

// RateLimiter returns a middleware enforcing a per-IP request rate.
// With a Redis client it uses a fixed one-second window shared across
// gateway instances; otherwise it keeps local token buckets.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.RequestsPerSecond <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit:"
	}

	local := &localLimiter{cfg: cfg, maxEntries: localLimiterMaxEntries}

	return func(c *gin.Context) {
		ip := c.ClientIP()

		allowed := true
		if cfg.RedisClient != nil {
			key := fmt.Sprintf("%s%s:%d", cfg.KeyPrefix, ip, time.Now().Unix())
			rdb := cfg.RedisClient.Client()
			count, err := rdb.Incr(c.Request.Context(), key).Result()
			if err == nil {
				if count == 1 {
					rdb.Expire(c.Request.Context(), key, 2*time.Second)
				}
				allowed = count <= int64(cfg.RequestsPerSecond)
			} else {
				// Redis down: degrade to local limiting rather than failing open fully
				allowed = local.allow(ip)
			}
		} else {
			allowed = local.allow(ip)
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   http.StatusText(http.StatusTooManyRequests),
				"message": "Rate limit exceeded",
				"status":  http.StatusTooManyRequests,
			})
			return
		}

		c.Next()
	}
}
