package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testhive/testhive-backend/internal/config"
	"github.com/testhive/testhive-backend/internal/response"
)

// RateLimiter is a Redis-backed fixed-window rate limiter keyed per user.
// Counters live in Redis so limits hold across replicas and survive
// restarts.
type RateLimiter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
	log    zerolog.Logger
}

// NewRateLimiter creates a rate limiter for one scope (e.g. "generate").
func NewRateLimiter(rdb *redis.Client, scope string, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		scope:  scope,
		limit:  limit,
		window: window,
		log:    log.With().Str("component", "rate_limiter").Str("scope", scope).Logger(),
	}
}

// Middleware returns a Gin middleware that rate-limits by authenticated
// user ID. It must run after an auth middleware; unauthenticated requests
// fall back to the client IP. A Redis outage fails open — losing a rate
// limit beats refusing every request.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := c.ClientIP()
		if claims := GetClaims(c); claims != nil {
			subject = claims.UserID.String()
		}
		key := config.CacheKey.RateLimitKey(rl.scope, subject)

		ctx := c.Request.Context()
		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			rl.log.Error().Err(err).Msg("Rate limit check failed, allowing request")
			c.Next()
			return
		}
		if count == 1 {
			if err := rl.rdb.Expire(ctx, key, rl.window).Err(); err != nil {
				rl.log.Error().Err(err).Msg("Failed to set rate limit window expiry")
			}
		}

		if count > int64(rl.limit) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}
