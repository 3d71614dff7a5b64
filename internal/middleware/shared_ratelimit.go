package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/rs/zerolog"
)

// Allower is the part of *redis_rate.Limiter the shared limiter needs.
type Allower interface {
	Allow(ctx context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error)
}

const rateLimitKeyPrefix = "interiorai:ratelimit:"

// SharedRateLimit enforces limit requests per client per minute through redis
// so every proxy replica draws on one budget. While redis is unreachable each
// request is judged by an in-process window instead.
func SharedRateLimit(limiter Allower, limit int, logger zerolog.Logger) func(http.Handler) http.Handler {
	local := RateLimit(limit, time.Minute)
	policy := redis_rate.PerMinute(limit)

	return func(next http.Handler) http.Handler {
		fallback := local(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), rateLimitKeyPrefix+clientIP(r), policy)
			if err != nil {
				logger.Warn().Err(err).Msg("shared rate limiter unavailable, using local window")
				fallback.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			if res.Allowed == 0 {
				retry := max(int(math.Ceil(res.RetryAfter.Seconds())), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retry))
				writeError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
