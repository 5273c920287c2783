package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/hlog"

	"github.com/AnshRaj112/safespace-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the fixed window the shared counter covers.
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the number of writes allowed per window across all instances.
	RateLimitMaxRequests = 60
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedKeyPrefix is the Redis key prefix for blocked callers
	BlockedKeyPrefix = "blocked:"
	// BlockedDuration is how long a caller stays blocked after exceeding the limit twice over.
	BlockedDuration = 15 * time.Minute

	redisLimitTimeout = 500 * time.Millisecond
)

// RedisRateLimit counts mutating requests per caller in a Redis fixed window so
// the limit holds across instances. Callers that exceed twice the limit are
// blocked for BlockedDuration. Redis failures let the request through.
func RedisRateLimit(client redis.Cmdable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || !isWrite(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), redisLimitTimeout)
			defer cancel()

			caller := redisCaller(r)
			blockedKey := BlockedKeyPrefix + caller
			isBlocked, err := client.Exists(ctx, blockedKey).Result()
			if err == nil && isBlocked > 0 {
				writeJSONError(w, http.StatusTooManyRequests, "You have been temporarily blocked due to excessive requests. Please try again later.")
				return
			}

			count, err := incrWindow(ctx, client, RateLimitKeyPrefix+caller)
			if err != nil {
				hlog.FromRequest(r).Warn().Err(err).Msg("redis rate limit unavailable")
				next.ServeHTTP(w, r)
				return
			}

			if count > RateLimitMaxRequests {
				if count > 2*RateLimitMaxRequests {
					if err := client.Set(ctx, blockedKey, "1", BlockedDuration).Err(); err != nil {
						hlog.FromRequest(r).Warn().Err(err).Msg("failed to block caller")
					}
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(RateLimitWindow.Seconds())))
				writeJSONError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(RateLimitMaxRequests-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}

// incrWindow bumps the counter and starts the window on the first hit.
func incrWindow(ctx context.Context, client redis.Cmdable, key string) (int64, error) {
	var incr *redis.IntCmd
	_, err := client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, RateLimitWindow)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

func redisCaller(r *http.Request) string {
	if account := AccountFrom(r.Context()); account != nil {
		return "account:" + account.ID.String()
	}
	return "ip:" + clientip.RateLimitKey(r)
}
