package httpx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixedWindowHit counts one hit on KEYS[1] and returns {hits, window ms left}.
// The window starts with the first hit.
var fixedWindowHit = redis.NewScript(`
local hits = redis.call("INCR", KEYS[1])
if hits == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {hits, redis.call("PTTL", KEYS[1])}
`)

// RedisRateLimiter counts hits per client in Redis so every replica of the
// site shares one budget.
type RedisRateLimiter struct {
	rdb    redis.Scripter
	limit  int64
	window time.Duration
	prefix string
}

func NewRedisRateLimiter(rdb redis.Scripter, limit int, window time.Duration, prefix string) *RedisRateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	if prefix = strings.TrimSpace(prefix); prefix == "" {
		prefix = "rl"
	}
	return &RedisRateLimiter{rdb: rdb, limit: int64(limit), window: window, prefix: prefix}
}

// Middleware rejects clients over the limit with the time left in their
// window. If Redis fails, failOpen lets the request through; otherwise the
// request is answered 503.
func (rl *RedisRateLimiter) Middleware(logger *slog.Logger, failOpen bool) Middleware {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits, left, err := rl.hit(r.Context(), rl.prefix+":"+clientKey(r))
			switch {
			case err != nil && failOpen:
				logger.Warn("rate limiter unavailable, allowing request", "err", err)
				next.ServeHTTP(w, r)
			case err != nil:
				logger.Error("rate limiter unavailable, rejecting request", "err", err)
				WriteError(w, http.StatusServiceUnavailable, "rate limiter unavailable")
			case hits > rl.limit:
				rejectRateLimited(w, left)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func (rl *RedisRateLimiter) hit(ctx context.Context, key string) (int64, time.Duration, error) {
	reply, err := fixedWindowHit.Run(ctx, rl.rdb, []string{key}, rl.window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, 0, fmt.Errorf("rate limit script: %w", err)
	}
	if len(reply) != 2 {
		return 0, 0, fmt.Errorf("rate limit script: unexpected reply %v", reply)
	}
	left := time.Duration(reply[1]) * time.Millisecond
	if left <= 0 {
		// PTTL is negative when the key has no expiry.
		left = rl.window
	}
	return reply[0], left, nil
}

func RedisReadyCheck(rdb *redis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		if rdb == nil {
			return errors.New("redis not configured")
		}
		return rdb.Ping(ctx).Err()
	}
}
