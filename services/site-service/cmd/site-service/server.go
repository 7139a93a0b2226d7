package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/ambersite/libs/httpx"
	"github.com/md-rashed-zaman/ambersite/libs/runtime"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/handlers"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// rateLimiter limits form submissions per client, shared through Redis when
// a client is given and per process otherwise.
func rateLimiter(cfg Config, rdb *redis.Client, logger *slog.Logger) httpx.Middleware {
	if rdb != nil {
		rl := httpx.NewRedisRateLimiter(rdb, cfg.RateLimitPerMinute, time.Minute, "site:rl")
		logger.Info("rate limiting enabled (redis)", "per_minute", cfg.RateLimitPerMinute, "redis_addr", cfg.RedisAddr)
		return rl.Middleware(logger, cfg.RateLimitFailOpen)
	}
	logger.Info("rate limiting enabled (in-memory)", "per_minute", cfg.RateLimitPerMinute)
	return httpx.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute).Middleware()
}

// newHTTPHandler mounts the API, health and metrics routes and wraps them in
// the middleware stack. Only POSTs are rate limited.
func newHTTPHandler(cfg Config, logger *slog.Logger, api *handlers.Handler, limit httpx.Middleware, checks ...runtime.ReadyCheck) http.Handler {
	mux := runtime.NewBaseMuxWithReady(checks...)
	mux.Handle("GET /metrics", metrics.Handler())
	api.Register(mux)

	handler := httpx.Chain(mux,
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			MaxAge:         10 * time.Minute,
		}),
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithBodyLimit(cfg.RequestBodyLimitBytes),
		httpx.WithTimeout(cfg.requestTimeout()),
		httpx.ForMethods(limit, http.MethodPost),
	)
	return otelhttp.NewHandler(handler, "site")
}
