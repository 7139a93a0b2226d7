package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/md-rashed-zaman/ambersite/libs/httpx"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/handlers"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/storage"
)

func testConfig() Config {
	return Config{
		RateLimitPerMinute:    2,
		RequestBodyLimitBytes: 1 << 20,
		RequestTimeoutSeconds: 5,
		CORSAllowedOrigins:    []string{"https://ambersolutions.pk"},
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreDriver != storage.DriverMemory || !cfg.SeedData || cfg.RateLimitPerMinute != 30 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if !cfg.grpcEnabled() || cfg.SMTPFrom != "no-reply@ambersolutions.pk" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GRPC_PORT", "off")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.grpcEnabled() {
		t.Fatalf("grpc should be disabled")
	}
	if brokers := cfg.kafkaBrokers(); len(brokers) != 2 || brokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", brokers)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfigRejectsBadPort(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "99999")
	if _, err := loadConfig(); err == nil {
		t.Fatalf("expected error for invalid port")
	}
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	cfg := testConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	api := handlers.New(storage.NewMemory(), logger, nil, nil)
	limit := httpx.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute).Middleware()
	return newHTTPHandler(cfg, logger, api, limit)
}

func TestHandlerRateLimitsPostsOnly(t *testing.T) {
	h := newTestHandler(t)
	body := `{"name":"Ali","email":"ali@example.com","subject":"general","message":"hello"}`

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/contacts", strings.NewReader(body))
		req.RemoteAddr = "203.0.113.7:5000"
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusCreated || codes[1] != http.StatusCreated || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}

	for range 5 {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET should not be limited, got %d", rec.Code)
		}
	}
}

func TestHandlerServesHealthAndMetrics(t *testing.T) {
	h := newTestHandler(t)
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestHandlerSetsRequestIDAndCORS(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	req.Header.Set("Origin", "https://ambersolutions.pk")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(httpx.RequestIDHeader) == "" {
		t.Fatalf("expected request id header")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://ambersolutions.pk" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
