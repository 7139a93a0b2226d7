package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/md-rashed-zaman/ambersite/libs/config"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"site-service"`
	Port        string `env:"PORT" envDefault:"8080"`
	// GRPCPort serves the gRPC health service; "off" disables it.
	GRPCPort string `env:"GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StoreDriver string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL string `env:"DATABASE_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"site.db"`
	SeedData    bool   `env:"SEED_DATA" envDefault:"true"`

	RedisAddr          string `env:"REDIS_ADDR"`
	RedisPassword      string `env:"REDIS_PASSWORD"`
	RedisDB            int    `env:"REDIS_DB" envDefault:"0"`
	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	RateLimitFailOpen  bool   `env:"RATE_LIMIT_FAIL_OPEN" envDefault:"true"`

	KafkaBrokers string `env:"KAFKA_BROKERS"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort string `env:"SMTP_PORT" envDefault:"1025"`
	SMTPFrom string `env:"SMTP_FROM" envDefault:"no-reply@ambersolutions.pk"`

	CORSAllowedOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	RequestBodyLimitBytes int64    `env:"REQUEST_BODY_LIMIT_BYTES" envDefault:"1048576"`
	RequestTimeoutSeconds int      `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"10"`
}

func loadConfig() (Config, error) {
	if err := config.LoadDotenv(".env"); err != nil {
		return Config{}, err
	}
	cfg, err := config.Parse[Config]()
	if err != nil {
		return Config{}, err
	}
	if cfg.Port, err = config.ValidPort("PORT", cfg.Port); err != nil {
		return Config{}, err
	}
	if cfg.grpcEnabled() {
		if cfg.GRPCPort, err = config.ValidPort("GRPC_PORT", cfg.GRPCPort); err != nil {
			return Config{}, err
		}
	}
	if cfg.RateLimitPerMinute <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", cfg.RateLimitPerMinute)
	}
	if cfg.RequestBodyLimitBytes <= 0 {
		cfg.RequestBodyLimitBytes = 1 << 20
	}
	if cfg.RequestTimeoutSeconds <= 0 {
		cfg.RequestTimeoutSeconds = 10
	}
	return cfg, nil
}

func (c Config) grpcEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(c.GRPCPort))
	return v != "" && v != "off"
}

func (c Config) requestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c Config) kafkaBrokers() []string {
	return config.List(c.KafkaBrokers)
}
