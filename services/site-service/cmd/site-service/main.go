package main

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/md-rashed-zaman/ambersite/libs/httpx"
	"github.com/md-rashed-zaman/ambersite/libs/kafkax"
	otelx "github.com/md-rashed-zaman/ambersite/libs/otel"
	"github.com/md-rashed-zaman/ambersite/libs/runtime"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/events"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/handlers"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/health"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/metrics"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/notify"
	"github.com/md-rashed-zaman/ambersite/services/site-service/internal/storage"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(cfg.ServiceName, cfg.LogLevel)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(cfg.ServiceName))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	store, err := storage.Open(ctx, storage.Options{
		Driver:      cfg.StoreDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
		Seed:        cfg.SeedData,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("store open failed", "driver", cfg.StoreDriver, "err", err)
		panic(err)
	}
	defer func() { _ = store.Close() }()
	logger.Info("store ready", "driver", cfg.StoreDriver)

	checks := []runtime.ReadyCheck{{Name: "store", Check: store.Ping}}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer func() { _ = rdb.Close() }()
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: httpx.RedisReadyCheck(rdb)})
	}

	var publisher events.Publisher = events.Noop{}
	publisherDone := make(chan struct{})
	// The publisher outlives ctx so requests still draining in srv.Shutdown
	// can publish; it is stopped after the HTTP server.
	publisherCtx, stopPublisher := context.WithCancel(context.Background())
	defer stopPublisher()
	if brokers := cfg.kafkaBrokers(); len(brokers) > 0 {
		kp := events.NewKafkaPublisher(logger, events.KafkaConfig{Brokers: brokers})
		publisher = kp
		go func() {
			defer close(publisherDone)
			kp.Run(publisherCtx)
		}()
		checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
		logger.Info("event publishing enabled", "brokers", brokers)
	} else {
		close(publisherDone)
	}

	var notifier *notify.Notifier
	if cfg.SMTPHost != "" {
		notifier = notify.NewNotifier(notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom), logger)
		logger.Info("booking confirmations enabled", "smtp_host", cfg.SMTPHost)
	}

	metrics.Register()
	api := handlers.New(store, logger, publisher, notifier)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newHTTPHandler(cfg, logger, api, rateLimiter(cfg, rdb, logger), checks...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcDone := make(chan struct{})
	if cfg.grpcEnabled() {
		lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
		if err != nil {
			logger.Error("grpc listen failed", "err", err)
			panic(err)
		}
		hs := health.NewServer(logger, checks...)
		go func() {
			defer close(grpcDone)
			logger.Info("grpc server starting", "addr", lis.Addr().String())
			if err := hs.Serve(ctx, lis, 0); err != nil {
				logger.Error("grpc server error", "err", err)
			}
		}()
	} else {
		close(grpcDone)
	}

	go func() {
		logger.Info("http server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	stopPublisher()
	<-publisherDone
	notifier.Wait()
	<-grpcDone
	logger.Info("http server stopped")
}
