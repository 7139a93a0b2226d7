// Package health serves the standard gRPC health service, with the serving
// status driven by the same dependency checks as /readyz.
package health

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/md-rashed-zaman/ambersite/libs/grpcx"
	"github.com/md-rashed-zaman/ambersite/libs/runtime"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is reported alongside the overall ("") status.
const ServiceName = "ambersite.site.v1.SiteService"

const defaultInterval = 10 * time.Second

type Server struct {
	grpc   *grpc.Server
	health *health.Server
	checks []runtime.ReadyCheck
	logger *slog.Logger

	mu   sync.Mutex
	last grpc_health_v1.HealthCheckResponse_ServingStatus
}

func NewServer(logger *slog.Logger, checks ...runtime.ReadyCheck) *Server {
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			grpcx.UnaryServerRequestIDInterceptor(),
			grpcx.UnaryServerLogInterceptor(logger),
		),
	)
	hs := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, hs)
	hs.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	return &Server{
		grpc:   srv,
		health: hs,
		checks: checks,
		logger: logger,
		last:   grpc_health_v1.HealthCheckResponse_NOT_SERVING,
	}
}

// Refresh runs the checks once and publishes the resulting status.
func (s *Server) Refresh(ctx context.Context) grpc_health_v1.HealthCheckResponse_ServingStatus {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	failures := runtime.RunChecks(ctx, s.checks)
	if len(failures) > 0 {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.mu.Lock()
	if status != s.last {
		s.logger.Info("grpc health status changed", "status", status.String(), "failures", strings.Join(failures, "; "))
		s.last = status
	}
	s.mu.Unlock()
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
	return status
}

// Serve serves on lis and re-evaluates the checks every interval until ctx
// ends, then stops gracefully.
func (s *Server) Serve(ctx context.Context, lis net.Listener, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultInterval
	}
	s.Refresh(ctx)

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpc.Serve(lis)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			s.grpc.GracefulStop()
			if err := <-serveErr; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
				return err
			}
			return nil
		case err := <-serveErr:
			return err
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
