package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/taekwondodev/go-qa-forum/internal/config"
	"github.com/taekwondodev/go-qa-forum/internal/telemetry"
)

const probeTimeout = 2 * time.Second

// Pinger reports whether the database answers.
type Pinger interface {
	Healthz(ctx context.Context) error
}

type Options struct {
	Interval        time.Duration
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// Server exposes grpc.health.v1 with a status that follows the database.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	pinger     Pinger
	opts       Options
}

func New(cfg config.GRPCConfig, pinger Pinger, opts Options) (*Server, error) {
	serverOpts := []grpc.ServerOption{
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor(opts.Logger)),
	}

	if cfg.TLSEnabled() {
		creds, err := loadTLSCredentials(cfg)
		if err != nil {
			return nil, fmt.Errorf("load TLS credentials: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(serverOpts...)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		pinger:     pinger,
		opts:       opts,
	}, nil
}

func (s *Server) Run(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve probes the database every interval and serves until ctx is done.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.probe(ctx)

	probeCtx, stopProbe := context.WithCancel(ctx)
	defer stopProbe()
	go s.probeLoop(probeCtx)

	s.opts.Logger.Info("gRPC health server listening", "addr", lis.Addr().String())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(lis)
	}()

	select {
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC: %w", err)

	case <-ctx.Done():
		s.health.Shutdown()
		s.gracefulStop()
		<-serveErr
		return nil
	}
}

func (s *Server) gracefulStop() {
	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	timer := time.NewTimer(s.opts.ShutdownTimeout)
	defer timer.Stop()

	select {
	case <-stopped:
		s.opts.Logger.Info("gRPC server stopped gracefully")
	case <-timer.C:
		s.opts.Logger.Warn("Timeout reached, forcing gRPC shutdown")
		s.grpcServer.Stop()
	}
}

func (s *Server) probeLoop(ctx context.Context) {
	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Server) probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	if err := s.pinger.Healthz(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}
		s.opts.Logger.Warn("database probe failed", "error", err)
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(telemetry.ServiceName, status)
}
