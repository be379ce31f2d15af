package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	log "go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/yanet-platform/bgtasks/internal/coordinator"
	"github.com/yanet-platform/bgtasks/internal/monitoring/metrics"
	"github.com/yanet-platform/bgtasks/internal/utils/runtimemetrics"
)

// Tracker is the part of the background operations coordinator the server
// uses.
type Tracker interface {
	Run(operation coordinator.Operation) error
	ShutdownDone() <-chan struct{}
	ShutdownRequested() bool
	State() coordinator.State
	InFlight() int64
}

// Server exposes the state of background operations over HTTP and reports
// the process health over gRPC. Health turns to NOT_SERVING once shutdown is
// requested.
type Server struct {
	config     *Config
	tracker    Tracker
	health     *health.Server
	grpcServer *grpc.Server
	httpServer *http.Server
	logger     *log.Logger
}

// New creates a new Server instance with the given configuration, background
// operations tracker and metrics gatherer.
func New(config *Config, tracker Tracker, gatherer metrics.Gatherer, logger *log.Logger) *Server {
	healthServer := health.NewServer()

	gRPCServer := grpc.NewServer()
	healthpb.RegisterHealthServer(gRPCServer, healthServer)
	reflection.Register(gRPCServer)

	m := &Server{
		config:     config,
		tracker:    tracker,
		health:     healthServer,
		grpcServer: gRPCServer,
		logger:     logger,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", gatherer.GetHTTPHandler())
	mux.Handle("GET /metrics/runtime", runtimemetrics.NewHandler())
	mux.HandleFunc("GET /status", m.handleStatus)
	mux.HandleFunc("POST /tasks", m.handleSubmitTask)

	m.httpServer = &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           requestIDMiddleware(logger)(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return m
}

// Handler returns the HTTP handler of the server.
func (m *Server) Handler() http.Handler {
	return m.httpServer.Handler
}

// Run starts both the gRPC and HTTP servers, and watches the shutdown signal
// to update the health status.
func (m *Server) Run(ctx context.Context) error {
	wg, ctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		m.watchShutdown(ctx)
		return nil
	})
	if m.config.GRPCAddr != "" {
		wg.Go(m.runGRPCServer)
	}
	wg.Go(m.runHTTPServer)
	return wg.Wait()
}

// Stop gracefully stops both the gRPC and HTTP servers.
func (m *Server) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m.health.Shutdown()
	m.grpcServer.Stop()
	if err := m.httpServer.Shutdown(ctx); err != nil {
		m.logger.Warn("failed to shutdown HTTP server", log.Error(err))
	}
}

// watchShutdown reports NOT_SERVING as soon as shutdown is requested.
func (m *Server) watchShutdown(ctx context.Context) {
	m.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	select {
	case <-ctx.Done():
	case <-m.tracker.ShutdownDone():
		m.logger.Info("shutdown requested, reporting not serving")
		m.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	}
}

func (m *Server) runGRPCServer() error {
	listener, err := net.Listen("tcp", m.config.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	m.logger.Info("serving gRPC", log.String("addr", m.config.GRPCAddr))
	return m.grpcServer.Serve(listener)
}

func (m *Server) runHTTPServer() error {
	m.logger.Info("serving HTTP", log.String("addr", m.config.HTTPAddr))
	if err := m.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
