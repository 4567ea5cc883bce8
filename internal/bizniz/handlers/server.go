package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server holds the REST server and the gRPC server that answers health checks.
type Server struct {
	grpcServer   *grpc.Server
	httpServer   *http.Server
	health       *health.Server
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string
	grpcListener net.Listener
	httpListener net.Listener
}

// NewServer constructs a Server. A port of 0 picks a free port on Listen.
func NewServer(
	httpPort int,
	grpcPort int,
	handler http.Handler,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	grpcServer := grpc.NewServer(grpcOpts...)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer: grpcServer,
		httpServer: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		health:       healthServer,
		logger:       logger.Named("server"),
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
	}
}

// Listen binds both endpoints.
func (s *Server) Listen() error {
	httpLis, err := net.Listen("tcp", s.httpEndpoint)
	if err != nil {
		return fmt.Errorf("HTTP listen error: %w", err)
	}
	grpcLis, err := net.Listen("tcp", s.grpcEndpoint)
	if err != nil {
		_ = httpLis.Close()
		return fmt.Errorf("gRPC listen error: %w", err)
	}
	s.httpListener = httpLis
	s.grpcListener = grpcLis
	return nil
}

func (s *Server) HTTPAddr() string {
	if s.httpListener == nil {
		return s.httpEndpoint
	}
	return s.httpListener.Addr().String()
}

func (s *Server) GRPCAddr() string {
	if s.grpcListener == nil {
		return s.grpcEndpoint
	}
	return s.grpcListener.Addr().String()
}

// Start serves both servers until Stop is called or one of them fails.
func (s *Server) Start() error {
	if s.httpListener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	var g errgroup.Group
	g.Go(func() error {
		s.logger.Info("Starting gRPC server", zap.String("endpoint", s.GRPCAddr()))
		if err := s.grpcServer.Serve(s.grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			s.abort()
			return fmt.Errorf("gRPC serve error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.HTTPAddr()))
		if err := s.httpServer.Serve(s.httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.abort()
			return fmt.Errorf("HTTP serve error: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func (s *Server) abort() {
	s.grpcServer.Stop()
	_ = s.httpServer.Close()
}

// Stop gracefully shuts down both servers.
func (s *Server) Stop() {
	s.logger.Info("Shutting down servers...")
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	s.grpcServer.GracefulStop()

	s.logger.Info("Servers stopped")
}
