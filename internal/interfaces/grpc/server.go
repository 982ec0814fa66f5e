// Package grpc exposes the standard gRPC health service so orchestrators can
// probe the atlas over gRPC. Component health is fed by the same readiness
// checks that back /readyz.
package grpc

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/turtacn/CoalTransition-Atlas/internal/config"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
)

const (
	defaultMaxRecvMsgSize  = 4 * 1024 * 1024
	defaultGracefulTimeout = 10 * time.Second

	// componentPrefix names per-component health services, e.g. "atlas.postgres".
	componentPrefix = "atlas."
)

var defaultKeepaliveParams = keepalive.ServerParameters{
	MaxConnectionIdle:     15 * time.Minute,
	MaxConnectionAge:      30 * time.Minute,
	MaxConnectionAgeGrace: 5 * time.Second,
	Time:                  5 * time.Minute,
	Timeout:               1 * time.Second,
}

var defaultKeepalivePolicy = keepalive.EnforcementPolicy{
	MinTime:             5 * time.Second,
	PermitWithoutStream: true,
}

// RequestRecorder receives one observation per finished call.
// *prometheus.AppMetrics satisfies it.
type RequestRecorder interface {
	RecordGRPCRequest(service, method, code string, d time.Duration)
}

// Option configures the gRPC Server.
type Option func(*serverOptions)

type serverOptions struct {
	logger          logging.Logger
	recorder        RequestRecorder
	maxRecvMsgSize  int
	keepaliveParams keepalive.ServerParameters
	gracefulTimeout time.Duration
	reflection      bool
}

// WithLogger sets the logger for the gRPC server.
func WithLogger(l logging.Logger) Option {
	return func(o *serverOptions) {
		o.logger = l
	}
}

// WithRecorder records call metrics through r.
func WithRecorder(r RequestRecorder) Option {
	return func(o *serverOptions) {
		o.recorder = r
	}
}

// WithMaxRecvMsgSize sets the maximum receive message size in bytes.
func WithMaxRecvMsgSize(size int) Option {
	return func(o *serverOptions) {
		if size > 0 {
			o.maxRecvMsgSize = size
		}
	}
}

// WithKeepaliveParams sets keepalive parameters for the gRPC server.
func WithKeepaliveParams(params keepalive.ServerParameters) Option {
	return func(o *serverOptions) {
		o.keepaliveParams = params
	}
}

// WithGracefulTimeout sets the graceful shutdown timeout.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *serverOptions) {
		if d > 0 {
			o.gracefulTimeout = d
		}
	}
}

// WithReflection registers the reflection service. Debug mode only.
func WithReflection(enabled bool) Option {
	return func(o *serverOptions) {
		o.reflection = enabled
	}
}

// Server wraps a gRPC server carrying the health service.
type Server struct {
	grpcServer   *grpc.Server
	listener     net.Listener
	opts         *serverOptions
	healthServer *health.Server

	mu         sync.Mutex
	started    bool
	components map[string]bool
}

// NewServer binds cfg.Port and registers the health service. Port 0 picks a
// free port; see Addr.
func NewServer(cfg config.GRPCConfig, opts ...Option) (*Server, error) {
	sopts := &serverOptions{
		maxRecvMsgSize:  defaultMaxRecvMsgSize,
		keepaliveParams: defaultKeepaliveParams,
		gracefulTimeout: defaultGracefulTimeout,
	}
	for _, o := range opts {
		o(sopts)
	}
	if sopts.logger == nil {
		sopts.logger = logging.NewNopLogger()
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	gs := grpc.NewServer(
		grpc.MaxRecvMsgSize(sopts.maxRecvMsgSize),
		grpc.KeepaliveParams(sopts.keepaliveParams),
		grpc.KeepaliveEnforcementPolicy(defaultKeepalivePolicy),
		grpc.ChainUnaryInterceptor(
			recoveryUnaryInterceptor(sopts.logger),
			loggingUnaryInterceptor(sopts.logger),
			metricsUnaryInterceptor(sopts.recorder),
		),
		grpc.ChainStreamInterceptor(
			recoveryStreamInterceptor(sopts.logger),
			metricsStreamInterceptor(sopts.recorder),
		),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(gs, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	if sopts.reflection {
		reflection.Register(gs)
		sopts.logger.Info("grpc reflection service registered")
	}

	return &Server{
		grpcServer:   gs,
		listener:     lis,
		opts:         sopts,
		healthServer: hs,
		components:   make(map[string]bool),
	}, nil
}

// SetHealth records one component's state. The overall status ("") is
// SERVING only while every known component is up.
func (s *Server) SetHealth(component string, up bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.components[component] = up
	s.healthServer.SetServingStatus(componentPrefix+component, servingStatus(up))

	overall := true
	for _, ok := range s.components {
		overall = overall && ok
	}
	s.healthServer.SetServingStatus("", servingStatus(overall))
}

// Components returns the names of components reported so far.
func (s *Server) Components() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.components))
	for name := range s.components {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func servingStatus(up bool) healthpb.HealthCheckResponse_ServingStatus {
	if up {
		return healthpb.HealthCheckResponse_SERVING
	}
	return healthpb.HealthCheckResponse_NOT_SERVING
}

// Start serves until Stop. It blocks.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("server already started")
	}
	s.started = true
	s.mu.Unlock()

	s.opts.logger.Info("grpc server starting", logging.String("address", s.listener.Addr().String()))
	return s.grpcServer.Serve(s.listener)
}

// Stop marks the server NOT_SERVING, then stops gracefully, forcing the stop
// when the graceful period or ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return s.listener.Close()
	}

	s.opts.logger.Info("grpc server stopping")
	s.healthServer.Shutdown()

	gracefulCtx, cancel := context.WithTimeout(ctx, s.opts.gracefulTimeout)
	defer cancel()

	stopped := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.opts.logger.Info("grpc server stopped gracefully")
	case <-gracefulCtx.Done():
		s.opts.logger.Warn("grpc graceful stop timed out, forcing stop")
		s.grpcServer.Stop()
	}
	return nil
}

// Addr returns the actual listen address.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// ---------------------------------------------------------------------------
// Interceptors
// ---------------------------------------------------------------------------

func recoveryUnaryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc panic recovered",
					logging.String("method", info.FullMethod),
					logging.String("panic", fmt.Sprintf("%v", r)),
					logging.String("stack", string(debug.Stack())),
				)
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

func recoveryStreamInterceptor(logger logging.Logger) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("grpc stream panic recovered",
					logging.String("method", info.FullMethod),
					logging.String("panic", fmt.Sprintf("%v", r)),
				)
				err = status.Errorf(codes.Internal, "internal server error")
			}
		}()
		return handler(srv, ss)
	}
}

func isHealthCheck(method string) bool {
	return strings.HasPrefix(method, "/grpc.health.v1.Health/")
}

// loggingUnaryInterceptor logs non-health calls at debug level; probes are
// frequent and carry no information.
func loggingUnaryInterceptor(logger logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if isHealthCheck(info.FullMethod) {
			return handler(ctx, req)
		}
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Debug("grpc request",
			logging.String("method", info.FullMethod),
			logging.Duration("latency", time.Since(start)),
			logging.String("code", status.Code(err).String()),
		)
		return resp, err
	}
}

func metricsUnaryInterceptor(r RequestRecorder) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if r == nil {
			return handler(ctx, req)
		}
		start := time.Now()
		resp, err := handler(ctx, req)
		service, method := splitMethodName(info.FullMethod)
		r.RecordGRPCRequest(service, method, status.Code(err).String(), time.Since(start))
		return resp, err
	}
}

func metricsStreamInterceptor(r RequestRecorder) grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if r == nil {
			return handler(srv, ss)
		}
		start := time.Now()
		err := handler(srv, ss)
		service, method := splitMethodName(info.FullMethod)
		r.RecordGRPCRequest(service, method, status.Code(err).String(), time.Since(start))
		return err
	}
}

// splitMethodName splits "/package.Service/Method" into ("package.Service", "Method").
func splitMethodName(fullMethod string) (string, string) {
	fullMethod = strings.TrimPrefix(fullMethod, "/")
	idx := strings.LastIndex(fullMethod, "/")
	if idx < 0 {
		return "unknown", fullMethod
	}
	return fullMethod[:idx], fullMethod[idx+1:]
}

//Personal.AI order the ending
