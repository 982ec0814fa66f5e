package grpc

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/turtacn/CoalTransition-Atlas/internal/config"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
)

type recordedCall struct {
	service, method, code string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeRecorder) RecordGRPCRequest(service, method, code string, _ time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, recordedCall{service, method, code})
}

func (f *fakeRecorder) snapshot() []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedCall(nil), f.calls...)
}

func startServer(t *testing.T, opts ...Option) (*Server, healthpb.HealthClient) {
	t.Helper()
	srv, err := NewServer(config.GRPCConfig{Port: 0, Enabled: true}, opts...)
	require.NoError(t, err)

	go func() { _ = srv.Start() }()
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(ctx, srv.Addr(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithBlock(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return srv, healthpb.NewHealthClient(conn)
}

func check(t *testing.T, c healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := c.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestNewServer_BindsFreePort(t *testing.T) {
	srv, err := NewServer(config.GRPCConfig{Port: 0})
	require.NoError(t, err)
	assert.NotEmpty(t, srv.Addr())
	assert.NotNil(t, srv.opts.logger)
	assert.Equal(t, defaultGracefulTimeout, srv.opts.gracefulTimeout)
	require.NoError(t, srv.Stop(context.Background()))
}

func TestNewServer_Options(t *testing.T) {
	rec := &fakeRecorder{}
	srv, err := NewServer(config.GRPCConfig{Port: 0},
		WithLogger(logging.NewNopLogger()),
		WithRecorder(rec),
		WithMaxRecvMsgSize(1024),
		WithMaxRecvMsgSize(-1),
		WithGracefulTimeout(time.Second),
		WithReflection(true),
	)
	require.NoError(t, err)
	defer srv.Stop(context.Background())

	assert.Equal(t, 1024, srv.opts.maxRecvMsgSize)
	assert.Equal(t, time.Second, srv.opts.gracefulTimeout)
	assert.True(t, srv.opts.reflection)
	assert.Same(t, rec, srv.opts.recorder)
}

func TestServer_DoubleStart(t *testing.T) {
	srv, _ := startServer(t)
	assert.Error(t, srv.Start())
}

func TestServer_HealthCheck_OverallServing(t *testing.T) {
	_, client := startServer(t)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
}

func TestServer_SetHealth(t *testing.T) {
	srv, client := startServer(t)

	srv.SetHealth("postgres", true)
	srv.SetHealth("redis", false)

	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, "atlas.postgres"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, "atlas.redis"))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, client, ""))

	srv.SetHealth("redis", true)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(t, client, ""))
	assert.Equal(t, []string{"postgres", "redis"}, srv.Components())
}

func TestServer_UnknownComponent(t *testing.T) {
	_, client := startServer(t)
	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "atlas.kafka"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestServer_RecordsMetrics(t *testing.T) {
	rec := &fakeRecorder{}
	_, client := startServer(t, WithRecorder(rec))

	check(t, client, "")

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	assert.Equal(t, recordedCall{"grpc.health.v1.Health", "Check", "OK"}, calls[0])
}

func TestRecoveryUnaryInterceptor(t *testing.T) {
	interceptor := recoveryUnaryInterceptor(logging.NewNopLogger())
	info := &grpc.UnaryServerInfo{FullMethod: "/atlas.Test/Boom"}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		panic("boom")
	})
	assert.Equal(t, codes.Internal, status.Code(err))

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}

func TestMetricsUnaryInterceptor_NilRecorder(t *testing.T) {
	interceptor := metricsUnaryInterceptor(nil)
	info := &grpc.UnaryServerInfo{FullMethod: "/atlas.Test/Call"}
	resp, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, resp)
}

func TestMetricsUnaryInterceptor_ErrorCode(t *testing.T) {
	rec := &fakeRecorder{}
	interceptor := metricsUnaryInterceptor(rec)
	info := &grpc.UnaryServerInfo{FullMethod: "/atlas.Test/Call"}
	_, _ = interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, status.Error(codes.Unavailable, "down")
	})
	assert.Equal(t, []recordedCall{{"atlas.Test", "Call", "Unavailable"}}, rec.snapshot())
}

func TestSplitMethodName(t *testing.T) {
	tests := []struct {
		in, service, method string
	}{
		{"/grpc.health.v1.Health/Check", "grpc.health.v1.Health", "Check"},
		{"/a.b.C/D", "a.b.C", "D"},
		{"Method", "unknown", "Method"},
	}
	for _, tt := range tests {
		s, m := splitMethodName(tt.in)
		assert.Equal(t, tt.service, s, tt.in)
		assert.Equal(t, tt.method, m, tt.in)
	}
}

func TestIsHealthCheck(t *testing.T) {
	assert.True(t, isHealthCheck("/grpc.health.v1.Health/Check"))
	assert.True(t, isHealthCheck("/grpc.health.v1.Health/Watch"))
	assert.False(t, isHealthCheck("/atlas.Plants/List"))
}

//Personal.AI order the ending
