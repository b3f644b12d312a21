// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/handler"
	myGRPC "github.com/MKhiriev/go-divide/internal/handler/grpc"
	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/service"
)

type stubAppInfo struct{}

func (stubAppInfo) GetAppVersion(_ context.Context) string { return "9.9.9" }

func newTestHandlers(t *testing.T, cfg config.Server) *handler.Handlers {
	t.Helper()
	h, err := handler.NewHandlers(&service.Services{AppInfoService: stubAppInfo{}}, cfg, logger.Nop())
	require.NoError(t, err)
	return h
}

func TestNewServer_Errors(t *testing.T) {
	t.Run("no addresses", func(t *testing.T) {
		_, err := NewServer(&handler.Handlers{}, config.Server{}, logger.Nop())
		assert.ErrorIs(t, err, errNoServersAreCreated)
	})

	t.Run("address without handler", func(t *testing.T) {
		_, err := NewServer(&handler.Handlers{}, config.Server{GRPCAddress: "127.0.0.1:0"}, logger.Nop())
		assert.ErrorIs(t, err, errMissingHandler)
	})
}

func TestRunServer_ServesAndShutsDown(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0", GRPCAddress: "127.0.0.1:0"}
	srv, err := NewServer(newTestHandlers(t, cfg), cfg, logger.Nop())
	require.NoError(t, err)

	s := srv.(*server)
	require.NoError(t, s.listen())
	httpAddr := s.httpServer.listener.Addr().String()
	grpcAddr := s.gRPCServer.listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.RunServer(ctx) }()

	resp, err := http.Get("http://" + httpAddr + "/api/version")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "9.9.9", string(body))

	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()

	health, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: myGRPC.ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, health.GetStatus())

	cancel()

	select {
	case err = <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunServer did not return after cancel")
	}
}

func TestRunServer_BindFailure(t *testing.T) {
	cfg := config.Server{HTTPAddress: "127.0.0.1:0"}
	first, err := NewServer(newTestHandlers(t, cfg), cfg, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, first.(*server).listen())
	defer first.(*server).httpServer.listener.Close()

	taken := config.Server{HTTPAddress: first.(*server).httpServer.listener.Addr().String()}
	second, err := NewServer(newTestHandlers(t, taken), taken, logger.Nop())
	require.NoError(t, err)

	err = second.RunServer(context.Background())
	assert.ErrorContains(t, err, "http listen")
}
