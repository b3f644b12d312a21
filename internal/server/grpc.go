// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-divide/internal/config"
	myGRPC "github.com/MKhiriev/go-divide/internal/handler/grpc"
	"github.com/MKhiriev/go-divide/internal/logger"
)

// healthCheckInterval is how often the storage probe refreshes the health
// status.
const healthCheckInterval = 10 * time.Second

type grpcServer struct {
	handler *myGRPC.Handler
	address string

	server   *grpc.Server
	listener net.Listener

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer()
	healthpb.RegisterHealthServer(server, handler.HealthServer())

	return &grpcServer{
		handler: handler,
		address: cfg.GRPCAddress,
		server:  server,
		logger:  logger,
	}
}

func (g *grpcServer) listen() error {
	if g.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", g.address)
	if err != nil {
		return fmt.Errorf("grpc listen on %s: %w", g.address, err)
	}
	g.listener = listener
	return nil
}

// serve blocks until the server stops. Stopping before Serve ran is not an
// error. The health watcher runs until ctx is done.
func (g *grpcServer) serve(ctx context.Context) error {
	go g.handler.Watch(ctx, healthCheckInterval)

	g.logger.Info().Str("address", g.listener.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(g.listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// shutdown drains the health status first, then stops gracefully. A ctx
// that expires first forces the stop.
func (g *grpcServer) shutdown(ctx context.Context) error {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.handler.Shutdown()

	stopped := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		g.server.Stop()
		return fmt.Errorf("grpc shutdown: %w", ctx.Err())
	}
}
