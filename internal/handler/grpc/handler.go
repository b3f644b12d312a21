// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package grpc exposes the standard gRPC health service. Its status follows
// the reachability of the credential store.
package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/service"
)

// ServiceName is the health service name reported for the auth API.
const ServiceName = "divide.Auth"

// Handler owns the health server registered on the gRPC server.
type Handler struct {
	services *service.Services
	health   *health.Server

	logger *logger.Logger
}

func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	h := &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
	h.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return h
}

// HealthServer returns the server to register with
// healthpb.RegisterHealthServer.
func (h *Handler) HealthServer() healthpb.HealthServer {
	return h.health
}

// Watch re-checks the service every interval until ctx is done and flips
// the serving status accordingly.
func (h *Handler) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Check probes the service once and updates the serving status.
func (h *Handler) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.services.HealthService.Ping(ctx); err != nil {
		h.logger.Err(err).Str("func", "*Handler.Check").Msg("health check failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.health.SetServingStatus(ServiceName, status)
	h.health.SetServingStatus("", status)
	return status
}

// Shutdown marks every service NOT_SERVING so clients drain.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
}
