// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package handler builds the transport handlers enabled by configuration.
package handler

import (
	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/handler/grpc"
	"github.com/MKhiriev/go-divide/internal/handler/http"
	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates the HTTP handler when an HTTP address is configured and
// the gRPC health handler when a gRPC address is.
func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.RequestTimeout, logger)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
