// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"time"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/service"
)

// Handler serves every HTTP route. One instance is built at startup and
// shared by all requests.
type Handler struct {
	services *service.Services

	// requestTimeout bounds each request; zero disables the timeout.
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, requestTimeout time.Duration, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}
