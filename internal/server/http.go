// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/logger"
)

const readHeaderTimeout = 5 * time.Second

type httpServer struct {
	server   *http.Server
	listener net.Listener

	logger *logger.Logger
}

func newHTTPServer(router http.Handler, cfg config.Server, logger *logger.Logger) *httpServer {
	return &httpServer{
		server: &http.Server{
			Addr:              cfg.HTTPAddress,
			Handler:           router,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: logger,
	}
}

// listen binds the address before serving so bind errors surface at startup.
func (h *httpServer) listen() error {
	if h.listener != nil {
		return nil
	}
	listener, err := net.Listen("tcp", h.server.Addr)
	if err != nil {
		return fmt.Errorf("http listen on %s: %w", h.server.Addr, err)
	}
	h.listener = listener
	return nil
}

func (h *httpServer) serve() error {
	h.logger.Info().Str("address", h.listener.Addr().String()).Msg("HTTP server listening")
	if err := h.server.Serve(h.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http serve: %w", err)
	}
	return nil
}

func (h *httpServer) shutdown(ctx context.Context) error {
	h.logger.Info().Msg("HTTP server Shutdown")
	if err := h.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
