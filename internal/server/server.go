// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/handler"
	"github.com/MKhiriev/go-divide/internal/logger"
)

// shutdownTimeout bounds the graceful shutdown of all servers.
const shutdownTimeout = 10 * time.Second

type server struct {
	httpServer *httpServer
	gRPCServer *grpcServer
	logger     *logger.Logger
}

// NewServer creates a server for every configured address.
func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")
	servers := &server{logger: logger}

	if cfg.HTTPAddress != "" {
		if handlers.HTTP == nil {
			return nil, errMissingHandler
		}
		servers.httpServer = newHTTPServer(handlers.HTTP.Init(), cfg, logger)
	}
	if cfg.GRPCAddress != "" {
		if handlers.GRPC == nil {
			return nil, errMissingHandler
		}
		servers.gRPCServer = newGRPCServer(handlers.GRPC, cfg, logger)
	}

	if servers.httpServer == nil && servers.gRPCServer == nil {
		return nil, errNoServersAreCreated
	}

	return servers, nil
}

// RunServer binds every listener, serves, and shuts down when ctx is
// cancelled, a stop signal arrives or any server fails.
func (s *server) RunServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := s.listen(); err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)

	if s.httpServer != nil {
		s.logger.Info().Msg("Launching HTTP server")
		g.Go(s.httpServer.serve)
	}
	if s.gRPCServer != nil {
		s.logger.Info().Msg("Launching GRPC server")
		g.Go(func() error { return s.gRPCServer.serve(gCtx) })
	}

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		s.logger.Err(err).Str("func", "*server.RunServer").Msg("server stopped with error")
		return err
	}

	s.logger.Info().Msg("server Shutdown gracefully")
	return nil
}

// Shutdown stops every started server and returns all shutdown errors.
func (s *server) Shutdown(ctx context.Context) error {
	var errs []error

	if s.httpServer != nil {
		errs = append(errs, s.httpServer.shutdown(ctx))
	}
	if s.gRPCServer != nil {
		errs = append(errs, s.gRPCServer.shutdown(ctx))
	}

	return errors.Join(errs...)
}

func (s *server) listen() error {
	if s.httpServer != nil {
		if err := s.httpServer.listen(); err != nil {
			return err
		}
	}
	if s.gRPCServer != nil {
		if err := s.gRPCServer.listen(); err != nil {
			if s.httpServer != nil {
				_ = s.httpServer.listener.Close()
			}
			return err
		}
	}
	return nil
}
