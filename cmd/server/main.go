// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/crypto"
	"github.com/MKhiriev/go-divide/internal/handler"
	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/server"
	"github.com/MKhiriev/go-divide/internal/service"
	"github.com/MKhiriev/go-divide/internal/store"
	"github.com/MKhiriev/go-divide/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("go-divide-server")
	cfg, err := config.GetStructuredConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().
		Str("driver", cfg.Storage.DB.Driver).
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Dur("token_duration", cfg.App.TokenDuration).
		Msg("received configs")

	keys, err := crypto.NewKeyManager(cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading keys")
	}

	ctx := context.Background()
	storages, err := store.NewStorages(ctx, cfg.Storage.DB, log, service.CredentialUniqueFields()...)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	services, err := service.NewServices(storages, keys, cfg.App, buildInfo, nil, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
