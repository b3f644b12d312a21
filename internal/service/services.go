// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"fmt"

	"github.com/MKhiriev/go-divide/internal/clock"
	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/crypto"
	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/store"
	"github.com/MKhiriev/go-divide/internal/token"
	"github.com/MKhiriev/go-divide/models"
)

type Services struct {
	AuthService    AuthService
	AppInfoService AppInfoService
	HealthService  HealthService
}

// NewServices wires the services on top of the opened storage and the loaded
// keys. Password reset codes go to notifier; nil selects the log notifier.
func NewServices(
	storages *store.Storages,
	keys crypto.KeyManager,
	cfg config.App,
	buildInfo models.AppBuildInfo,
	notifier ResetNotifier,
	logger *logger.Logger,
) (*Services, error) {
	hasher, err := crypto.NewPasswordHasher(cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	codec, err := token.NewCodec(keys, clock.Real(), cfg.TokenDuration, cfg.ClockSkew, cfg.TokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	appInfo, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, err
	}

	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}

	return &Services{
		AuthService:    NewAuthService(storages.DAO, keys, hasher, codec, notifier, logger),
		AppInfoService: appInfo,
		HealthService:  NewHealthService(storages.DAO),
	}, nil
}
