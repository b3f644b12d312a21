// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// minSymmetricKeyBytes is the shortest accepted token signing key.
const minSymmetricKeyBytes = 32

// validate checks that the final merged [StructuredConfig] is usable at
// startup. All violations are reported together.
func (cfg *StructuredConfig) validate() error {
	var errs []error

	if cfg.App.SymmetricKey != "" {
		key, err := hex.DecodeString(cfg.App.SymmetricKey)
		if err != nil || len(key) < minSymmetricKeyBytes {
			errs = append(errs, fmt.Errorf("%w: symmetric key must be hex of at least %d bytes", ErrInvalidAppConfigs, minSymmetricKeyBytes))
		}
	}
	if cfg.App.TokenDuration <= 0 {
		errs = append(errs, fmt.Errorf("%w: token duration must be positive", ErrInvalidAppConfigs))
	}
	if cfg.App.ClockSkew < 0 {
		errs = append(errs, fmt.Errorf("%w: clock skew must not be negative", ErrInvalidAppConfigs))
	}
	if cfg.App.PasswordHashCost < bcrypt.MinCost || cfg.App.PasswordHashCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("%w: password hash cost must be in [%d, %d]", ErrInvalidAppConfigs, bcrypt.MinCost, bcrypt.MaxCost))
	}

	switch cfg.Storage.DB.Driver {
	case DriverMemory:
	case DriverPostgres, DriverSQLite:
		if cfg.Storage.DB.DSN == "" {
			errs = append(errs, fmt.Errorf("%w: driver %q requires a DSN", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown driver %q", ErrInvalidStorageConfigs, cfg.Storage.DB.Driver))
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		errs = append(errs, fmt.Errorf("%w: no listen address", ErrInvalidServerConfigs))
	}
	if cfg.Server.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: request timeout must be positive", ErrInvalidServerConfigs))
	}

	return errors.Join(errs...)
}
