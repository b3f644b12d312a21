// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned when the merged configuration is unusable.
var (
	// ErrInvalidStorageConfigs indicates an unknown driver or a SQL driver
	// without a DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates invalid key material or token/password
	// parameters.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidServerConfigs indicates missing listen addresses or a
	// non-positive request timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
