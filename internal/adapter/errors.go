// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import "errors"

// Errors returned for non-2xx responses; they mirror the server's error
// categories.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrServer       = errors.New("server error")
)

var (
	// ErrNotAuthenticated is returned by calls that need an auth token
	// before one was obtained.
	ErrNotAuthenticated = errors.New("no auth token, sign in first")

	ErrInvalidAddress = errors.New("invalid server address")
)
