// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "context"

// Server is the lifecycle shared by every transport server.
type Server interface {
	// RunServer serves until ctx is cancelled or serving fails, then shuts
	// down. It returns the first serving error, if any.
	RunServer(ctx context.Context) error

	// Shutdown stops accepting requests and waits for in-flight ones until
	// ctx expires.
	Shutdown(ctx context.Context) error
}
