// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// request carries no "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrMissingCredential means a protected handler ran without the auth
	// middleware having stored a credential in the context.
	ErrMissingCredential = errors.New("no credential in request context")
)
