// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils holds small helpers shared by the transport layers: context
// keys, JSON responses, bearer header parsing and object key generation.
package utils

import (
	"context"

	"github.com/MKhiriev/go-divide/models"
)

// contextKey is a private type for context keys so they never collide with
// string keys set by other packages.
type contextKey string

// String implements fmt.Stringer.
func (c contextKey) String() string {
	return string(c)
}

// CredentialCtxKey stores the credential of the authenticated caller.
var CredentialCtxKey = contextKey("credential")

// WithCredential returns a copy of ctx carrying cred.
func WithCredential(ctx context.Context, cred models.Credential) context.Context {
	return context.WithValue(ctx, CredentialCtxKey, cred)
}

// GetCredentialFromContext returns the credential put into ctx by
// [WithCredential]. ok is false when the value is missing, has an unexpected
// type or has no storage key.
//
//	cred, ok := utils.GetCredentialFromContext(ctx)
//	if !ok {
//	    // request did not pass the auth middleware
//	}
func GetCredentialFromContext(ctx context.Context) (models.Credential, bool) {
	cred, ok := ctx.Value(CredentialCtxKey).(models.Credential)
	if !ok || cred.Key == "" {
		return models.Credential{}, false
	}
	return cred, true
}
