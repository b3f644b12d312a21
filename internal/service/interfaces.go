// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-divide/models"
)

// AuthService drives the credential lifecycle: sign-up, sign-in, password
// reset, token refresh and user data access.
//
// Every returned error wraps exactly one of [ErrConflict], [ErrUnauthorized],
// [ErrBadRequest] or [ErrInternal].
type AuthService interface {
	// UserSignUp registers a new credential. req.Password is the RSA
	// ciphertext produced with GetPublicKey.
	UserSignUp(ctx context.Context, req models.Credential) (models.Credential, error)

	// UserSignIn verifies req against the stored credential, or completes a
	// password reset when req.Validation carries the pending reset code. An
	// expired auth token is replaced.
	UserSignIn(ctx context.Context, req models.Credential) (models.Credential, error)

	// GetPublicKey returns the PKIX DER encoded RSA public key.
	GetPublicKey(ctx context.Context) []byte

	// ValidateAccount consumes a pending validation code. Not finding the
	// code is reported as false, not as an error.
	ValidateAccount(ctx context.Context, code string) (bool, error)

	GetUserFromAuthToken(ctx context.Context, authToken string) (models.Credential, error)

	// GetUserFromRecoveryToken rotates both tokens of the matching credential.
	GetUserFromRecoveryToken(ctx context.Context, recoveryToken string) (models.Credential, error)

	// ReceiveUserData replaces the stored user data wholesale.
	ReceiveUserData(ctx context.Context, ownerID int64, data map[string]any) error
	SendUserData(ctx context.Context, ownerID int64) (map[string]any, error)

	GetUserByID(ctx context.Context, ownerID int64) (models.Credential, error)

	// RequestPasswordReset stores a fresh validation code for email and hands
	// it to the configured [ResetNotifier].
	RequestPasswordReset(ctx context.Context, email string) error
}

// AppInfoService exposes build metadata.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// ResetNotifier delivers password reset codes to account owners.
type ResetNotifier interface {
	NotifyReset(ctx context.Context, cred models.Credential, code string) error
}

// HealthService reports whether the storage behind the services answers.
type HealthService interface {
	Ping(ctx context.Context) error
}
