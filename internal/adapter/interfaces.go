// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the Go client of the auth HTTP API.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-divide/models"
)

// AuthClient talks to a running server. Passwords are passed in plaintext
// and encrypted with the server's public key before they leave the process.
// Successful sign-up, sign-in and recovery calls remember the returned auth
// token for the calls that need one.
type AuthClient interface {
	// PublicKey returns the server's PKIX DER public key. The first result
	// is cached for the lifetime of the client.
	PublicKey(ctx context.Context) ([]byte, error)

	SignUp(ctx context.Context, email, password string) (models.CredentialResponse, error)
	SignIn(ctx context.Context, email, password string) (models.CredentialResponse, error)

	// RequestReset asks the server to issue a reset code for email.
	RequestReset(ctx context.Context, email string) error

	// CompleteReset signs in with the reset code, setting newPassword.
	CompleteReset(ctx context.Context, email, newPassword, code string) (models.CredentialResponse, error)

	Validate(ctx context.Context, code string) (bool, error)
	Recover(ctx context.Context, recoveryToken string) (models.CredentialResponse, error)

	CurrentUser(ctx context.Context) (models.CredentialResponse, error)
	UserData(ctx context.Context) (map[string]any, error)
	PutUserData(ctx context.Context, data map[string]any) (map[string]any, error)

	ServerVersion(ctx context.Context) (string, error)

	SetToken(token string)
	Token() string
}
