// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/service"
	"github.com/MKhiriev/go-divide/models"
)

// mockAuthService implements service.AuthService. Each test sets only the
// functions it expects to be called; any other call panics.
type mockAuthService struct {
	signUpFn          func(ctx context.Context, req models.Credential) (models.Credential, error)
	signInFn          func(ctx context.Context, req models.Credential) (models.Credential, error)
	publicKey         []byte
	validateFn        func(ctx context.Context, code string) (bool, error)
	fromAuthTokenFn   func(ctx context.Context, authToken string) (models.Credential, error)
	fromRecoveryFn    func(ctx context.Context, recoveryToken string) (models.Credential, error)
	receiveUserDataFn func(ctx context.Context, ownerID int64, data map[string]any) error
	sendUserDataFn    func(ctx context.Context, ownerID int64) (map[string]any, error)
	getUserByIDFn     func(ctx context.Context, ownerID int64) (models.Credential, error)
	requestResetFn    func(ctx context.Context, email string) error
}

func (m *mockAuthService) UserSignUp(ctx context.Context, req models.Credential) (models.Credential, error) {
	return m.signUpFn(ctx, req)
}

func (m *mockAuthService) UserSignIn(ctx context.Context, req models.Credential) (models.Credential, error) {
	return m.signInFn(ctx, req)
}

func (m *mockAuthService) GetPublicKey(_ context.Context) []byte {
	return m.publicKey
}

func (m *mockAuthService) ValidateAccount(ctx context.Context, code string) (bool, error) {
	return m.validateFn(ctx, code)
}

func (m *mockAuthService) GetUserFromAuthToken(ctx context.Context, authToken string) (models.Credential, error) {
	return m.fromAuthTokenFn(ctx, authToken)
}

func (m *mockAuthService) GetUserFromRecoveryToken(ctx context.Context, recoveryToken string) (models.Credential, error) {
	return m.fromRecoveryFn(ctx, recoveryToken)
}

func (m *mockAuthService) ReceiveUserData(ctx context.Context, ownerID int64, data map[string]any) error {
	return m.receiveUserDataFn(ctx, ownerID, data)
}

func (m *mockAuthService) SendUserData(ctx context.Context, ownerID int64) (map[string]any, error) {
	return m.sendUserDataFn(ctx, ownerID)
}

func (m *mockAuthService) GetUserByID(ctx context.Context, ownerID int64) (models.Credential, error) {
	return m.getUserByIDFn(ctx, ownerID)
}

func (m *mockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	return m.requestResetFn(ctx, email)
}

// mockAppInfoService implements service.AppInfoService.
type mockAppInfoService struct {
	version string
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func newHandlerWithAuth(t *testing.T, auth service.AuthService) *Handler {
	t.Helper()
	return NewHandler(&service.Services{
		AuthService:    auth,
		AppInfoService: &mockAppInfoService{version: "test"},
	}, 0, logger.Nop())
}

// withTokenOwner returns an auth mock accepting token "good" for ownerID.
func withTokenOwner(m *mockAuthService, ownerID int64) *mockAuthService {
	m.fromAuthTokenFn = func(_ context.Context, authToken string) (models.Credential, error) {
		if authToken != "good" {
			return models.Credential{}, service.ErrInvalidAuthToken
		}
		return models.Credential{Key: "key-owner", OwnerID: ownerID}, nil
	}
	return m
}

var signedIn = models.Credential{
	Key:           "key-1",
	OwnerID:       7,
	EmailAddress:  "a@x.com",
	Password:      "bcrypt-hash",
	AuthToken:     "auth.jwt",
	RecoveryToken: "recovery.jwt",
	UserData:      map[string]any{"theme": "dark"},
}
