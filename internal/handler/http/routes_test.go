// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/service"
	"github.com/MKhiriev/go-divide/models"
)

// fullMock answers every call successfully so that routing alone decides
// the status code.
func fullMock() *mockAuthService {
	m := &mockAuthService{
		signUpFn:   func(_ context.Context, _ models.Credential) (models.Credential, error) { return signedIn, nil },
		signInFn:   func(_ context.Context, _ models.Credential) (models.Credential, error) { return signedIn, nil },
		publicKey:  []byte("der"),
		validateFn: func(_ context.Context, _ string) (bool, error) { return true, nil },
		fromRecoveryFn: func(_ context.Context, _ string) (models.Credential, error) {
			return signedIn, nil
		},
		receiveUserDataFn: func(_ context.Context, _ int64, _ map[string]any) error { return nil },
		sendUserDataFn:    func(_ context.Context, _ int64) (map[string]any, error) { return map[string]any{}, nil },
		getUserByIDFn:     func(_ context.Context, _ int64) (models.Credential, error) { return signedIn, nil },
		requestResetFn:    func(_ context.Context, _ string) error { return nil },
	}
	return withTokenOwner(m, 7)
}

func TestInit_Routes(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		bearer     string
		wantStatus int
	}{
		{name: "version", method: http.MethodGet, path: "/api/version", wantStatus: http.StatusOK},
		{name: "public key", method: http.MethodGet, path: "/api/auth/key", wantStatus: http.StatusOK},
		{name: "sign up", method: http.MethodPost, path: "/api/auth/signup", body: `{}`, wantStatus: http.StatusCreated},
		{name: "sign in", method: http.MethodPost, path: "/api/auth/signin", body: `{}`, wantStatus: http.StatusOK},
		{name: "reset", method: http.MethodPost, path: "/api/auth/reset", body: `{}`, wantStatus: http.StatusAccepted},
		{name: "validate", method: http.MethodGet, path: "/api/auth/validate/abc", wantStatus: http.StatusOK},
		{name: "recover", method: http.MethodPost, path: "/api/auth/recover", body: `{}`, wantStatus: http.StatusOK},
		{name: "current user", method: http.MethodGet, path: "/api/auth/user", bearer: "good", wantStatus: http.StatusOK},
		{name: "current user without token", method: http.MethodGet, path: "/api/auth/user", wantStatus: http.StatusUnauthorized},
		{name: "get data", method: http.MethodGet, path: "/api/user/data", bearer: "good", wantStatus: http.StatusOK},
		{name: "put data", method: http.MethodPut, path: "/api/user/data", body: `{}`, bearer: "good", wantStatus: http.StatusOK},
		{name: "data with forged token", method: http.MethodGet, path: "/api/user/data", bearer: "forged", wantStatus: http.StatusBadRequest},
		{name: "data without token", method: http.MethodPut, path: "/api/user/data", body: `{}`, wantStatus: http.StatusUnauthorized},
		{name: "unknown route", method: http.MethodGet, path: "/api/unknown", wantStatus: http.StatusNotFound},
		{name: "wrong method", method: http.MethodGet, path: "/api/auth/signup", wantStatus: http.StatusMethodNotAllowed},
	}

	router := newHandlerWithAuth(t, fullMock()).Init()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.bearer != "" {
				req.Header.Set("Authorization", "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
		})
	}
}

func TestInit_RecoversPanics(t *testing.T) {
	m := fullMock()
	m.signUpFn = func(_ context.Context, _ models.Credential) (models.Credential, error) {
		panic("boom")
	}
	router := newHandlerWithAuth(t, m).Init()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestInit_RequestTimeoutCancelsContext(t *testing.T) {
	m := fullMock()
	var ctxErr error
	m.sendUserDataFn = func(ctx context.Context, _ int64) (map[string]any, error) {
		<-ctx.Done()
		ctxErr = ctx.Err()
		return nil, service.ErrInternal
	}

	h := NewHandler(&service.Services{AuthService: m, AppInfoService: &mockAppInfoService{}}, 20*time.Millisecond, logger.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/user/data", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()

	h.Init().ServeHTTP(rec, req)

	require.ErrorIs(t, ctxErr, context.DeadlineExceeded)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
