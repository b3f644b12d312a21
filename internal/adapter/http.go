// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-divide/internal/crypto"
	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/utils"
	"github.com/MKhiriev/go-divide/models"
)

// DefaultTimeout applies when Config.Timeout is not positive.
const DefaultTimeout = 15 * time.Second

// Config locates the server.
type Config struct {
	// Address is "host:port" or a full base URL.
	Address string
	Timeout time.Duration
}

type httpAuthClient struct {
	client *resty.Client

	mu        sync.RWMutex
	token     string
	publicKey []byte

	logger *logger.Logger
}

// NewHTTPAuthClient returns an [AuthClient] for the server at cfg.Address.
func NewHTTPAuthClient(cfg Config, logger *logger.Logger) (AuthClient, error) {
	baseURL, err := normalizeBaseURL(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json")

	return &httpAuthClient{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpAuthClient) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpAuthClient) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

func (h *httpAuthClient) PublicKey(ctx context.Context) ([]byte, error) {
	h.mu.RLock()
	key := h.publicKey
	h.mu.RUnlock()
	if key != nil {
		return key, nil
	}

	resp, err := h.client.R().SetContext(ctx).Get("/api/auth/key")
	if err != nil {
		return nil, fmt.Errorf("public key request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	key = resp.Body()
	h.mu.Lock()
	h.publicKey = key
	h.mu.Unlock()

	return key, nil
}

func (h *httpAuthClient) SignUp(ctx context.Context, email, password string) (models.CredentialResponse, error) {
	return h.sendCredential(ctx, "/api/auth/signup", email, password, "")
}

func (h *httpAuthClient) SignIn(ctx context.Context, email, password string) (models.CredentialResponse, error) {
	return h.sendCredential(ctx, "/api/auth/signin", email, password, "")
}

func (h *httpAuthClient) CompleteReset(ctx context.Context, email, newPassword, code string) (models.CredentialResponse, error) {
	return h.sendCredential(ctx, "/api/auth/signin", email, newPassword, code)
}

func (h *httpAuthClient) RequestReset(ctx context.Context, email string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ResetRequest{EmailAddress: email}).
		Post("/api/auth/reset")
	if err != nil {
		return fmt.Errorf("reset request: %w", err)
	}

	return mapHTTPError(resp)
}

func (h *httpAuthClient) Validate(ctx context.Context, code string) (bool, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("code", code).
		Get("/api/auth/validate/{code}")
	if err != nil {
		return false, fmt.Errorf("validate request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return false, err
	}

	var out models.ValidationResponse
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return false, fmt.Errorf("decode validate response: %w", err)
	}

	return out.Validated, nil
}

// Recover exchanges recoveryToken for fresh tokens and keeps the new auth
// token.
func (h *httpAuthClient) Recover(ctx context.Context, recoveryToken string) (models.CredentialResponse, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RecoveryRequest{RecoveryToken: recoveryToken}).
		Post("/api/auth/recover")
	if err != nil {
		return models.CredentialResponse{}, fmt.Errorf("recover request: %w", err)
	}

	return h.decodeCredential(resp)
}

func (h *httpAuthClient) CurrentUser(ctx context.Context) (models.CredentialResponse, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return models.CredentialResponse{}, err
	}

	resp, err := req.Get("/api/auth/user")
	if err != nil {
		return models.CredentialResponse{}, fmt.Errorf("current user request: %w", err)
	}

	return h.decodeCredential(resp)
}

func (h *httpAuthClient) UserData(ctx context.Context) (map[string]any, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := req.Get("/api/user/data")
	if err != nil {
		return nil, fmt.Errorf("user data request: %w", err)
	}

	return decodeUserData(resp)
}

func (h *httpAuthClient) PutUserData(ctx context.Context, data map[string]any) (map[string]any, error) {
	req, err := h.authedRequest(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string]any{}
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(data).
		Put("/api/user/data")
	if err != nil {
		return nil, fmt.Errorf("put user data request: %w", err)
	}

	return decodeUserData(resp)
}

func (h *httpAuthClient) ServerVersion(ctx context.Context) (string, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/version")
	if err != nil {
		return "", fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(string(resp.Body())), nil
}

// sendCredential encrypts password with the server key and posts the
// credential request to path.
func (h *httpAuthClient) sendCredential(ctx context.Context, path, email, password, validation string) (models.CredentialResponse, error) {
	key, err := h.PublicKey(ctx)
	if err != nil {
		return models.CredentialResponse{}, err
	}

	cipher, err := crypto.EncryptWithPublicKey(key, password)
	if err != nil {
		return models.CredentialResponse{}, fmt.Errorf("encrypt password: %w", err)
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.CredentialRequest{EmailAddress: email, Password: cipher, Validation: validation}).
		Post(path)
	if err != nil {
		return models.CredentialResponse{}, fmt.Errorf("%s request: %w", path, err)
	}

	return h.decodeCredential(resp)
}

// decodeCredential maps the response and stores the returned auth token.
// The Authorization header wins over the body when both are present.
func (h *httpAuthClient) decodeCredential(resp *resty.Response) (models.CredentialResponse, error) {
	if err := mapHTTPError(resp); err != nil {
		return models.CredentialResponse{}, err
	}

	var out models.CredentialResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return models.CredentialResponse{}, fmt.Errorf("decode credential response: %w", err)
	}

	token := out.AuthToken
	if header := resp.Header().Get("Authorization"); header != "" {
		if bearer, err := utils.ParseBearerToken(header); err == nil {
			token = bearer
		} else {
			h.logger.Warn().Err(err).Str("func", "*httpAuthClient.decodeCredential").Msg("ignoring malformed Authorization header")
		}
	}
	if token != "" {
		h.SetToken(token)
	}

	return out, nil
}

func (h *httpAuthClient) authedRequest(ctx context.Context) (*resty.Request, error) {
	token := h.Token()
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	return h.client.R().SetContext(ctx).SetAuthToken(token), nil
}

func decodeUserData(resp *resty.Response) (map[string]any, error) {
	if err := mapHTTPError(resp); err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode user data: %w", err)
	}
	if out == nil {
		out = map[string]any{}
	}

	return out, nil
}
