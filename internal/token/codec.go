// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package token issues and verifies the auth and recovery tokens handed to
// clients. Tokens are HS256 JWTs signed with the key manager's symmetric key.
package token

//go:generate mockgen -source=codec.go -destination=../mock/token_mock.go -package=mock

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MKhiriev/go-divide/internal/clock"
	"github.com/MKhiriev/go-divide/internal/crypto"
	"github.com/MKhiriev/go-divide/models"
)

// Kind distinguishes auth tokens from recovery tokens. A token of one kind
// never parses as the other.
type Kind string

const (
	KindAuth     Kind = "auth"
	KindRecovery Kind = "recovery"
)

// Claims is the JWT payload.
type Claims struct {
	Email string `json:"email"`
	Kind  Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// Token is a parsed, signature-verified token.
type Token struct {
	Raw       string
	Kind      Kind
	OwnerID   int64
	Email     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec issues and verifies tokens.
type Codec interface {
	// Issue returns a signed token of kind for cred, expiring after the
	// configured lifetime.
	Issue(kind Kind, cred models.Credential) (string, error)

	// Parse verifies raw and returns its contents. Expiration is not checked
	// here; use IsExpired. Every failure is ErrAuthentication.
	Parse(kind Kind, raw string) (Token, error)

	// IsExpired reports whether now is past the token's expiration plus the
	// allowed clock skew.
	IsExpired(t Token) bool
}

type jwtCodec struct {
	keys   crypto.KeyManager
	clock  clock.Clock
	ttl    time.Duration
	skew   time.Duration
	issuer string
	parser *jwt.Parser
}

// NewCodec returns a JWT backed [Codec].
func NewCodec(keys crypto.KeyManager, clk clock.Clock, ttl, skew time.Duration, issuer string) (Codec, error) {
	if keys == nil || clk == nil || issuer == "" || ttl <= 0 || skew < 0 {
		return nil, ErrInvalidCodecParams
	}

	return &jwtCodec{
		keys:   keys,
		clock:  clk,
		ttl:    ttl,
		skew:   skew,
		issuer: issuer,
		// Time based claims are checked by IsExpired against the injected
		// clock, so the parser only verifies structure and signature.
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

func (c *jwtCodec) Issue(kind Kind, cred models.Credential) (string, error) {
	if kind != KindAuth && kind != KindRecovery {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := c.clock.Now()
	claims := &Claims{
		Email: cred.EmailAddress,
		Kind:  kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   strconv.FormatInt(cred.OwnerID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.keys.SymmetricKey())
	if err != nil {
		return "", fmt.Errorf("error occurred during signing token: %w", err)
	}

	return signed, nil
}

func (c *jwtCodec) Parse(kind Kind, raw string) (Token, error) {
	claims := &Claims{}
	_, err := c.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.keys.SymmetricKey(), nil
	})
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrAuthentication, err)
	}

	if claims.Kind != kind {
		return Token{}, fmt.Errorf("%w: expected %s token, got %q", ErrAuthentication, kind, claims.Kind)
	}
	if claims.Issuer != c.issuer {
		return Token{}, fmt.Errorf("%w: unexpected issuer %q", ErrAuthentication, claims.Issuer)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return Token{}, fmt.Errorf("%w: missing time claims", ErrAuthentication)
	}

	ownerID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("%w: invalid subject: %w", ErrAuthentication, err)
	}

	return Token{
		Raw:       raw,
		Kind:      claims.Kind,
		OwnerID:   ownerID,
		Email:     claims.Email,
		ID:        claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (c *jwtCodec) IsExpired(t Token) bool {
	return c.clock.Now().After(t.ExpiresAt.Add(c.skew))
}
