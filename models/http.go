// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// CredentialRequest is what a client sends for sign-up and sign-in.
// Password is the plaintext password encrypted with the server's public key
// (RSA-OAEP, SHA-256) and base64 encoded.
type CredentialRequest struct {
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`

	// Validation carries the reset code when the client completes a password
	// reset through sign-in.
	Validation string `json:"validation,omitempty"`
}

// CredentialResponse is the client-visible view of a credential.
// The password hash and the validation code never leave the server.
type CredentialResponse struct {
	OwnerID       int64          `json:"owner_id"`
	AuthToken     string         `json:"auth_token"`
	RecoveryToken string         `json:"recovery_token"`
	UserData      map[string]any `json:"user_data"`
}

// ResetRequest starts a password reset for EmailAddress.
type ResetRequest struct {
	EmailAddress string `json:"email_address"`
}

// RecoveryRequest exchanges a recovery token for a fresh session.
type RecoveryRequest struct {
	RecoveryToken string `json:"recovery_token"`
}

// ValidationResponse reports whether a validation code matched an account.
type ValidationResponse struct {
	Validated bool `json:"validated"`
}

// ToCredential converts the request into a transient Credential.
func (r CredentialRequest) ToCredential() Credential {
	c := Credential{
		EmailAddress: r.EmailAddress,
		Password:     r.Password,
	}
	if r.Validation != "" {
		validation := r.Validation
		c.Validation = &validation
	}
	return c
}

// NewCredentialResponse builds the client-visible view of c.
func NewCredentialResponse(c Credential) CredentialResponse {
	userData := cloneMap(c.UserData)
	if userData == nil {
		userData = map[string]any{}
	}
	return CredentialResponse{
		OwnerID:       c.OwnerID,
		AuthToken:     c.AuthToken,
		RecoveryToken: c.RecoveryToken,
		UserData:      userData,
	}
}
