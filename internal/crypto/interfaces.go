// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_mock.go -package=mock

import "crypto/rsa"

// KeyManager owns the process-wide key material.
//
// The RSA key pair protects passwords in transit: clients encrypt with the
// public key, only the server decrypts. The symmetric key is used exclusively
// to sign tokens. Keys are loaded once at startup and never rotated, so a
// KeyManager is safe for concurrent reads.
type KeyManager interface {
	// PublicKey returns the RSA public key.
	PublicKey() *rsa.PublicKey

	// EncodedPublicKey returns the public key as PKIX (SubjectPublicKeyInfo)
	// DER bytes, the form handed out to clients.
	EncodedPublicKey() []byte

	// SymmetricKey returns the token signing key.
	SymmetricKey() []byte

	// Decrypt decrypts a base64 RSA-OAEP (SHA-256) ciphertext produced with
	// the public key.
	Decrypt(ciphertextB64 string) (string, error)
}

// PasswordHasher hashes passwords for storage and verifies them.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Check reports whether password matches hash. The comparison is
	// constant-time.
	Check(hash, password string) bool
}
