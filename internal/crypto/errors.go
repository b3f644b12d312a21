// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "errors"

var (
	// ErrDecryption is returned when a ciphertext cannot be decoded or
	// decrypted with the private key.
	ErrDecryption = errors.New("decryption failed")

	// ErrInvalidPrivateKey is returned when the private key file does not
	// hold an RSA key in PKCS#1 or PKCS#8 PEM form.
	ErrInvalidPrivateKey = errors.New("invalid rsa private key")

	// ErrInvalidPublicKey is returned when public key bytes are not a PKIX
	// encoded RSA key.
	ErrInvalidPublicKey = errors.New("invalid rsa public key")

	// ErrInvalidSymmetricKey is returned when the configured symmetric key is
	// not hex or is shorter than 32 bytes.
	ErrInvalidSymmetricKey = errors.New("invalid symmetric key")

	// ErrInvalidHashCost is returned for a bcrypt cost outside the allowed range.
	ErrInvalidHashCost = errors.New("invalid password hash cost")
)
