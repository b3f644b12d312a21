// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-divide/internal/config"
	"github.com/MKhiriev/go-divide/internal/logger"
)

const (
	// rsaKeyBits is the size of generated transport keys.
	rsaKeyBits = 2048

	// SymmetricKeySize is the minimal (and generated) token key length in bytes.
	SymmetricKeySize = 32
)

// keyManager is the private implementation of [KeyManager].
type keyManager struct {
	privateKey   *rsa.PrivateKey
	publicKeyDER []byte
	symmetricKey []byte
}

// NewKeyManager loads the key material described by cfg.
//
// The RSA private key is read from cfg.PrivateKeyPath (PKCS#8 or PKCS#1 PEM).
// When the file does not exist a new key is generated and written there with
// 0600 permissions; when the path is empty the generated key lives in memory
// only. cfg.SymmetricKey is hex encoded; when empty a random key is generated,
// which invalidates every issued token on restart.
//
// Any error here is meant to abort startup.
func NewKeyManager(cfg config.App, log *logger.Logger) (KeyManager, error) {
	privateKey, err := loadOrGeneratePrivateKey(cfg.PrivateKeyPath, log)
	if err != nil {
		return nil, err
	}

	symmetricKey, err := parseOrGenerateSymmetricKey(cfg.SymmetricKey, log)
	if err != nil {
		return nil, err
	}

	return NewKeyManagerFromKeys(privateKey, symmetricKey)
}

// NewKeyManagerFromKeys builds a [KeyManager] around already loaded keys.
func NewKeyManagerFromKeys(privateKey *rsa.PrivateKey, symmetricKey []byte) (KeyManager, error) {
	if privateKey == nil {
		return nil, ErrInvalidPrivateKey
	}
	if len(symmetricKey) < SymmetricKeySize {
		return nil, fmt.Errorf("%w: need at least %d bytes, got %d", ErrInvalidSymmetricKey, SymmetricKeySize, len(symmetricKey))
	}

	der, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}

	key := make([]byte, len(symmetricKey))
	copy(key, symmetricKey)

	return &keyManager{
		privateKey:   privateKey,
		publicKeyDER: der,
		symmetricKey: key,
	}, nil
}

// PublicKey implements [KeyManager].
func (k *keyManager) PublicKey() *rsa.PublicKey {
	return &k.privateKey.PublicKey
}

// EncodedPublicKey implements [KeyManager]. The returned slice is a copy.
func (k *keyManager) EncodedPublicKey() []byte {
	out := make([]byte, len(k.publicKeyDER))
	copy(out, k.publicKeyDER)
	return out
}

// SymmetricKey implements [KeyManager].
func (k *keyManager) SymmetricKey() []byte {
	return k.symmetricKey
}

// Decrypt implements [KeyManager].
func (k *keyManager) Decrypt(ciphertextB64 string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextB64)
	if err != nil {
		return "", fmt.Errorf("%w: decode base64: %w", ErrDecryption, err)
	}

	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, k.privateKey, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	return string(plaintext), nil
}

// EncryptWithPublicKey encrypts plaintext for the server owning the PKIX DER
// encoded public key and returns base64 ciphertext. This is the client half
// of [KeyManager.Decrypt].
func EncryptWithPublicKey(publicKeyDER []byte, plaintext string) (string, error) {
	parsed, err := x509.ParsePKIXPublicKey(publicKeyDER)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPublicKey, err)
	}

	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrInvalidPublicKey, parsed)
	}

	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, publicKey, []byte(plaintext), nil)
	if err != nil {
		return "", fmt.Errorf("encrypt: %w", err)
	}

	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func loadOrGeneratePrivateKey(path string, log *logger.Logger) (*rsa.PrivateKey, error) {
	if path == "" {
		log.Warn().Str("func", "loadOrGeneratePrivateKey").Msg("no private key path configured, using an in-memory key")
		return rsa.GenerateKey(rand.Reader, rsaKeyBits)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		log.Info().Str("func", "loadOrGeneratePrivateKey").Str("path", path).Msg("loading private key")
		return parsePrivateKeyPEM(data)
	case errors.Is(err, fs.ErrNotExist):
		// generated below
	default:
		return nil, fmt.Errorf("read private key: %w", err)
	}

	log.Info().Str("func", "loadOrGeneratePrivateKey").Str("path", path).Msg("private key not found, generating a new one")

	privateKey, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate private key: %w", err)
	}

	if err = writePrivateKeyPEM(path, privateKey); err != nil {
		return nil, err
	}

	return privateKey, nil
}

func parsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidPrivateKey)
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrInvalidPrivateKey, key)
		}
		return rsaKey, nil
	}

	rsaKey, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPrivateKey, err)
	}

	return rsaKey, nil
}

func writePrivateKeyPEM(path string, privateKey *rsa.PrivateKey) error {
	der, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return fmt.Errorf("marshal private key: %w", err)
	}

	if err = os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create private key directory: %w", err)
	}

	data := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}

	return nil
}

func parseOrGenerateSymmetricKey(hexKey string, log *logger.Logger) ([]byte, error) {
	if hexKey != "" {
		key, err := hex.DecodeString(hexKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidSymmetricKey, err)
		}
		return key, nil
	}

	log.Warn().Str("func", "parseOrGenerateSymmetricKey").Msg("no symmetric key configured, tokens will not survive a restart")

	key := make([]byte, SymmetricKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate symmetric key: %w", err)
	}

	return key, nil
}
