// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt cost used when none is configured.
const DefaultHashCost = 10

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher returns a bcrypt backed [PasswordHasher]. Every hash gets
// its own random salt.
func NewPasswordHasher(cost int) (PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidHashCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &bcryptHasher{cost: cost}, nil
}

// Hash implements [PasswordHasher].
func (b *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Check implements [PasswordHasher].
func (b *bcryptHasher) Check(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
