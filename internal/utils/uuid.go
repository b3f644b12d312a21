// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import "github.com/google/uuid"

// NewKey returns a fresh object key. Version 7 UUIDs sort by creation time,
// so key-ordered results list objects oldest first. Falls back to a random
// v4 when the v7 generator fails.
func NewKey() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
