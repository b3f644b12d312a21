// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-divide/internal/store"
	"github.com/MKhiriev/go-divide/models"
)

type healthService struct {
	dao store.DAO
}

// NewHealthService probes dao with a credential count.
func NewHealthService(dao store.DAO) HealthService {
	return &healthService{dao: dao}
}

func (h *healthService) Ping(ctx context.Context) error {
	if _, err := h.dao.Count(ctx, models.CredentialType); err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return nil
}
