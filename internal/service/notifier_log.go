// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/models"
)

// logNotifier records that a reset code was issued without delivering it.
// It is the default until a mail or push transport is configured. The code
// itself never reaches the log.
type logNotifier struct {
	logger *logger.Logger
}

// NewLogNotifier returns a [ResetNotifier] that only logs the owner id of
// every reset request.
func NewLogNotifier(logger *logger.Logger) ResetNotifier {
	return &logNotifier{logger: logger}
}

func (n *logNotifier) NotifyReset(ctx context.Context, cred models.Credential, code string) error {
	n.logger.Info().
		Str("func", "logNotifier.NotifyReset").
		Int64("owner_id", cred.OwnerID).
		Msg("password reset code issued, no delivery transport configured")
	return nil
}
