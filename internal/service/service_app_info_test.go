// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/models"
)

func TestNewAppInfoService_Success(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("1.0.0", "2026-01-01", "abc"), logger.Nop())

	require.NoError(t, err)
	require.NotNil(t, svc)
}

func TestNewAppInfoService_EmptyVersion_ReturnsError(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("", "2026-01-01", "abc"), logger.Nop())

	assert.Nil(t, svc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrVersionIsNotSpecified))
}

func TestGetAppVersion_ReturnsConfiguredVersion(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("v1.2.3-beta+build.42", "", ""), logger.Nop())
	require.NoError(t, err)

	assert.Equal(t, "v1.2.3-beta+build.42", svc.GetAppVersion(context.Background()))
}

func TestGetAppVersion_CancelledContext_StillReturnsVersion(t *testing.T) {
	svc, err := NewAppInfoService(models.NewAppBuildInfo("1.0.0", "", ""), logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "1.0.0", svc.GetAppVersion(ctx))
}
