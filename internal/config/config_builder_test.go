// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validBase returns a config that passes validation on its own.
func validBase() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:      "issuer",
			TokenDuration:    time.Hour,
			PasswordHashCost: 10,
		},
		Storage: Storage{DB: DB{Driver: DriverMemory}},
		Server:  Server{HTTPAddress: "localhost:8080", RequestTimeout: time.Second},
	}
}

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
	assert.Nil(t, b.defaults)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_LaterSourcesOverride(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		validBase(),
		&StructuredConfig{App: App{TokenIssuer: "override"}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "override", cfg.App.TokenIssuer)
	assert.Equal(t, time.Hour, cfg.App.TokenDuration)
}

func TestBuild_DefaultsFillGaps(t *testing.T) {
	cfg, err := newConfigBuilder().withDefaults().build()
	require.NoError(t, err)

	assert.Equal(t, DefaultTokenIssuer, cfg.App.TokenIssuer)
	assert.Equal(t, DefaultTokenDuration, cfg.App.TokenDuration)
	assert.Equal(t, DefaultClockSkew, cfg.App.ClockSkew)
	assert.Equal(t, DefaultPasswordHashCost, cfg.App.PasswordHashCost)
	assert.Equal(t, DefaultDriver, cfg.Storage.DB.Driver)
	assert.Equal(t, DefaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
}

func TestBuild_DefaultsDoNotOverrideSources(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{App: App{TokenIssuer: "mine"}})

	cfg, err := b.withDefaults().build()
	require.NoError(t, err)
	assert.Equal(t, "mine", cfg.App.TokenIssuer)
}

func TestBuild_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *StructuredConfig)
		wantErr error
	}{
		{"short symmetric key", func(c *StructuredConfig) { c.App.SymmetricKey = "abcd" }, ErrInvalidAppConfigs},
		{"non hex symmetric key", func(c *StructuredConfig) { c.App.SymmetricKey = strings.Repeat("z", 64) }, ErrInvalidAppConfigs},
		{"hash cost too low", func(c *StructuredConfig) { c.App.PasswordHashCost = 2 }, ErrInvalidAppConfigs},
		{"hash cost too high", func(c *StructuredConfig) { c.App.PasswordHashCost = 40 }, ErrInvalidAppConfigs},
		{"unknown driver", func(c *StructuredConfig) { c.Storage.DB.Driver = "mongo" }, ErrInvalidStorageConfigs},
		{"postgres without dsn", func(c *StructuredConfig) { c.Storage.DB.Driver = DriverPostgres }, ErrInvalidStorageConfigs},
		{"sqlite without dsn", func(c *StructuredConfig) { c.Storage.DB.Driver = DriverSQLite }, ErrInvalidStorageConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := validBase()
			tt.mutate(base)

			b := newConfigBuilder()
			b.configs = append(b.configs, base)

			cfg, err := b.build()
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuild_ValidSymmetricKey(t *testing.T) {
	base := validBase()
	base.App.SymmetricKey = strings.Repeat("ab", 32)

	b := newConfigBuilder()
	b.configs = append(b.configs, base)

	_, err := b.build()
	assert.NoError(t, err)
}

func TestWithEnv_ReadsEnvVars(t *testing.T) {
	setEnvVars(t, map[string]string{"APP_TOKEN_ISSUER": "env-issuer"})

	b := newConfigBuilder()
	assert.Same(t, b, b.withEnv())

	require.Len(t, b.configs, 1)
	assert.Equal(t, "env-issuer", b.configs[0].App.TokenIssuer)
}

func TestWithFlags_SetsErrorOnBadArgs(t *testing.T) {
	b := newConfigBuilder().withFlags([]string{"-a", "bad"})
	assert.Error(t, b.err)
	assert.Empty(t, b.configs)
}

func TestWithJSON_NoOp_WhenNoPathSet(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_PrependsConfig(t *testing.T) {
	p := writeJSONFile(t, `{"app": {"token_issuer": "json-issuer", "token_duration": "2h"}}`)

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{
		JSONFilePath: p,
		App:          App{TokenIssuer: "flag-issuer"},
	})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "json-issuer", b.configs[0].App.TokenIssuer)

	cfg, err := b.withDefaults().build()
	require.NoError(t, err)
	assert.Equal(t, "flag-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
}

func TestWithJSON_SetsError_WhenFileNotFound(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/nonexistent/config.json"})
	b.withJSON()

	assert.Error(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestGetStructuredConfig(t *testing.T) {
	setEnvVars(t, map[string]string{
		"APP_TOKEN_ISSUER":  "env-issuer",
		"STORAGE_DB_DRIVER": "sqlite",
	})

	cfg, err := GetStructuredConfig([]string{"-d", "file:divide.db", "-token-issuer", "flag-issuer"})
	require.NoError(t, err)

	assert.Equal(t, "flag-issuer", cfg.App.TokenIssuer)
	assert.Equal(t, DB{Driver: DriverSQLite, DSN: "file:divide.db"}, cfg.Storage.DB)
	assert.Equal(t, DefaultTokenDuration, cfg.App.TokenDuration)
}
