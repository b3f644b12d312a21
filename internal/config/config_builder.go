// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

type configBuilder struct {
	configs  []*StructuredConfig
	defaults *StructuredConfig
	err      error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges the collected configs in order, later non-zero fields
// overriding earlier ones, fills the remaining gaps from defaults and
// validates the result.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if b.defaults != nil {
		if err := mergo.Merge(config, b.defaults); err != nil {
			return nil, fmt.Errorf("error applying defaults: %w", err)
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flags, err := ParseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("error parsing flags: %w", err))
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

// withJSON loads the JSON file named by any earlier source and puts it first
// so that env and flags still override it.
func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			jsonPath = cfg.JSONFilePath
		}
	}

	if jsonPath == "" {
		return b
	}

	jsonCfg, err := parseJSON(jsonPath)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.configs = append([]*StructuredConfig{jsonCfg}, b.configs...)

	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.defaults = &StructuredConfig{
		App: App{
			TokenIssuer:      DefaultTokenIssuer,
			TokenDuration:    DefaultTokenDuration,
			ClockSkew:        DefaultClockSkew,
			PasswordHashCost: DefaultPasswordHashCost,
		},
		Storage: Storage{
			DB: DB{Driver: DefaultDriver},
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
	}
	return b
}
