// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config provides configuration loading, merging, and validation
// facilities for the go-divide server.
//
// Configuration is assembled from multiple sources (later sources override
// earlier non-zero fields):
//  1. JSON config file
//  2. Environment variables
//  3. Command-line flags
//
// Defaults fill the remaining zero fields. The entry point is
// [GetStructuredConfig].
package config
