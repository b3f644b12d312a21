// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package http implements the REST transport of the auth service.
//
// Routes are mounted on a chi router. Request tracing, access logging, panic
// recovery, per-request timeouts and bearer authentication are middleware;
// handlers decode the body, call the service layer and translate service
// error categories into status codes (see errors_mapper.go).
package http
