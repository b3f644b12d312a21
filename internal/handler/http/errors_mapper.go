// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/service"
)

// errorStatuses is checked in order; the first category err wraps wins.
var errorStatuses = []struct {
	target error
	status int
}{
	{service.ErrConflict, http.StatusConflict},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrBadRequest, http.StatusBadRequest},
	{service.ErrInternal, http.StatusInternalServerError},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and answers with the status of its category. Client
// errors echo the message; server errors only the status text.
func writeError(w http.ResponseWriter, log *logger.Logger, funcName string, err error) {
	status := statusFromError(err)

	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")

	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	http.Error(w, msg, status)
}
