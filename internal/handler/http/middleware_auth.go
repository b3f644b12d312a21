// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/utils"
)

// auth resolves the bearer auth token to a credential and stores it in the
// request context under [utils.CredentialCtxKey].
//
// A missing or malformed header is rejected with 401. Token failures go
// through [errorStatuses] like any other service error, so a token that
// fails verification is 500, not 400.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		ctx := r.Context()
		cred, err := h.services.AuthService.GetUserFromAuthToken(ctx, tokenString)
		if err != nil {
			writeError(w, log, "*Handler.auth", err)
			return
		}

		next.ServeHTTP(w, r.WithContext(utils.WithCredential(ctx, cred)))
	})
}
