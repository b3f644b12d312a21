// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"net/http"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/utils"
)

func (h *Handler) getUserData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	cred, ok := utils.GetCredentialFromContext(r.Context())
	if !ok {
		log.Err(ErrMissingCredential).Str("func", "*Handler.getUserData").Send()
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	data, err := h.services.AuthService.SendUserData(r.Context(), cred.OwnerID)
	if err != nil {
		writeError(w, log, "*Handler.getUserData", err)
		return
	}
	if data == nil {
		data = map[string]any{}
	}

	if _, err = utils.WriteJSON(w, data, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.getUserData").Msg("error writing response")
	}
}

// putUserData replaces the caller's user data with the JSON object in the
// body and echoes what was stored.
func (h *Handler) putUserData(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	cred, ok := utils.GetCredentialFromContext(r.Context())
	if !ok {
		log.Err(ErrMissingCredential).Str("func", "*Handler.putUserData").Send()
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	var data map[string]any
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		log.Err(err).Str("func", "*Handler.putUserData").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.ReceiveUserData(r.Context(), cred.OwnerID, data); err != nil {
		writeError(w, log, "*Handler.putUserData", err)
		return
	}
	if data == nil {
		data = map[string]any{}
	}

	if _, err := utils.WriteJSON(w, data, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.putUserData").Msg("error writing response")
	}
}
