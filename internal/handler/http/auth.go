// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-divide/internal/logger"
	"github.com/MKhiriev/go-divide/internal/utils"
	"github.com/MKhiriev/go-divide/models"
)

func (h *Handler) publicKey(w http.ResponseWriter, r *http.Request) {
	key := h.services.AuthService.GetPublicKey(r.Context())

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	w.Write(key)
}

func (h *Handler) signUp(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.signUp").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	cred, err := h.services.AuthService.UserSignUp(r.Context(), req.ToCredential())
	if err != nil {
		writeError(w, log, "*Handler.signUp", err)
		return
	}

	log.Info().Int64("owner_id", cred.OwnerID).Msg("user signed up")
	h.writeCredential(w, r, cred, http.StatusCreated)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.CredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.signIn").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	cred, err := h.services.AuthService.UserSignIn(r.Context(), req.ToCredential())
	if err != nil {
		writeError(w, log, "*Handler.signIn", err)
		return
	}

	log.Debug().Int64("owner_id", cred.OwnerID).Msg("user signed in")

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", cred.AuthToken))
	h.writeCredential(w, r, cred, http.StatusOK)
}

func (h *Handler) requestReset(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.requestReset").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.RequestPasswordReset(r.Context(), req.EmailAddress); err != nil {
		writeError(w, log, "*Handler.requestReset", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (h *Handler) validate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	validated, err := h.services.AuthService.ValidateAccount(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, log, "*Handler.validate", err)
		return
	}

	if _, err = utils.WriteJSON(w, models.ValidationResponse{Validated: validated}, http.StatusOK); err != nil {
		log.Err(err).Str("func", "*Handler.validate").Msg("error writing response")
	}
}

func (h *Handler) recoverSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	var req models.RecoveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Str("func", "*Handler.recoverSession").Msg("Invalid JSON was passed")
		http.Error(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	cred, err := h.services.AuthService.GetUserFromRecoveryToken(r.Context(), req.RecoveryToken)
	if err != nil {
		writeError(w, log, "*Handler.recoverSession", err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", cred.AuthToken))
	h.writeCredential(w, r, cred, http.StatusOK)
}

// currentUser answers with the credential the auth middleware resolved.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	cred, ok := utils.GetCredentialFromContext(r.Context())
	if !ok {
		log.Err(ErrMissingCredential).Str("func", "*Handler.currentUser").Send()
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	h.writeCredential(w, r, cred, http.StatusOK)
}

func (h *Handler) writeCredential(w http.ResponseWriter, r *http.Request, cred models.Credential, status int) {
	if _, err := utils.WriteJSON(w, models.NewCredentialResponse(cred), status); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.writeCredential").Msg("error writing response")
	}
}
