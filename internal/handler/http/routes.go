// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init builds the router with every route and middleware mounted.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(h.withTraceID, h.withLogging, middleware.Recoverer)
	if h.requestTimeout > 0 {
		router.Use(middleware.Timeout(h.requestTimeout))
	}
	router.Use(middleware.Compress(5, "application/json"))

	router.Get("/api/version", h.getServerVersion)

	router.Route("/api/auth", func(r chi.Router) {
		r.Get("/key", h.publicKey)
		r.Post("/signup", h.signUp)
		r.Post("/signin", h.signIn)
		r.Post("/reset", h.requestReset)
		r.Get("/validate/{code}", h.validate)
		r.Post("/recover", h.recoverSession)

		r.With(h.auth).Get("/user", h.currentUser)
	})

	// routes with authorization
	router.Route("/api/user", func(r chi.Router) {
		r.Use(h.auth)
		r.Get("/data", h.getUserData)
		r.Put("/data", h.putUserData)
	})

	return router
}
