// MasterFood Admin - Master Food Reference Dataset Administration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/masterfood

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/masterfood/internal/middleware"
)

// proxyPrefix is the mount point of the raw upstream passthrough.
const proxyPrefix = "/api-proxy"

// Router wires the handler and middleware into a Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil middleware factory uses the defaults.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler

	// Global middleware, applied to all routes in order
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so that OPTIONS preflight is answered
	r.Use(APISecurityHeaders())
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	// Public session endpoints. Login has the strictest limit on top of the
	// per-address lockout in the gate.
	r.With(router.chiMiddleware.RateLimitLogin()).Post("/api/admin", h.Login)
	r.Route("/api/auth", func(r chi.Router) {
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", h.Login)
		r.With(router.chiMiddleware.RateLimit()).Get("/me", h.Me)
		r.Post("/logout", h.Logout)
	})

	// Everything below requires a session.
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.RequireSession)
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(writesOnly(router.chiMiddleware.RateLimitWrite()))

		r.Route("/api", func(r chi.Router) {
			r.Get("/config", h.GetConfig)
			r.Post("/config", h.SetConfig)
			r.Delete("/config", h.ClearConfig)

			r.Get("/search", h.Search)
			r.Get("/search/{query}", h.Search)
			r.Get("/range/{digit}", h.SearchByRange)
			r.Post("/ingredients", h.FetchByIDs)

			r.Post("/food", h.CreateFood)
			r.Patch("/fooditem", h.PatchFoodItem)
			r.Patch("/fooditems", h.PatchFoodItems)
			r.Delete("/ingredient", h.DeleteIngredients)

			r.Get("/nicknames/by-ingredient/{id}", h.NicknamesByIngredient)
			r.Get("/nicknames/by-id/{id}", h.NicknameByID)
			r.Get("/nicknames/search", h.SearchNicknames)
			r.Post("/nickname", h.CreateNickname)
			r.Patch("/nickname", h.PatchNicknames)
			r.Delete("/nickname", h.DeleteNicknames)

			r.Post("/migration", h.MigrateToNickname)
			r.Post("/migration/newfood", h.MigrateNewFood)

			r.Get("/audit", h.AuditEvents)
		})

		r.Handle(proxyPrefix+"/*", http.StripPrefix(proxyPrefix, h.upstream.Forward(WriteError)))
	})

	return r
}
