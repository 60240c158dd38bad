// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/resonance/internal/middleware"
	"github.com/tomtom215/resonance/internal/models"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(chimiddleware.Compress(5, "application/json"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondAPIError(w, r, http.StatusNotFound, &models.APIError{Code: ErrCodeNotFound, Message: "Route not found"}, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondAPIError(w, r, http.StatusMethodNotAllowed, &models.APIError{Code: ErrCodeMethodNotAllowed, Message: "Method not allowed"}, nil)
	})

	// ========================
	// Health and Metrics
	// ========================
	r.Get("/health", h.Health)
	r.Get("/health/live", h.HealthLive)
	r.Get("/health/ready", h.HealthReady)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.Prometheus)
		r.Use(h.perfMon.Middleware)

		r.Post("/interactions", h.IngestInteraction)
		r.Post("/content", h.IndexContent)
		r.Get("/content/{contentID}/similar", h.SimilarContent)
		r.Get("/recommendations/{userID}", h.GetRecommendations)
		r.Get("/users/{userID}/behavior", h.UserBehavior)
		r.Get("/trending", h.Trending)

		r.Post("/analyze/sentiment", h.AnalyzeSentiment)
		r.Post("/analyze/moderation", h.ModerateContent)
		r.Post("/predict/engagement", h.PredictEngagement)

		r.Route("/admin", func(r chi.Router) {
			r.Use(router.chiMiddleware.AdminAuth())
			r.Post("/retrain", h.Retrain)
			r.Get("/model", h.ModelStatus)
		})
	})

	return r
}
