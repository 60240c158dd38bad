// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/resonance/internal/analytics"
)

// AnalyzeSentiment handles POST /api/v1/analyze/sentiment.
func (h *Handler) AnalyzeSentiment(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in analytics.TextInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	res, err := h.svc.AnalyzeSentiment(r.Context(), in.Text)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, start, res)
}

// ModerateContent handles POST /api/v1/analyze/moderation.
func (h *Handler) ModerateContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in analytics.TextInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	res, err := h.svc.ModerateContent(r.Context(), in.Text)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, start, res)
}

// PredictEngagement handles POST /api/v1/predict/engagement.
func (h *Handler) PredictEngagement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in analytics.PredictionInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	pred, err := h.svc.PredictEngagement(r.Context(), in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, start, pred)
}

// UserBehavior handles GET /api/v1/users/{userID}/behavior.
func (h *Handler) UserBehavior(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	profile, err := h.svc.GetUserBehavior(ctx, chi.URLParam(r, "userID"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, start, profile)
}

// Trending handles GET /api/v1/trending?window_hours=&limit=
func (h *Handler) Trending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	windowHours, err := intQuery(r, "window_hours")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	tags, err := h.svc.GetTrending(r.Context(), windowHours, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, start, tags)
}
