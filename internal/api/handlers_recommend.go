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

// GetRecommendations handles GET /api/v1/recommendations/{userID}
// Returns ranked content, or users with kind=users.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := intQuery(r, "limit")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	recs, err := h.svc.GetRecommendations(ctx, analytics.RecommendationInput{
		UserID: chi.URLParam(r, "userID"),
		Kind:   r.URL.Query().Get("kind"),
		Limit:  limit,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, start, recs)
}

// SimilarContent handles GET /api/v1/content/{contentID}/similar
func (h *Handler) SimilarContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	limit, err := intQuery(r, "limit")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	items, err := h.svc.SimilarContent(ctx, chi.URLParam(r, "contentID"), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusOK, start, items)
}
