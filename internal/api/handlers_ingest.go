// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/resonance/internal/analytics"
)

// IngestResponse acknowledges a recorded interaction.
type IngestResponse struct {
	Sequence uint64 `json:"sequence"`
}

// IndexResponse acknowledges indexed content.
type IndexResponse struct {
	ContentID string `json:"content_id"`
}

// IngestInteraction handles POST /api/v1/interactions.
func (h *Handler) IngestInteraction(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in analytics.InteractionInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	seq, err := h.svc.IngestInteraction(ctx, in)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusCreated, start, IngestResponse{Sequence: seq})
}

// IndexContent handles POST /api/v1/content.
func (h *Handler) IndexContent(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var in analytics.ContentInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	if err := h.svc.IndexContent(ctx, in); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondData(w, r, http.StatusCreated, start, IndexResponse{ContentID: in.ContentID})
}
