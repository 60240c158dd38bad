// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/resonance/internal/logging"
	"github.com/tomtom215/resonance/internal/models"
)

// RetrainResponse reports whether a rebuild was started.
type RetrainResponse struct {
	Started bool `json:"started"`
}

// Retrain handles POST /api/v1/admin/retrain.
// The rebuild runs in the background; poll /api/v1/admin/model for the result.
func (h *Handler) Retrain(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// The build outlives the request.
	if !h.svc.TriggerRetrain(context.WithoutCancel(r.Context())) {
		respondAPIError(w, r, http.StatusConflict, &models.APIError{
			Code:    ErrCodeRetrainInProgress,
			Message: "A retrain is already in progress",
		}, nil)
		return
	}

	logging.Ctx(r.Context()).Info().Msg("Retrain requested via API")
	respondData(w, r, http.StatusAccepted, start, RetrainResponse{Started: true})
}

// ModelStatus handles GET /api/v1/admin/model.
func (h *Handler) ModelStatus(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, time.Now(), h.svc.ModelStatus())
}
