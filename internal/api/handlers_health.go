// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/resonance/internal/analytics"
	"github.com/tomtom215/resonance/internal/middleware"
	"github.com/tomtom215/resonance/internal/models"
)

// breakerOpen is the gobreaker name of the open state.
const breakerOpen = "open"

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status    string                     `json:"status"`
	Version   string                     `json:"version"`
	Uptime    float64                    `json:"uptime_seconds"`
	Storage   string                     `json:"storage"`
	Engine    analytics.Stats            `json:"engine"`
	Endpoints []middleware.EndpointStats `json:"endpoints,omitempty"`
}

func (h *Handler) storageState() string {
	if h.storage == nil {
		return "memory"
	}
	return h.storage.BreakerState()
}

// Health handles GET /health.
// Storage with an open circuit breaker reports "degraded"; reads keep working.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	storage := h.storageState()
	status := "healthy"
	if storage == breakerOpen {
		status = "degraded"
	}

	respondData(w, r, http.StatusOK, start, HealthStatus{
		Status:    status,
		Version:   h.config.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Storage:   storage,
		Engine:    h.svc.Stats(),
		Endpoints: h.perfMon.Stats(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, r, http.StatusOK, time.Now(), map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Returns 503 while storage rejects writes.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	storage := h.storageState()
	if storage == breakerOpen {
		respondAPIError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeServiceUnavailable,
			Message: "Storage circuit breaker is open",
		}, nil)
		return
	}

	respondData(w, r, http.StatusOK, time.Now(), map[string]interface{}{
		"ready":   true,
		"storage": storage,
		"model":   h.svc.ModelStatus().State,
	})
}
