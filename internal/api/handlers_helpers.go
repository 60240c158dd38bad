// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/resonance/internal/logging"
	"github.com/tomtom215/resonance/internal/models"
)

// sanitizeLogValue escapes control characters to prevent log injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData sends a success envelope.
func respondData(w http.ResponseWriter, r *http.Request, status int, start time.Time, data interface{}) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondAPIError sends an error envelope. err, when given, is logged and
// never sent to the client.
func respondAPIError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	meta := models.Metadata{Timestamp: time.Now()}
	if r != nil {
		meta.RequestID = logging.RequestIDFromContext(r.Context())
	}

	if err != nil {
		event := logging.Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Error()
		}
		event.Str("code", apiErr.Code).
			Int("status", status).
			Str("request_id", meta.RequestID).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Data:     nil,
		Metadata: meta,
		Error:    apiErr,
	})
}

// decodeJSON reads a single JSON object into dst. Unknown fields and
// trailing data are rejected, and the body is capped at MaxBodyBytes.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondAPIError(w, r, http.StatusRequestEntityTooLarge, &models.APIError{
				Code:    ErrCodePayloadTooLarge,
				Message: fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit),
			}, nil)
			return false
		}
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeInvalidJSON,
			Message: "Failed to read request body",
		}, nil)
		return false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeInvalidJSON,
			Message: "Request body is empty",
		}, nil)
		return false
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	err = dec.Decode(dst)
	if err == nil {
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after JSON object")
		}
	}
	if err != nil {
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeInvalidJSON,
			Message: "Invalid JSON: " + sanitizeLogValue(err.Error()),
		}, nil)
		return false
	}
	return true
}

// intQuery parses an optional positive integer query parameter. An absent
// parameter yields 0, which the service replaces with its default.
func intQuery(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError(key, "must be an integer, got %q", raw)
	}
	if v < 1 {
		return 0, models.NewValidationError(key, "must be positive, got %d", v)
	}
	return v, nil
}
