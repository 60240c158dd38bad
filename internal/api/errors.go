// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/persist"
	"github.com/tomtom215/resonance/internal/validation"
)

// Error codes for API responses
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	ErrCodeRetrainInProgress  = "RETRAIN_IN_PROGRESS"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// respondServiceError maps an engine error onto a status and error code.
// Internal errors are logged in full and reported generically.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		reqErr   *validation.RequestValidationError
		fieldErr *models.ValidationError
	)

	switch {
	case errors.As(err, &reqErr):
		respondAPIError(w, r, http.StatusBadRequest, reqErr.ToAPIError(), nil)
	case errors.As(err, &fieldErr):
		apiErr := &models.APIError{Code: ErrCodeValidation, Message: fieldErr.Error()}
		if fieldErr.Field != "" {
			apiErr.Details = map[string]interface{}{"field": fieldErr.Field}
		}
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
	case errors.Is(err, models.ErrValidation):
		respondAPIError(w, r, http.StatusBadRequest, &models.APIError{Code: ErrCodeValidation, Message: err.Error()}, nil)
	case errors.Is(err, models.ErrNotFound):
		respondAPIError(w, r, http.StatusNotFound, &models.APIError{Code: ErrCodeNotFound, Message: err.Error()}, nil)
	case errors.Is(err, persist.ErrUnavailable), errors.Is(err, persist.ErrClosed):
		respondAPIError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    ErrCodeServiceUnavailable,
			Message: "Storage is temporarily unavailable",
		}, err)
	case errors.Is(err, context.DeadlineExceeded):
		respondAPIError(w, r, http.StatusGatewayTimeout, &models.APIError{
			Code:    ErrCodeTimeout,
			Message: "Request timed out",
		}, err)
	default:
		respondAPIError(w, r, http.StatusInternalServerError, &models.APIError{
			Code:    ErrCodeInternal,
			Message: "Internal server error",
		}, err)
	}
}
