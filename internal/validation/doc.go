// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package validation provides struct validation using go-playground/validator v10.
//
// Every external operation takes a typed input struct whose constraints are
// declared with validate tags and checked here, at the boundary, before any
// scoring code runs.
//
// # Overview
//
// The package provides:
//   - Thread-safe singleton validator (initialized once, cached struct info)
//   - Field names taken from json tags, so messages match the wire format
//   - Custom tags: notblank, event_type, rec_kind, hashtag
//   - Conversion to models.ValidationError and to the API error envelope
//
// # Quick Start
//
//	type InteractionInput struct {
//	    UserID    string `json:"user_id" validate:"required,notblank,max=128"`
//	    EventType string `json:"event_type" validate:"required,event_type"`
//	}
//
//	if verr := validation.ValidateStruct(&in); verr != nil {
//	    return verr.ModelError()
//	}
//
// A *RequestValidationError also satisfies errors.Is(err, models.ErrValidation).
//
// # Thread Safety
//
// GetValidator and ValidateStruct are safe for concurrent use.
package validation
