// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package analytics

import "time"

// InteractionInput is an interaction reported by a collaborator.
type InteractionInput struct {
	UserID    string `json:"user_id" validate:"required,notblank,max=128"`
	ContentID string `json:"content_id" validate:"required,notblank,max=128"`
	EventType string `json:"event_type" validate:"required,event_type"`

	// Timestamp defaults to the time of ingestion.
	Timestamp time.Time `json:"timestamp"`

	// Weight overrides the configured event-type weight.
	Weight *float64 `json:"weight,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// ContentInput is a piece of content to index.
type ContentInput struct {
	ContentID string   `json:"content_id" validate:"required,notblank,max=128"`
	Text      string   `json:"text" validate:"max=10000"`
	Hashtags  []string `json:"hashtags" validate:"max=50,dive,hashtag"`
	Category  string   `json:"category" validate:"max=64"`
	AuthorID  string   `json:"author_id" validate:"max=128"`

	// CreatedAt defaults to the time of indexing.
	CreatedAt time.Time `json:"created_at"`
}

// RecommendationInput selects what to recommend to whom.
type RecommendationInput struct {
	UserID string `json:"user_id" validate:"required,notblank,max=128"`
	Kind   string `json:"kind" validate:"omitempty,rec_kind"`

	// Limit of 0 uses the configured default.
	Limit int `json:"limit" validate:"gte=0"`
}

// PredictionInput is a draft post to score.
type PredictionInput struct {
	Text     string   `json:"text" validate:"max=10000"`
	Hashtags []string `json:"hashtags" validate:"max=50,dive,hashtag"`
	Category string   `json:"category" validate:"max=64"`

	// PostAt is the planned posting time. Zero leaves out the hour and
	// weekday factors.
	PostAt time.Time `json:"post_at"`
}

// TrendingInput selects the trend window.
type TrendingInput struct {
	// WindowHours of 0 uses the configured default window. The upper bound
	// is a year; the detector narrows it to what retention can answer.
	WindowHours int `json:"window_hours" validate:"gte=0,lte=8760"`

	// Limit of 0 returns up to 20 tags.
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

// TextInput carries free text for sentiment and moderation.
type TextInput struct {
	Text string `json:"text" validate:"required,notblank,max=10000"`
}
