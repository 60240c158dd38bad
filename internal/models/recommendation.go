// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package models

import (
	"strings"
	"time"
)

// RecommendationKind selects what is being recommended.
type RecommendationKind string

// Recommendation kinds.
const (
	KindContent RecommendationKind = "content"
	KindUsers   RecommendationKind = "users"
)

// ParseRecommendationKind converts a string to a RecommendationKind.
// An empty string defaults to KindContent.
func ParseRecommendationKind(s string) (RecommendationKind, error) {
	switch RecommendationKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindContent:
		return KindContent, nil
	case KindUsers:
		return KindUsers, nil
	default:
		return "", NewValidationError("kind", "unknown recommendation kind %q", s)
	}
}

// RecommendationSource labels where a ranked list came from.
type RecommendationSource string

// Recommendation sources.
const (
	SourceHybrid        RecommendationSource = "hybrid"
	SourceCollaborative RecommendationSource = "collaborative"
	SourcePopularity    RecommendationSource = "popularity"
)

// ScoredID is a ranked entry: a content or user id with its score in [0, 1].
type ScoredID struct {
	ID      string   `json:"id"`
	Score   float64  `json:"score"`
	Sources []string `json:"sources,omitempty"`
}

// Recommendations is the ranked response for one request.
type Recommendations struct {
	UserID          string               `json:"user_id"`
	Kind            RecommendationKind   `json:"kind"`
	Source          RecommendationSource `json:"source"`
	Items           []ScoredID           `json:"items"`
	SnapshotVersion int64                `json:"snapshot_version"`
	GeneratedAt     time.Time            `json:"generated_at"`
}
