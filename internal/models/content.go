// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package models

import "time"

// ContentFeatureVector is the indexed representation of a piece of content.
// Terms holds L2-normalized term frequencies keyed by token; hashtags appear
// as "#tag" tokens. Vectors are never mutated after creation.
type ContentFeatureVector struct {
	ContentID string             `json:"content_id"`
	Terms     map[string]float64 `json:"terms"`
	Category  string             `json:"category,omitempty"`
	Hashtags  []string           `json:"hashtags,omitempty"`
	AuthorID  string             `json:"author_id,omitempty"`
	CreatedAt time.Time          `json:"created_at"`

	// Sequence numbers first-time publications in indexing order. A
	// re-indexed document keeps the sequence of its first publication.
	Sequence uint64 `json:"sequence,omitempty"`
}

// ContentMeta is the subset of content metadata used while ranking.
type ContentMeta struct {
	Category  string    `json:"category,omitempty"`
	AuthorID  string    `json:"author_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Meta returns the ranking metadata of the vector.
func (v *ContentFeatureVector) Meta() ContentMeta {
	return ContentMeta{Category: v.Category, AuthorID: v.AuthorID, CreatedAt: v.CreatedAt}
}
