// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package models

// TagKind distinguishes hashtags from categories in trend output.
type TagKind string

// Tag kinds.
const (
	TagHashtag  TagKind = "hashtag"
	TagCategory TagKind = "category"
)

// TrendWindow holds the counts of a tag in the current window (A) and the
// prior window (B) of equal length. Velocity is CountA / max(CountB, epsilon).
type TrendWindow struct {
	Tag      string  `json:"tag"`
	Kind     TagKind `json:"kind"`
	CountA   int64   `json:"count"`
	CountB   int64   `json:"prior_count"`
	Velocity float64 `json:"velocity"`
}
