// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package algorithms implements the scoring models behind the hybrid
// recommender.
//
// # Models
//
// CollaborativeModel:
//   - Sparse user×item matrix built from weighted interaction events
//   - Cosine user-user and item-item neighbors (top-N, computed through an
//     inverted index so only co-engaged rows are compared)
//   - User-based candidate scoring with deterministic tie-breaking
//
// ContentModel:
//   - Smoothed TF-IDF over content terms and hashtags
//   - Content-content cosine neighbors above a minimum similarity
//   - Candidate scoring with recency decay and a same-category boost
//
// Popularity:
//   - Live, time-bucketed interaction counts per content id and per user
//   - Fallback and cold-start source
//
// # Determinism
//
// Both snapshot models are pure functions of their input: neighbor lists
// are sorted by similarity then id, and every map is iterated in key order
// where order affects the result. Building twice from the same events and
// documents yields identical models.
//
// # Thread Safety
//
// CollaborativeModel and ContentModel are immutable once built and safe for
// concurrent reads. Popularity is safe for concurrent use.
package algorithms
