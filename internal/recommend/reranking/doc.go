// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package reranking implements post-processing for recommendation diversity.
//
// Reranking is applied after the hybrid blend:
//
//	Collaborative + Content -> Blend -> Diversity -> Truncate
//
// # Diversity
//
// Diversity caps runs of consecutive items that share a category or an
// author. It makes a single greedy pass over the ranked list, always taking
// the first remaining item that does not extend a run past MaxRun, so items
// of the same category keep their relative order. When every remaining item
// would violate the cap, the constraint is relaxed and the first remaining
// item is taken.
//
// Items without metadata, or with an empty category/author, never count
// towards a run.
//
// # Thread Safety
//
// Diversity holds no mutable state and is safe for concurrent use.
package reranking
