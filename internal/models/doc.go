// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package models defines the data structures shared across Resonance.

Key Components:

  - InteractionEvent: an immutable user-content engagement event (view, like,
    comment, share, follow) with its store-assigned sequence number
  - ContentFeatureVector: per-content normalized term frequencies plus category,
    hashtags and author, produced by the content index
  - BehaviorProfile: per-user activity rate, engagement level and churn risk
  - TrendWindow: two-window counts and velocity for a hashtag or category
  - Recommendations: ranked (id, score) output of the hybrid ranker
  - APIResponse: standardized HTTP response envelope

Errors:

ValidationError and NotFoundError form the error taxonomy surfaced to callers.
Both support errors.Is against ErrValidation and ErrNotFound so transport layers
can map them without type switches.
*/
package models
