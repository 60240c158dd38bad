// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package analytics is the single entry point for every operation the engine
exposes. The HTTP API and the server wiring talk to a Service and never to
the component packages directly.

# Operations

Write side:
  - IngestInteraction: validate, sequence, journal and store an event, then
    publish it so popularity and trend counters observe it
  - IndexContent: vectorize and store a document, then publish it on first
    indexing so its publication counts toward trends

Read side:
  - GetRecommendations, SimilarContent
  - AnalyzeSentiment, ModerateContent
  - PredictEngagement
  - GetUserBehavior
  - GetTrending

Model lifecycle:
  - TriggerRetrain, ModelStatus

Maintenance, driven by the supervisor:
  - Restore: reload content, replay the journal and the saved counters
  - FlushCounters: save popularity and trend counters with a sequence
    checkpoint
  - Prune: drop counter buckets past retention

# Errors

Input problems are returned as errors matching models.ErrValidation;
unknown users and content match models.ErrNotFound. Everything else is an
internal failure.
*/
package analytics
