// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8480/metrics

# Available Metrics

Ingestion:
  - resonance_interactions_ingested_total: Recorded events (counter)
    Labels: event_type
  - resonance_ingest_errors_total: Rejected or failed events (counter)
    Labels: reason (validation, storage)
  - resonance_content_indexed_total: Indexed content vectors (counter)

Recommendation:
  - resonance_recommendation_requests_total: Requests (counter)
    Labels: kind (content, users), source (hybrid, popularity)
  - resonance_recommendation_duration_seconds: Latency (histogram)
    Labels: kind

Retraining:
  - resonance_retrain_runs_total: Retrain attempts (counter)
    Labels: result (success, failure, skipped)
  - resonance_retrain_duration_seconds: Build duration (histogram)
  - resonance_model_state: Lifecycle state (gauge)
    Values: 0=cold, 1=building, 2=ready, 3=stale
  - resonance_snapshot_version: Active snapshot version (gauge)

Trends and events:
  - resonance_trending_tags: Size of the last trending set (gauge)
  - resonance_eventbus_messages_total: Bus deliveries (counter)
    Labels: topic, result

Persistence:
  - resonance_persist_write_duration_seconds: BadgerDB write latency (histogram)
    Labels: op
  - resonance_persist_write_errors_total: Failed writes (counter)
    Labels: op
  - resonance_persist_breaker_state: Write breaker state (gauge)
    Values: 0=closed, 1=half-open, 2=open

HTTP:
  - resonance_api_requests_total, resonance_api_request_duration_seconds,
    resonance_api_active_requests
*/
package metrics
