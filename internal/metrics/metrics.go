// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ingestion Metrics
	InteractionsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_interactions_ingested_total",
			Help: "Total number of interaction events recorded",
		},
		[]string{"event_type"},
	)

	IngestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_ingest_errors_total",
			Help: "Total number of interaction or content ingestion failures",
		},
		[]string{"reason"},
	)

	ContentIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "resonance_content_indexed_total",
			Help: "Total number of content feature vectors indexed",
		},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_recommendation_requests_total",
			Help: "Total number of recommendation requests by kind and result source",
		},
		[]string{"kind", "source"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resonance_recommendation_duration_seconds",
			Help:    "Recommendation latency in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5},
		},
		[]string{"kind"},
	)

	// Retrain Metrics
	RetrainRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_retrain_runs_total",
			Help: "Total number of retrain attempts by result",
		},
		[]string{"result"},
	)

	RetrainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resonance_retrain_duration_seconds",
			Help:    "Duration of snapshot builds in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		},
	)

	ModelState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonance_model_state",
			Help: "Model lifecycle state (0=cold, 1=building, 2=ready, 3=stale)",
		},
	)

	SnapshotVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonance_snapshot_version",
			Help: "Version of the active model snapshot",
		},
	)

	// Trend and Event Bus Metrics
	TrendingTags = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonance_trending_tags",
			Help: "Number of tags in the most recent trending set",
		},
	)

	EventBusMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_eventbus_messages_total",
			Help: "Total number of event bus messages handled by topic and result",
		},
		[]string{"topic", "result"},
	)

	// Persistence Metrics
	PersistWriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resonance_persist_write_duration_seconds",
			Help:    "BadgerDB write latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	PersistWriteErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_persist_write_errors_total",
			Help: "Total number of failed BadgerDB writes",
		},
		[]string{"op"},
	)

	PersistBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonance_persist_breaker_state",
			Help: "Persist write circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resonance_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonance_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)
)

// RecordIngest records an ingestion outcome. A non-empty reason marks a failure.
func RecordIngest(eventType, reason string) {
	if reason != "" {
		IngestErrors.WithLabelValues(reason).Inc()
		return
	}
	InteractionsIngested.WithLabelValues(eventType).Inc()
}

// RecordRecommendation records a served recommendation request.
func RecordRecommendation(kind, source string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(kind, source).Inc()
	RecommendationDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRetrain records a retrain attempt. Skipped attempts carry no duration.
func RecordRetrain(result string, duration time.Duration) {
	RetrainRuns.WithLabelValues(result).Inc()
	if result != "skipped" {
		RetrainDuration.Observe(duration.Seconds())
	}
}

// RecordPersistWrite records a BadgerDB write.
func RecordPersistWrite(op string, duration time.Duration, err error) {
	PersistWriteDuration.WithLabelValues(op).Observe(duration.Seconds())
	if err != nil {
		PersistWriteErrors.WithLabelValues(op).Inc()
	}
}

// RecordEventBusMessage records a handled bus message.
func RecordEventBusMessage(topic string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	EventBusMessages.WithLabelValues(topic, result).Inc()
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
