// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package middleware provides HTTP middleware shared by the API router.

Key Components:

  - RequestID: X-Request-ID propagation and correlation IDs for logging
  - Prometheus: request count, latency and in-flight instrumentation
  - PerformanceMonitor: rolling latency percentiles per route, reported by /health

All middleware has the func(http.Handler) http.Handler shape expected by chi.
Metrics and the performance monitor label requests by chi route pattern
(for example /api/v1/users/{userID}/behavior) rather than the raw path, so
user and content ids never become label values.

Usage:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Prometheus)
	r.Use(perfMon.Middleware)

See Also:

  - internal/api: handlers wrapped by this middleware
  - internal/metrics: Prometheus metric definitions
*/
package middleware
