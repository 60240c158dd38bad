// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package api exposes the engine operations over HTTP using the Chi router.

Endpoints:

	POST /api/v1/interactions                  record an interaction
	POST /api/v1/content                       index a piece of content
	GET  /api/v1/content/{contentID}/similar   similar content (?limit=)
	GET  /api/v1/recommendations/{userID}      recommendations (?kind=content|users&limit=)
	POST /api/v1/analyze/sentiment             sentiment and quality of text
	POST /api/v1/analyze/moderation            moderation verdict for text
	POST /api/v1/predict/engagement            engagement estimate for a draft
	GET  /api/v1/users/{userID}/behavior       behavior profile
	GET  /api/v1/trending                      trending tags (?window_hours=&limit=)
	POST /api/v1/admin/retrain                 start a model rebuild
	GET  /api/v1/admin/model                   model lifecycle status
	GET  /health, /health/live, /health/ready  health probes
	GET  /metrics                              Prometheus metrics

Every JSON response uses the models.APIResponse envelope. Errors carry a
machine readable code:

	VALIDATION_ERROR     400  invalid input (details name the field)
	INVALID_JSON         400  malformed body or unknown field
	UNAUTHORIZED         401  missing or wrong admin token
	NOT_FOUND            404  unknown user or content
	RETRAIN_IN_PROGRESS  409  a rebuild is already running
	PAYLOAD_TOO_LARGE    413  body over server.max_body_bytes
	RATE_LIMIT_EXCEEDED  429  per-IP limit reached
	SERVICE_UNAVAILABLE  503  storage circuit breaker open
	INTERNAL_ERROR       500  anything else

Middleware Stack:

Global: request ID, real IP, panic recovery, CORS, gzip compression.
Under /api/v1: rate limiting, security headers, Prometheus metrics and the
performance monitor. Admin routes additionally require the bearer token
configured as security.admin_token when it is set.
*/
package api
