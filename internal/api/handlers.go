// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"context"
	"time"

	"github.com/tomtom215/resonance/internal/analytics"
	"github.com/tomtom215/resonance/internal/engagement"
	"github.com/tomtom215/resonance/internal/middleware"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/sentiment"
)

// defaultMaxBodyBytes applies when HandlerConfig leaves MaxBodyBytes unset.
const defaultMaxBodyBytes = 1 << 20

// Service is the set of engine operations served over HTTP.
// *analytics.Service implements it.
type Service interface {
	IngestInteraction(ctx context.Context, in analytics.InteractionInput) (uint64, error)
	IndexContent(ctx context.Context, in analytics.ContentInput) error
	GetRecommendations(ctx context.Context, in analytics.RecommendationInput) (*models.Recommendations, error)
	SimilarContent(ctx context.Context, contentID string, limit int) ([]models.ScoredID, error)
	AnalyzeSentiment(ctx context.Context, text string) (sentiment.Result, error)
	ModerateContent(ctx context.Context, text string) (sentiment.ModerationResult, error)
	PredictEngagement(ctx context.Context, in analytics.PredictionInput) (engagement.Prediction, error)
	GetUserBehavior(ctx context.Context, userID string) (models.BehaviorProfile, error)
	GetTrending(ctx context.Context, windowHours, limit int) ([]models.TrendWindow, error)
	TriggerRetrain(ctx context.Context) bool
	ModelStatus() recommend.Status
	Stats() analytics.Stats
}

// StorageHealth reports the persistence circuit breaker state.
// *persist.Store implements it.
type StorageHealth interface {
	BreakerState() string
}

// HandlerConfig holds the handler settings taken from the server config.
type HandlerConfig struct {
	Version      string
	MaxBodyBytes int64

	// RequestTimeout bounds each engine call. Zero leaves the request
	// context as is.
	RequestTimeout time.Duration
}

// Handler serves the API endpoints.
//
// Handler methods are split across files by concern:
//   - handlers_ingest.go: interaction and content writes
//   - handlers_recommend.go: recommendations and similar content
//   - handlers_analyze.go: sentiment, moderation, prediction, behavior, trends
//   - handlers_admin.go: retrain and model status
//   - handlers_health.go: health probes
type Handler struct {
	svc       Service
	storage   StorageHealth
	config    HandlerConfig
	perfMon   *middleware.PerformanceMonitor
	startTime time.Time
}

// NewHandler creates a handler. storage may be nil when running without
// persistence.
func NewHandler(svc Service, storage StorageHealth, cfg HandlerConfig) *Handler {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	return &Handler{
		svc:       svc,
		storage:   storage,
		config:    cfg,
		perfMon:   middleware.NewPerformanceMonitor(1000),
		startTime: time.Now(),
	}
}

// PerformanceMonitor returns the monitor fed by the API middleware.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}

// requestContext applies the configured per-request timeout.
func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.config.RequestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.config.RequestTimeout)
}
