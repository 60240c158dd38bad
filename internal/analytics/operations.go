// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/resonance/internal/content"
	"github.com/tomtom215/resonance/internal/engagement"
	"github.com/tomtom215/resonance/internal/logging"
	"github.com/tomtom215/resonance/internal/metrics"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/sentiment"
	"github.com/tomtom215/resonance/internal/validation"
)

// IngestInteraction records an interaction and returns its sequence
// number. Once it returns, the event is visible to queries, behavior
// profiles and the popularity and trend counters. Models pick it up at the
// next retrain.
func (s *Service) IngestInteraction(ctx context.Context, in InteractionInput) (uint64, error) {
	if err := validation.Struct(&in); err != nil {
		metrics.RecordIngest("", "validation")
		return 0, err
	}
	eventType, err := models.ParseEventType(in.EventType)
	if err != nil {
		metrics.RecordIngest("", "validation")
		return 0, err
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	e := models.InteractionEvent{
		UserID:    strings.TrimSpace(in.UserID),
		ContentID: strings.TrimSpace(in.ContentID),
		Type:      eventType,
		Timestamp: ts.UTC(),
		Weight:    in.Weight,
	}

	seq, err := s.deps.Interactions.Record(ctx, e)
	if err != nil {
		metrics.RecordIngest("", ingestFailureReason(err))
		return 0, err
	}
	e.Sequence = seq
	metrics.RecordIngest(string(eventType), "")

	s.publishInteraction(ctx, &e)

	logging.Ctx(ctx).Debug().
		Uint64("sequence", seq).
		Str("user_id", e.UserID).
		Str("content_id", e.ContentID).
		Str("event_type", string(e.Type)).
		Msg("Interaction recorded")
	return seq, nil
}

func ingestFailureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrValidation):
		return "validation"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "journal"
	}
}

// publishInteraction hands e to the counters. The event is already
// durable, so a delivery failure is logged and the event stays pending
// until the next restore counts it.
func (s *Service) publishInteraction(ctx context.Context, e *models.InteractionEvent) {
	if s.deps.Bus == nil {
		_ = s.countInteraction(ctx, *e)
		return
	}
	if err := s.deps.Bus.PublishInteraction(ctx, e); err != nil {
		s.logger.Warn().Err(err).Uint64("sequence", e.Sequence).Msg("Failed to publish interaction")
	}
}

// IndexContent vectorizes and stores a document, superseding any earlier
// version. Publication counts toward trends only the first time a content
// id is indexed.
func (s *Service) IndexContent(ctx context.Context, in ContentInput) error {
	if err := validation.Struct(&in); err != nil {
		return err
	}

	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	vec, created, err := s.deps.Content.Index(ctx, &content.Document{
		ContentID: strings.TrimSpace(in.ContentID),
		Text:      in.Text,
		Hashtags:  in.Hashtags,
		Category:  in.Category,
		AuthorID:  in.AuthorID,
		CreatedAt: createdAt,
	})
	if err != nil {
		return err
	}
	metrics.ContentIndexed.Inc()
	if !created {
		return nil
	}

	if s.deps.Bus == nil {
		_ = s.countContent(ctx, *vec)
		return nil
	}
	if err := s.deps.Bus.PublishContent(ctx, vec); err != nil {
		s.logger.Warn().Err(err).Str("content_id", vec.ContentID).Msg("Failed to publish content")
	}
	return nil
}

// GetRecommendations ranks content or users for a user.
func (s *Service) GetRecommendations(ctx context.Context, in RecommendationInput) (*models.Recommendations, error) {
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}
	kind, err := models.ParseRecommendationKind(in.Kind)
	if err != nil {
		return nil, err
	}
	limit := in.Limit
	if limit == 0 {
		limit = s.deps.Engine.Config().Limits.DefaultLimit
	}
	return s.deps.Engine.Recommend(ctx, recommend.Request{
		UserID: in.UserID,
		Kind:   kind,
		Limit:  limit,
		Now:    s.now(),
	})
}

// SimilarContent returns the items most similar to contentID. A limit of 0
// uses the configured default.
func (s *Service) SimilarContent(ctx context.Context, contentID string, limit int) ([]models.ScoredID, error) {
	if limit == 0 {
		limit = s.deps.Engine.Config().Limits.DefaultLimit
	}
	return s.deps.Engine.SimilarContent(ctx, contentID, limit)
}

// AnalyzeSentiment scores the sentiment and quality of text.
func (s *Service) AnalyzeSentiment(_ context.Context, text string) (sentiment.Result, error) {
	if err := validation.Struct(&TextInput{Text: text}); err != nil {
		return sentiment.Result{}, err
	}
	return s.deps.Scorer.Score(text)
}

// ModerateContent checks text against the moderation rules.
func (s *Service) ModerateContent(_ context.Context, text string) (sentiment.ModerationResult, error) {
	if err := validation.Struct(&TextInput{Text: text}); err != nil {
		return sentiment.ModerationResult{}, err
	}
	return s.deps.Scorer.Moderate(text)
}

// PredictEngagement estimates the engagement of a draft post. It reads no
// clock: without PostAt the posting-time factors are left out.
func (s *Service) PredictEngagement(_ context.Context, in PredictionInput) (engagement.Prediction, error) {
	if err := validation.Struct(&in); err != nil {
		return engagement.Prediction{}, err
	}
	return s.deps.Predictor.Predict(engagement.Draft{
		Text:     in.Text,
		Hashtags: in.Hashtags,
		Category: in.Category,
		PostAt:   in.PostAt,
	}), nil
}

// GetUserBehavior returns the behavior profile of a user.
func (s *Service) GetUserBehavior(ctx context.Context, userID string) (models.BehaviorProfile, error) {
	return s.deps.Behavior.Analyze(ctx, userID, s.now())
}

// GetTrending returns the trending hashtags and categories over the last
// windowHours hours. Zero values use the configured window and a limit of 20.
func (s *Service) GetTrending(_ context.Context, windowHours, limit int) ([]models.TrendWindow, error) {
	in := TrendingInput{WindowHours: windowHours, Limit: limit}
	if err := validation.Struct(&in); err != nil {
		return nil, err
	}

	w := s.deps.Trends.Config().DefaultWindow
	if in.WindowHours > 0 {
		w = time.Duration(in.WindowHours) * time.Hour
	}
	if limit == 0 {
		limit = defaultTrendLimit
	}

	out, err := s.deps.Trends.Trending(s.now(), w, limit)
	if err != nil {
		return nil, fmt.Errorf("trending: %w", err)
	}
	return out, nil
}

// TriggerRetrain starts a background rebuild and reports whether one was
// started. It is a no-op while a build is running.
func (s *Service) TriggerRetrain(ctx context.Context) bool {
	started := s.deps.Engine.TriggerRetrain(logging.ContextWithNewCorrelationID(ctx))
	if started {
		s.logger.Info().Msg("Retrain triggered")
	}
	return started
}

// ModelStatus returns the recommendation model lifecycle status.
func (s *Service) ModelStatus() recommend.Status {
	return s.deps.Engine.Status()
}
