// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/behavior"
	"github.com/tomtom215/resonance/internal/content"
	"github.com/tomtom215/resonance/internal/engagement"
	"github.com/tomtom215/resonance/internal/eventbus"
	"github.com/tomtom215/resonance/internal/interactions"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/persist"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/recommend/algorithms"
	"github.com/tomtom215/resonance/internal/sentiment"
	"github.com/tomtom215/resonance/internal/trends"
	"github.com/tomtom215/resonance/internal/window"
)

// defaultTrendLimit applies when GetTrending is called without a limit.
const defaultTrendLimit = 20

// Publisher fans accepted writes out to counter maintainers.
type Publisher interface {
	PublishInteraction(ctx context.Context, e *models.InteractionEvent) error
	PublishContent(ctx context.Context, v *models.ContentFeatureVector) error
}

// Subscriber registers counter maintainers.
type Subscriber interface {
	OnInteraction(name string, fn eventbus.InteractionHandler) error
	OnContent(name string, fn eventbus.ContentHandler) error
}

// CounterStore persists bucket counters.
type CounterStore interface {
	SaveCounters(ctx context.Context, name string, snap window.Snapshot, cp persist.Checkpoint) error
	LoadCounters(ctx context.Context, name string) (window.Snapshot, persist.Checkpoint, error)
}

// Dependencies are the components behind the Service.
type Dependencies struct {
	Interactions *interactions.Store
	Content      *content.Index
	Engine       *recommend.Engine
	Popularity   *algorithms.Popularity
	Scorer       *sentiment.Scorer
	Predictor    *engagement.Predictor
	Behavior     *behavior.Analyzer
	Trends       *trends.Detector

	// Bus delivers accepted writes to the counters. Nil observes them
	// directly on the calling goroutine.
	Bus Publisher

	// Counters persists popularity and trend counters. Nil disables
	// FlushCounters and counter restore.
	Counters CounterStore
}

// Service implements every engine operation. It is safe for concurrent use.
type Service struct {
	deps   Dependencies
	logger zerolog.Logger
	now    func() time.Time
}

// NewService checks that every required component is present.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewService(deps Dependencies, logger zerolog.Logger) (*Service, error) {
	switch {
	case deps.Interactions == nil:
		return nil, errors.New("interaction store is required")
	case deps.Content == nil:
		return nil, errors.New("content index is required")
	case deps.Engine == nil:
		return nil, errors.New("recommendation engine is required")
	case deps.Popularity == nil:
		return nil, errors.New("popularity counters are required")
	case deps.Scorer == nil:
		return nil, errors.New("sentiment scorer is required")
	case deps.Predictor == nil:
		return nil, errors.New("engagement predictor is required")
	case deps.Behavior == nil:
		return nil, errors.New("behavior analyzer is required")
	case deps.Trends == nil:
		return nil, errors.New("trend detector is required")
	}

	return &Service{
		deps:   deps,
		logger: logger.With().Str("component", "analytics").Logger(),
		now:    time.Now,
	}, nil
}

// SetClock replaces the service clock. It must be called before the
// service is shared between goroutines.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Subscribe registers the counter maintainers on the bus. Call it before
// the bus runs.
func (s *Service) Subscribe(sub Subscriber) error {
	if err := sub.OnInteraction("counters.observe_interaction", s.countInteraction); err != nil {
		return err
	}
	return sub.OnContent("trends.observe_content", s.countContent)
}

// countInteraction folds e into the popularity and trend counters and
// settles it, so the next checkpoint covers it.
func (s *Service) countInteraction(_ context.Context, e models.InteractionEvent) error {
	s.deps.Popularity.Observe(&e)
	s.deps.Trends.ObserveInteraction(&e)
	s.deps.Interactions.Settle(e.Sequence)
	return nil
}

// countContent counts a first-time publication toward trends and settles it.
func (s *Service) countContent(_ context.Context, v models.ContentFeatureVector) error {
	s.deps.Trends.ObserveContent(&v)
	s.deps.Content.Settle(v.Sequence)
	return nil
}

// Stats summarizes the in-memory state for health reporting.
type Stats struct {
	Users        int              `json:"users"`
	Interactions int              `json:"interactions"`
	Content      int              `json:"content"`
	LastSequence uint64           `json:"last_sequence"`
	Model        recommend.Status `json:"model"`
}

// Stats returns the current counts.
func (s *Service) Stats() Stats {
	return Stats{
		Users:        s.deps.Interactions.UserCount(),
		Interactions: s.deps.Interactions.Len(),
		Content:      s.deps.Content.Len(),
		LastSequence: s.deps.Interactions.LastSequence(),
		Model:        s.deps.Engine.Status(),
	}
}
