// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/analytics"
	"github.com/tomtom215/resonance/internal/behavior"
	"github.com/tomtom215/resonance/internal/config"
	"github.com/tomtom215/resonance/internal/content"
	"github.com/tomtom215/resonance/internal/engagement"
	"github.com/tomtom215/resonance/internal/eventbus"
	"github.com/tomtom215/resonance/internal/interactions"
	"github.com/tomtom215/resonance/internal/persist"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/recommend/algorithms"
	"github.com/tomtom215/resonance/internal/recommend/storage"
	"github.com/tomtom215/resonance/internal/sentiment"
	"github.com/tomtom215/resonance/internal/trends"
)

// components holds everything the server wires together.
type components struct {
	store   *persist.Store
	bus     *eventbus.Bus
	engine  *recommend.Engine
	service *analytics.Service
	logger  zerolog.Logger
}

// buildComponents opens storage and constructs the engine components in
// dependency order. On error everything opened so far is closed.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildComponents(cfg *config.Config, logger zerolog.Logger) (_ *components, err error) {
	comp := &components{logger: logger}
	defer func() {
		if err != nil {
			comp.close()
		}
	}()

	comp.store, err = persist.Open(buildPersistConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	engineCfg := buildEngineConfig(cfg)
	events := interactions.NewStore(comp.store, logger)
	index := content.NewIndex(comp.store, logger)
	popularity := algorithms.NewPopularity(engineCfg.Popularity.BucketSize, engineCfg.Popularity.Retention)

	deps := recommend.Dependencies{
		Interactions: events,
		Content:      index,
		Popularity:   popularity,
	}
	if !cfg.Storage.InMemory {
		snapshots, serr := storage.NewStore(cfg.Storage.SnapshotDir)
		if serr != nil {
			return nil, fmt.Errorf("open snapshot store: %w", serr)
		}
		deps.Store = snapshots
	}

	comp.engine, err = recommend.NewEngine(engineCfg, deps, logger)
	if err != nil {
		return nil, fmt.Errorf("recommendation engine: %w", err)
	}

	scorer, err := sentiment.NewScorer(buildSentimentConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("sentiment scorer: %w", err)
	}
	predictor, err := engagement.NewPredictor(buildEngagementConfig(cfg), scorer, comp.engine)
	if err != nil {
		return nil, fmt.Errorf("engagement predictor: %w", err)
	}
	analyzer, err := behavior.NewAnalyzer(buildBehaviorConfig(cfg), events)
	if err != nil {
		return nil, fmt.Errorf("behavior analyzer: %w", err)
	}
	detector, err := trends.NewDetector(buildTrendsConfig(cfg), index, logger)
	if err != nil {
		return nil, fmt.Errorf("trend detector: %w", err)
	}

	comp.bus, err = eventbus.New(buildEventBusConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("event bus: %w", err)
	}

	comp.service, err = analytics.NewService(analytics.Dependencies{
		Interactions: events,
		Content:      index,
		Engine:       comp.engine,
		Popularity:   popularity,
		Scorer:       scorer,
		Predictor:    predictor,
		Behavior:     analyzer,
		Trends:       detector,
		Bus:          comp.bus,
		Counters:     comp.store,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("analytics service: %w", err)
	}
	if err := comp.service.Subscribe(comp.bus); err != nil {
		return nil, fmt.Errorf("subscribe counters: %w", err)
	}
	return comp, nil
}

// restore loads durable state and the newest model snapshot. A missing
// snapshot leaves the engine cold until the first build.
func (c *components) restore(ctx context.Context) error {
	if _, err := c.service.Restore(ctx, c.store); err != nil {
		return fmt.Errorf("restore state: %w", err)
	}
	err := c.engine.LoadLatest(ctx)
	switch {
	case errors.Is(err, recommend.ErrNoSnapshot):
		c.logger.Info().Msg("No model snapshot found, engine starts cold")
	case err != nil:
		c.logger.Warn().Err(err).Msg("Failed to load model snapshot, engine starts cold")
	}
	return nil
}

// close waits for a running build and releases the bus and the store. It runs after
// the supervisor tree has stopped.
func (c *components) close() {
	if c.engine != nil {
		c.engine.Wait()
	}
	if c.bus != nil {
		if err := c.bus.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Error closing event bus")
		}
	}
	if c.store != nil {
		if err := c.store.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Error closing storage")
		}
	}
}
