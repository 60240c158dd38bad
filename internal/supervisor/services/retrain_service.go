// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RetrainEngine is the part of the recommendation engine the scheduler
// drives. Tick starts a background build when one is due.
type RetrainEngine interface {
	Tick(ctx context.Context, now time.Time) bool
	Wait()
}

// RetrainServiceConfig holds configuration for the retrain scheduler.
type RetrainServiceConfig struct {
	// CheckInterval is how often the engine is asked whether a build is due.
	// The build interval itself is part of the engine configuration.
	CheckInterval time.Duration

	// TrainOnStartup checks for a due build as soon as the service starts.
	TrainOnStartup bool
}

// RetrainService periodically ticks the recommendation engine so stale
// snapshots are rebuilt in the background.
type RetrainService struct {
	engine RetrainEngine
	config RetrainServiceConfig
	logger zerolog.Logger
	now    func() time.Time
	name   string
}

// NewRetrainService creates a new retrain scheduler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRetrainService(engine RetrainEngine, cfg RetrainServiceConfig, logger zerolog.Logger) *RetrainService {
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = time.Minute
	}
	return &RetrainService{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "retrain").Logger(),
		now:    time.Now,
		name:   "retrain-scheduler",
	}
}

// Serve implements suture.Service. Builds started by the scheduler are
// waited for before Serve returns so shutdown never races a snapshot write.
func (s *RetrainService) Serve(ctx context.Context) error {
	defer s.engine.Wait()

	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("check_interval", s.config.CheckInterval).
		Msg("retrain scheduler starting")

	if s.config.TrainOnStartup {
		s.tick(ctx)
	}

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("retrain scheduler shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *RetrainService) tick(ctx context.Context) {
	if s.engine.Tick(ctx, s.now()) {
		s.logger.Info().Msg("scheduled retrain started")
	}
}

// String returns the service name for logging.
func (s *RetrainService) String() string {
	return s.name
}
