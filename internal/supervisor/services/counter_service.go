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

// CounterFlusher persists and prunes the windowed counters.
type CounterFlusher interface {
	FlushCounters(ctx context.Context) error
	Prune(now time.Time) int
}

// CounterServiceConfig holds configuration for the counter service.
type CounterServiceConfig struct {
	// FlushInterval is how often counters are written to storage.
	// Default: 30s
	FlushInterval time.Duration

	// FinalFlushTimeout bounds the flush performed on shutdown.
	// Default: 5s
	FinalFlushTimeout time.Duration
}

// CounterService flushes popularity and trend counters on an interval and
// once more on shutdown, pruning expired buckets first.
type CounterService struct {
	flusher CounterFlusher
	config  CounterServiceConfig
	logger  zerolog.Logger
	now     func() time.Time
}

// NewCounterService creates a new counter flush service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCounterService(flusher CounterFlusher, cfg CounterServiceConfig, logger zerolog.Logger) *CounterService {
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 30 * time.Second
	}
	if cfg.FinalFlushTimeout <= 0 {
		cfg.FinalFlushTimeout = 5 * time.Second
	}
	return &CounterService{
		flusher: flusher,
		config:  cfg,
		logger:  logger.With().Str("service", "counters").Logger(),
		now:     time.Now,
	}
}

// Serve implements suture.Service. A failed flush is logged and retried on
// the next tick; the counters stay in memory until then.
func (s *CounterService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.FinalFlushTimeout)
			s.flush(flushCtx)
			cancel()
			return ctx.Err()
		case <-ticker.C:
			s.flush(ctx)
		}
	}
}

func (s *CounterService) flush(ctx context.Context) {
	if pruned := s.flusher.Prune(s.now()); pruned > 0 {
		s.logger.Debug().Int("pruned", pruned).Msg("expired counter buckets pruned")
	}
	if err := s.flusher.FlushCounters(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("counter flush failed")
	}
}

// String returns the service name for logging.
func (s *CounterService) String() string {
	return "counter-flusher"
}
