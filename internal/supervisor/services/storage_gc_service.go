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

// GarbageCollector reclaims storage space.
type GarbageCollector interface {
	RunGC() error
}

// StorageGCService runs BadgerDB value-log garbage collection on an
// interval.
type StorageGCService struct {
	store    GarbageCollector
	interval time.Duration
	logger   zerolog.Logger
}

// NewStorageGCService creates a new storage GC service. A non-positive
// interval defaults to 10 minutes.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStorageGCService(store GarbageCollector, interval time.Duration, logger zerolog.Logger) *StorageGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &StorageGCService{
		store:    store,
		interval: interval,
		logger:   logger.With().Str("service", "storage-gc").Logger(),
	}
}

// Serve implements suture.Service.
func (s *StorageGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.store.RunGC(); err != nil {
				s.logger.Warn().Err(err).Msg("value log GC failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("value log GC complete")
		}
	}
}

// String returns the service name for logging.
func (s *StorageGCService) String() string {
	return "storage-gc"
}
