// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package persist provides durable storage for the interaction journal, indexed
// content and raw trend counters using BadgerDB.
//
// Records are written before they become visible in memory, so a restart can
// replay the journal and reload counters instead of starting cold. Writes go
// through a circuit breaker: after repeated storage failures the breaker opens
// and writes fail fast with ErrUnavailable until the timeout elapses.
package persist

import (
	"errors"
	"fmt"
	"time"
)

// Config holds persistence configuration.
type Config struct {
	// Path is the directory where BadgerDB stores its files.
	Path string

	// InMemory runs BadgerDB without touching disk. Intended for tests.
	InMemory bool

	// SyncWrites forces fsync after every write.
	// Default: true
	SyncWrites bool

	// GCRatio is the value-log rewrite threshold passed to RunValueLogGC.
	// Default: 0.5
	GCRatio float64

	// BreakerFailures is the number of consecutive write failures that opens
	// the circuit breaker.
	// Default: 5
	BreakerFailures uint32

	// BreakerTimeout is how long the breaker stays open before probing again.
	// Default: 30s
	BreakerTimeout time.Duration

	// CloseTimeout bounds how long Close waits for BadgerDB.
	// Default: 30s
	CloseTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		Path:            "/data/resonance",
		SyncWrites:      true,
		GCRatio:         0.5,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
		CloseTimeout:    30 * time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !c.InMemory && c.Path == "" {
		return errors.New("persist path is required unless in-memory")
	}
	if c.GCRatio <= 0 || c.GCRatio >= 1 {
		return fmt.Errorf("gc ratio must be in (0, 1), got %f", c.GCRatio)
	}
	if c.BreakerFailures == 0 {
		return errors.New("breaker failures must be positive")
	}
	return nil
}
