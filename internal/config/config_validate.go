// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that the configuration is complete and consistent.
// Domain packages validate their own derived configs again at construction.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateEventBus(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateRetrain(); err != nil {
		return err
	}
	if err := c.validateTrends(); err != nil {
		return err
	}
	return c.validateSecurity()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive, got %v", c.Server.ShutdownTimeout)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	switch c.Server.Environment {
	case "development", "production":
	default:
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func (c *Config) validateStorage() error {
	s := c.Storage
	if s.InMemory {
		return nil
	}
	if s.Path == "" {
		return errors.New("storage.path is required unless storage.in_memory is set")
	}
	if s.SnapshotDir == "" {
		return errors.New("storage.snapshot_dir is required unless storage.in_memory is set")
	}
	if s.GCInterval <= 0 {
		return fmt.Errorf("storage.gc_interval must be positive, got %v", s.GCInterval)
	}
	if s.FlushInterval <= 0 {
		return fmt.Errorf("storage.flush_interval must be positive, got %v", s.FlushInterval)
	}
	return nil
}

func (c *Config) validateEventBus() error {
	if c.EventBus.BufferSize < 0 {
		return fmt.Errorf("event_bus.buffer_size must not be negative, got %d", c.EventBus.BufferSize)
	}
	if c.EventBus.RetryCount < 0 {
		return fmt.Errorf("event_bus.retry_count must not be negative, got %d", c.EventBus.RetryCount)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.Alpha < 0 || r.Alpha > 1 {
		return fmt.Errorf("recommend.alpha must be in [0, 1], got %v", r.Alpha)
	}
	switch r.UnknownUserPolicy {
	case "cold_start", "not_found":
	default:
		return fmt.Errorf("recommend.unknown_user_policy must be cold_start or not_found, got %q", r.UnknownUserPolicy)
	}
	if r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("recommend.default_limit must be in [1, %d], got %d", r.MaxLimit, r.DefaultLimit)
	}
	return nil
}

func (c *Config) validateRetrain() error {
	if c.Retrain.Interval <= 0 {
		return fmt.Errorf("retrain.interval must be positive, got %v", c.Retrain.Interval)
	}
	if c.Retrain.CheckInterval <= 0 {
		return fmt.Errorf("retrain.check_interval must be positive, got %v", c.Retrain.CheckInterval)
	}
	if c.Retrain.CheckInterval > c.Retrain.Interval {
		return fmt.Errorf("retrain.check_interval %v exceeds retrain.interval %v", c.Retrain.CheckInterval, c.Retrain.Interval)
	}
	return nil
}

func (c *Config) validateTrends() error {
	t := c.Trends
	if t.BucketSize <= 0 {
		return fmt.Errorf("trends.bucket_size must be positive, got %v", t.BucketSize)
	}
	if t.Retention < 2*t.BucketSize {
		return fmt.Errorf("trends.retention %v must cover at least two buckets", t.Retention)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be positive, got %d", s.RateLimitReqs)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %v", s.RateLimitWindow)
		}
	}
	for _, origin := range s.CORSOrigins {
		if origin == "*" {
			if len(s.CORSOrigins) > 1 {
				return errors.New("security.cors_origins cannot mix * with explicit origins")
			}
			continue
		}
		if err := validateHTTPURL(origin, "security.cors_origins"); err != nil {
			return err
		}
	}
	return nil
}
