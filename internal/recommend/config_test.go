// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"testing"
	"time"

	"github.com/tomtom215/resonance/internal/models"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	t.Run("event weights match the documented table", func(t *testing.T) {
		w := cfg.Weights.ToMap()
		want := models.EventWeights{
			models.EventView: 0.2, models.EventLike: 1, models.EventComment: 2,
			models.EventShare: 3, models.EventFollow: 0.5,
		}
		for typ, v := range want {
			if w[typ] != v {
				t.Errorf("weight[%s] = %v, want %v", typ, w[typ], v)
			}
		}
	})

	t.Run("hybrid defaults", func(t *testing.T) {
		if cfg.Alpha != 0.5 {
			t.Errorf("Alpha = %v, want 0.5", cfg.Alpha)
		}
		if cfg.UnknownUserPolicy != PolicyColdStart {
			t.Errorf("UnknownUserPolicy = %q, want cold_start", cfg.UnknownUserPolicy)
		}
		if cfg.Diversity.MaxRun != 2 {
			t.Errorf("Diversity.MaxRun = %d, want 2", cfg.Diversity.MaxRun)
		}
		if cfg.Content.MinSimilarity != 0.3 {
			t.Errorf("Content.MinSimilarity = %v, want 0.3", cfg.Content.MinSimilarity)
		}
	})

	t.Run("training defaults", func(t *testing.T) {
		if cfg.Training.Interval != 24*time.Hour {
			t.Errorf("Training.Interval = %v, want 24h", cfg.Training.Interval)
		}
		if cfg.Limits.MaxLimit != 100 {
			t.Errorf("Limits.MaxLimit = %d, want 100", cfg.Limits.MaxLimit)
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{"valid default config", func(*Config) {}, false},
		{"alpha above one", func(c *Config) { c.Alpha = 1.5 }, true},
		{"alpha negative", func(c *Config) { c.Alpha = -0.1 }, true},
		{"alpha zero is content only", func(c *Config) { c.Alpha = 0 }, false},
		{"unknown policy", func(c *Config) { c.UnknownUserPolicy = "ignore" }, true},
		{"not_found policy", func(c *Config) { c.UnknownUserPolicy = PolicyNotFound }, false},
		{"negative weight", func(c *Config) { c.Weights.Follow = -1 }, true},
		{"zero neighbors", func(c *Config) { c.Collaborative.Neighbors = 0 }, true},
		{"min similarity above one", func(c *Config) { c.Content.MinSimilarity = 2 }, true},
		{"zero half life", func(c *Config) { c.Content.RecencyHalfLife = 0 }, true},
		{"zero max run", func(c *Config) { c.Diversity.MaxRun = 0 }, true},
		{"window shorter than bucket", func(c *Config) { c.Popularity.Window = time.Minute }, true},
		{"retention shorter than window", func(c *Config) { c.Popularity.Retention = time.Hour }, true},
		{"zero interval", func(c *Config) { c.Training.Interval = 0 }, true},
		{"zero timeout", func(c *Config) { c.Training.Timeout = 0 }, true},
		{"zero high performer fraction", func(c *Config) { c.Training.HighPerformerFraction = 0 }, true},
		{"default limit above max", func(c *Config) { c.Limits.DefaultLimit = 101 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Alpha = 0.9
	if cfg.Alpha == 0.9 {
		t.Error("Clone() should not share state with the original")
	}
}
