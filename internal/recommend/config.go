// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend/algorithms"
)

// UnknownUserPolicy decides what a recommendation request for a user with
// no recorded events returns.
type UnknownUserPolicy string

// Unknown-user policies.
const (
	// PolicyColdStart serves the popularity ranking.
	PolicyColdStart UnknownUserPolicy = "cold_start"

	// PolicyNotFound fails the request with a NotFoundError.
	PolicyNotFound UnknownUserPolicy = "not_found"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Alpha is the collaborative share of the hybrid blend for items present
	// in both sources. Default: 0.5.
	Alpha float64 `json:"alpha"`

	// UnknownUserPolicy applies to users with no recorded events.
	// Default: cold_start.
	UnknownUserPolicy UnknownUserPolicy `json:"unknown_user_policy"`

	// AllowResurface keeps items the user already interacted with in the
	// candidate set (stories and other ephemeral content).
	AllowResurface bool `json:"allow_resurface"`

	// Weights maps event types to matrix contributions.
	Weights EventWeights `json:"weights"`

	Collaborative CollaborativeConfig `json:"collaborative"`
	Content       ContentConfig       `json:"content"`
	Diversity     DiversityConfig     `json:"diversity"`
	Popularity    PopularityConfig    `json:"popularity"`
	Training      TrainingConfig      `json:"training"`
	Limits        LimitsConfig        `json:"limits"`
}

// EventWeights defines the matrix contribution of each event type.
type EventWeights struct {
	View    float64 `json:"view"`
	Like    float64 `json:"like"`
	Comment float64 `json:"comment"`
	Share   float64 `json:"share"`
	Follow  float64 `json:"follow"`
}

// ToMap returns the weights keyed by event type.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w EventWeights) ToMap() models.EventWeights {
	return models.EventWeights{
		models.EventView:    w.View,
		models.EventLike:    w.Like,
		models.EventComment: w.Comment,
		models.EventShare:   w.Share,
		models.EventFollow:  w.Follow,
	}
}

// CollaborativeConfig contains parameters for collaborative filtering.
type CollaborativeConfig struct {
	// Neighbors is the number of similar users/items kept per row/column.
	// Default: 50.
	Neighbors int `json:"neighbors"`

	// MinInteractions is the number of events a user needs in the snapshot
	// before collaborative candidates are produced. Default: 2.
	MinInteractions int `json:"min_interactions"`
}

// ContentConfig contains parameters for content-based filtering.
type ContentConfig struct {
	// Neighbors is the number of similar items kept per item. Default: 50.
	Neighbors int `json:"neighbors"`

	// MinSimilarity is the minimum raw cosine for a neighbor. Default: 0.3.
	MinSimilarity float64 `json:"min_similarity"`

	// RecencyHalfLife is the half-life of the candidate age decay.
	// Default: 7 days.
	RecencyHalfLife time.Duration `json:"recency_half_life"`

	// CategoryBoost is the multiplier bonus for a same-category candidate.
	// Default: 0.2.
	CategoryBoost float64 `json:"category_boost"`
}

// DiversityConfig contains parameters for diversity reranking.
type DiversityConfig struct {
	// MaxRun is the maximum number of consecutive items sharing a category
	// or author. Default: 2.
	MaxRun int `json:"max_run"`
}

// PopularityConfig contains parameters for the popularity fallback.
type PopularityConfig struct {
	// Window is the trailing window counted for popularity. Default: 24h.
	Window time.Duration `json:"window"`

	// BucketSize is the counter bucket width. Default: 1h.
	BucketSize time.Duration `json:"bucket_size"`

	// Retention is how long buckets are kept. Default: 7 days.
	Retention time.Duration `json:"retention"`
}

// TrainingConfig contains retrain schedule parameters.
type TrainingConfig struct {
	// Interval is how long a snapshot stays fresh before it becomes stale
	// and a rebuild is scheduled. Default: 24h.
	Interval time.Duration `json:"interval"`

	// Timeout bounds a single build. Default: 10m.
	Timeout time.Duration `json:"timeout"`

	// RetainVersions is how many snapshot files are kept on disk. Default: 3.
	RetainVersions int `json:"retain_versions"`

	// Workers bounds build parallelism. 0 uses GOMAXPROCS.
	Workers int `json:"workers"`

	// HighPerformerFraction is the share of scored items, ranked by
	// engagement, treated as high performers. Default: 0.2.
	HighPerformerFraction float64 `json:"high_performer_fraction"`
}

// LimitsConfig contains request limits.
type LimitsConfig struct {
	// DefaultLimit applies when a request does not set one. Default: 20.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit is the largest accepted limit. Default: 100.
	MaxLimit int `json:"max_limit"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Alpha:             0.5,
		UnknownUserPolicy: PolicyColdStart,
		Weights: EventWeights{
			View:    0.2,
			Like:    1,
			Comment: 2,
			Share:   3,
			Follow:  0.5,
		},
		Collaborative: CollaborativeConfig{
			Neighbors:       50,
			MinInteractions: 2,
		},
		Content: ContentConfig{
			Neighbors:       50,
			MinSimilarity:   0.3,
			RecencyHalfLife: 7 * 24 * time.Hour,
			CategoryBoost:   0.2,
		},
		Diversity: DiversityConfig{
			MaxRun: 2,
		},
		Popularity: PopularityConfig{
			Window:     24 * time.Hour,
			BucketSize: time.Hour,
			Retention:  7 * 24 * time.Hour,
		},
		Training: TrainingConfig{
			Interval:              24 * time.Hour,
			Timeout:               10 * time.Minute,
			RetainVersions:        3,
			HighPerformerFraction: 0.2,
		},
		Limits: LimitsConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("alpha must be in [0, 1], got %f", c.Alpha)
	}
	switch c.UnknownUserPolicy {
	case PolicyColdStart, PolicyNotFound:
	default:
		return fmt.Errorf("unknown_user_policy must be cold_start or not_found, got %q", c.UnknownUserPolicy)
	}

	for name, w := range map[string]float64{
		"view": c.Weights.View, "like": c.Weights.Like, "comment": c.Weights.Comment,
		"share": c.Weights.Share, "follow": c.Weights.Follow,
	} {
		if w < 0 {
			return fmt.Errorf("weights.%s must be non-negative, got %f", name, w)
		}
	}

	if c.Collaborative.Neighbors < 1 {
		return fmt.Errorf("collaborative.neighbors must be positive, got %d", c.Collaborative.Neighbors)
	}
	if c.Collaborative.MinInteractions < 0 {
		return fmt.Errorf("collaborative.min_interactions must be non-negative, got %d", c.Collaborative.MinInteractions)
	}

	if c.Content.Neighbors < 1 {
		return fmt.Errorf("content.neighbors must be positive, got %d", c.Content.Neighbors)
	}
	if c.Content.MinSimilarity < 0 || c.Content.MinSimilarity > 1 {
		return fmt.Errorf("content.min_similarity must be in [0, 1], got %f", c.Content.MinSimilarity)
	}
	if c.Content.RecencyHalfLife <= 0 {
		return fmt.Errorf("content.recency_half_life must be positive, got %v", c.Content.RecencyHalfLife)
	}
	if c.Content.CategoryBoost < 0 {
		return fmt.Errorf("content.category_boost must be non-negative, got %f", c.Content.CategoryBoost)
	}

	if c.Diversity.MaxRun < 1 {
		return fmt.Errorf("diversity.max_run must be positive, got %d", c.Diversity.MaxRun)
	}

	if c.Popularity.BucketSize <= 0 {
		return fmt.Errorf("popularity.bucket_size must be positive, got %v", c.Popularity.BucketSize)
	}
	if c.Popularity.Window < c.Popularity.BucketSize {
		return fmt.Errorf("popularity.window must be >= popularity.bucket_size, got %v < %v", c.Popularity.Window, c.Popularity.BucketSize)
	}
	if c.Popularity.Retention < c.Popularity.Window {
		return fmt.Errorf("popularity.retention must be >= popularity.window, got %v < %v", c.Popularity.Retention, c.Popularity.Window)
	}

	if c.Training.Interval <= 0 {
		return fmt.Errorf("training.interval must be positive, got %v", c.Training.Interval)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.RetainVersions < 1 {
		return fmt.Errorf("training.retain_versions must be positive, got %d", c.Training.RetainVersions)
	}
	if c.Training.Workers < 0 {
		return fmt.Errorf("training.workers must be non-negative, got %d", c.Training.Workers)
	}
	if c.Training.HighPerformerFraction <= 0 || c.Training.HighPerformerFraction > 1 {
		return fmt.Errorf("training.high_performer_fraction must be in (0, 1], got %f", c.Training.HighPerformerFraction)
	}

	if c.Limits.MaxLimit < 1 {
		return fmt.Errorf("limits.max_limit must be positive, got %d", c.Limits.MaxLimit)
	}
	if c.Limits.DefaultLimit < 1 || c.Limits.DefaultLimit > c.Limits.MaxLimit {
		return fmt.Errorf("limits.default_limit must be in [1, max_limit], got %d", c.Limits.DefaultLimit)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

func (c *Config) collaborative() algorithms.CollaborativeConfig {
	return algorithms.CollaborativeConfig{
		Weights:         c.Weights.ToMap(),
		Neighbors:       c.Collaborative.Neighbors,
		MinInteractions: c.Collaborative.MinInteractions,
		Workers:         c.Training.Workers,
	}
}

func (c *Config) content() algorithms.ContentConfig {
	return algorithms.ContentConfig{
		Neighbors:       c.Content.Neighbors,
		MinSimilarity:   c.Content.MinSimilarity,
		RecencyHalfLife: c.Content.RecencyHalfLife,
		CategoryBoost:   c.Content.CategoryBoost,
		Workers:         c.Training.Workers,
	}
}
