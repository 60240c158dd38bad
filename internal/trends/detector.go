// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package trends detects hashtags and categories whose activity is rising.
//
// Every interaction with a piece of content, and the publication of the
// content itself, adds one occurrence for each of its hashtags and for its
// category in an hourly bucket. A query compares the window ending now (A)
// with the window of equal length before it (B):
//
//	velocity = A / max(B, epsilon)
//
// A tag is trending when its velocity exceeds the threshold and A reaches
// the minimum volume, so a tag going from 0 to 2 occurrences never trends.
// Counts are eventually consistent within a bucket.
package trends

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/metrics"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/textproc"
	"github.com/tomtom215/resonance/internal/window"
)

// Counter names used when persisting bucket counts.
const (
	CounterHashtags   = "trends.hashtags"
	CounterCategories = "trends.categories"
)

// Config controls the detector.
type Config struct {
	BucketSize    time.Duration `json:"bucket_size"`
	Retention     time.Duration `json:"retention"`
	DefaultWindow time.Duration `json:"default_window"`
	Threshold     float64       `json:"threshold"`
	MinVolume     int64         `json:"min_volume"`
	Epsilon       float64       `json:"epsilon"`
}

// DefaultConfig returns hourly buckets kept for two weeks.
func DefaultConfig() Config {
	return Config{
		BucketSize:    time.Hour,
		Retention:     14 * 24 * time.Hour,
		DefaultWindow: 24 * time.Hour,
		Threshold:     1.5,
		MinVolume:     10,
		Epsilon:       1,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error
	if c.BucketSize <= 0 {
		errs = append(errs, errors.New("bucket_size must be positive"))
	}
	if c.DefaultWindow < c.BucketSize {
		errs = append(errs, fmt.Errorf("default_window %v is shorter than bucket_size %v", c.DefaultWindow, c.BucketSize))
	}
	if c.Retention < 2*c.DefaultWindow {
		errs = append(errs, fmt.Errorf("retention %v must cover two default windows", c.Retention))
	}
	if c.Threshold < 0 {
		errs = append(errs, errors.New("threshold must not be negative"))
	}
	if c.MinVolume < 0 {
		errs = append(errs, errors.New("min_volume must not be negative"))
	}
	if c.Epsilon <= 0 {
		errs = append(errs, errors.New("epsilon must be positive"))
	}
	return errors.Join(errs...)
}

// MaxWindow is the longest queryable window: both windows must fit in the
// retained buckets.
func (c *Config) MaxWindow() time.Duration {
	return c.Retention / 2
}

// ContentLookup resolves a content id to its indexed vector.
type ContentLookup interface {
	Get(id string) (*models.ContentFeatureVector, bool)
}

// Detector is safe for concurrent use.
type Detector struct {
	config     Config
	hashtags   *window.BucketCounter
	categories *window.BucketCounter
	content    ContentLookup
	logger     zerolog.Logger
}

// NewDetector validates cfg and creates empty counters.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewDetector(cfg Config, lookup ContentLookup, logger zerolog.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trends config: %w", err)
	}
	if lookup == nil {
		return nil, errors.New("content lookup is required")
	}
	return &Detector{
		config:     cfg,
		hashtags:   window.NewBucketCounter(cfg.BucketSize, cfg.Retention),
		categories: window.NewBucketCounter(cfg.BucketSize, cfg.Retention),
		content:    lookup,
		logger:     logger.With().Str("component", "trends").Logger(),
	}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config {
	return d.config
}

// ObserveInteraction counts e against the tags of its content. Follow events
// and events on content that is not indexed are ignored.
func (d *Detector) ObserveInteraction(e *models.InteractionEvent) {
	if e.Type == models.EventFollow {
		return
	}
	v, ok := d.content.Get(e.ContentID)
	if !ok {
		d.logger.Debug().Str("content_id", e.ContentID).Msg("interaction on unindexed content not counted")
		return
	}
	d.add(v, e.Timestamp)
}

// ObserveContent counts the publication of v at its creation time.
func (d *Detector) ObserveContent(v *models.ContentFeatureVector) {
	d.add(v, v.CreatedAt)
}

func (d *Detector) add(v *models.ContentFeatureVector, at time.Time) {
	for _, tag := range v.Hashtags {
		d.hashtags.Add(tag, at, 1)
	}
	if v.Category != "" {
		d.categories.Add(v.Category, at, 1)
	}
}

// Trending returns the trending tags for the window of length w ending at
// now, at most limit of them (all when limit <= 0). w must be between one
// bucket and MaxWindow.
func (d *Detector) Trending(now time.Time, w time.Duration, limit int) ([]models.TrendWindow, error) {
	if w < d.config.BucketSize || w > d.config.MaxWindow() {
		return nil, models.NewValidationError("window", "must be between %v and %v, got %v", d.config.BucketSize, d.config.MaxWindow(), w)
	}

	out := d.collect(d.hashtags, models.TagHashtag, now, w)
	out = append(out, d.collect(d.categories, models.TagCategory, now, w)...)

	sort.Slice(out, func(i, j int) bool {
		if out[i].Velocity != out[j].Velocity {
			return out[i].Velocity > out[j].Velocity
		}
		if out[i].CountA != out[j].CountA {
			return out[i].CountA > out[j].CountA
		}
		if out[i].Tag != out[j].Tag {
			return out[i].Tag < out[j].Tag
		}
		return out[i].Kind < out[j].Kind
	})

	metrics.TrendingTags.Set(float64(len(out)))
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (d *Detector) collect(c *window.BucketCounter, kind models.TagKind, now time.Time, w time.Duration) []models.TrendWindow {
	var out []models.TrendWindow
	for _, kc := range c.Windows(now, w) {
		tw := d.window(kc, kind)
		if tw.Velocity > d.config.Threshold && tw.CountA >= d.config.MinVolume {
			out = append(out, tw)
		}
	}
	return out
}

// Velocity returns the window counts of a single tag, trending or not.
func (d *Detector) Velocity(tag string, kind models.TagKind, now time.Time, w time.Duration) models.TrendWindow {
	c, key := d.hashtags, textproc.NormalizeHashtags([]string{tag})
	if kind == models.TagCategory {
		c = d.categories
	}
	kc := window.KeyCounts{}
	if len(key) == 1 {
		kc.Key = key[0]
		kc.A = c.Count(kc.Key, now, w)
		kc.B = c.Count(kc.Key, now.Add(-w), w)
	}
	return d.window(kc, kind)
}

func (d *Detector) window(kc window.KeyCounts, kind models.TagKind) models.TrendWindow {
	tag := kc.Key
	if kind == models.TagHashtag {
		tag = textproc.HashtagPrefix + tag
	}
	return models.TrendWindow{
		Tag:      tag,
		Kind:     kind,
		CountA:   kc.A,
		CountB:   kc.B,
		Velocity: float64(kc.A) / max(float64(kc.B), d.config.Epsilon),
	}
}

// Prune drops buckets past the retention horizon and returns how many were
// removed.
func (d *Detector) Prune(now time.Time) int {
	return d.hashtags.Prune(now) + d.categories.Prune(now)
}

// Counters returns the raw counters by persistence name.
func (d *Detector) Counters() map[string]*window.BucketCounter {
	return map[string]*window.BucketCounter{
		CounterHashtags:   d.hashtags,
		CounterCategories: d.categories,
	}
}
