// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package behavior derives activity, engagement level and churn risk for a
// user from their recorded interactions.
//
// Profiles are computed on demand from the interaction store and never
// cached; the same events and the same now always yield the same profile.
//
// Churn risk combines recency and trend:
//
//	recency    = 1 - exp(-ln2 * days_since_last / half_life)
//	trend      = (older - recent) / (older + recent)   // halves of the lookback
//	trend_risk = (trend + 1) / 2
//	churn_risk = w_recency*recency + w_trend*trend_risk, clipped to [0, 1]
package behavior

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/resonance/internal/interactions"
	"github.com/tomtom215/resonance/internal/models"
)

// peakHourCount is the number of peak hours reported.
const peakHourCount = 3

// Config controls the analyzer.
type Config struct {
	Lookback time.Duration `json:"lookback"`

	// Events per day at or above which a user is high or medium.
	HighRate   float64 `json:"high_rate"`
	MediumRate float64 `json:"medium_rate"`

	RecencyHalfLife time.Duration `json:"recency_half_life"`
	RecencyWeight   float64       `json:"recency_weight"`
	TrendWeight     float64       `json:"trend_weight"`

	// TrendTolerance is the |trend| below which activity counts as stable.
	TrendTolerance float64 `json:"trend_tolerance"`
}

// DefaultConfig returns the default thresholds.
func DefaultConfig() Config {
	return Config{
		Lookback:        30 * 24 * time.Hour,
		HighRate:        5,
		MediumRate:      1,
		RecencyHalfLife: 7 * 24 * time.Hour,
		RecencyWeight:   0.7,
		TrendWeight:     0.3,
		TrendTolerance:  0.2,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error
	if c.Lookback < 24*time.Hour {
		errs = append(errs, fmt.Errorf("lookback must be at least 24h, got %v", c.Lookback))
	}
	if c.MediumRate <= 0 || c.HighRate < c.MediumRate {
		errs = append(errs, fmt.Errorf("rates must satisfy 0 < medium (%v) <= high (%v)", c.MediumRate, c.HighRate))
	}
	if c.RecencyHalfLife <= 0 {
		errs = append(errs, errors.New("recency_half_life must be positive"))
	}
	if c.RecencyWeight < 0 || c.TrendWeight < 0 || c.RecencyWeight+c.TrendWeight == 0 {
		errs = append(errs, errors.New("churn weights must be non-negative and not both zero"))
	}
	if c.TrendTolerance < 0 || c.TrendTolerance >= 1 {
		errs = append(errs, fmt.Errorf("trend_tolerance must be in [0,1), got %v", c.TrendTolerance))
	}
	return errors.Join(errs...)
}

// EventSource is the read side of the interaction store.
type EventSource interface {
	Query(ctx context.Context, q interactions.Query) ([]models.InteractionEvent, error)
}

// Analyzer is read-only and safe for concurrent use.
type Analyzer struct {
	config Config
	events EventSource
}

// NewAnalyzer validates cfg.
func NewAnalyzer(cfg Config, events EventSource) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid behavior config: %w", err)
	}
	if events == nil {
		return nil, errors.New("event source is required")
	}
	return &Analyzer{config: cfg, events: events}, nil
}

// Analyze computes the profile of userID as of now. Events after now are
// ignored. A user with no recorded events is a NotFoundError.
func (a *Analyzer) Analyze(ctx context.Context, userID string, now time.Time) (models.BehaviorProfile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.BehaviorProfile{}, models.NewValidationError("user_id", "must not be empty")
	}

	all, err := a.events.Query(ctx, interactions.Query{UserID: userID})
	if err != nil {
		return models.BehaviorProfile{}, fmt.Errorf("query events: %w", err)
	}
	if len(all) == 0 {
		return models.BehaviorProfile{}, models.NewNotFoundError("user", userID)
	}

	cfg := &a.config
	from := now.Add(-cfg.Lookback)
	mid := now.Add(-cfg.Lookback / 2)

	p := models.BehaviorProfile{
		UserID:         userID,
		LastComputedAt: now,
		EventCounts:    make(map[models.EventType]int, len(models.EventTypes)),
	}

	var older, recent int
	for i := range all {
		ts := all[i].Timestamp
		if ts.After(now) {
			continue
		}
		if ts.After(p.LastActiveAt) {
			p.LastActiveAt = ts
		}
		if ts.Before(from) {
			continue
		}
		p.EventsInWindow++
		p.EventCounts[all[i].Type]++
		p.ActiveHours[ts.UTC().Hour()]++
		if ts.Before(mid) {
			older++
		} else {
			recent++
		}
	}

	days := cfg.Lookback.Hours() / 24
	p.ActivityRate = float64(p.EventsInWindow) / days
	p.EngagementLevel = a.level(p.ActivityRate)
	p.ActivityScore = math.Min(float64(p.EventsInWindow)/100, 1)
	p.PeakHours = peakHours(p.ActiveHours)

	trend := 0.0
	if older+recent > 0 {
		trend = float64(older-recent) / float64(older+recent)
	}
	p.Trend = a.trendLabel(trend)

	since := cfg.Lookback
	if !p.LastActiveAt.IsZero() {
		since = now.Sub(p.LastActiveAt)
	}
	recency := 1 - math.Exp(-math.Ln2*since.Hours()/cfg.RecencyHalfLife.Hours())
	trendRisk := (trend + 1) / 2
	p.ChurnRisk = clamp01(cfg.RecencyWeight*recency + cfg.TrendWeight*trendRisk)

	return p, nil
}

func (a *Analyzer) level(rate float64) models.EngagementLevel {
	switch {
	case rate >= a.config.HighRate:
		return models.EngagementHigh
	case rate >= a.config.MediumRate:
		return models.EngagementMedium
	default:
		return models.EngagementLow
	}
}

// trendLabel maps a positive trend (older > recent) to declining.
func (a *Analyzer) trendLabel(trend float64) models.ActivityTrend {
	switch {
	case trend > a.config.TrendTolerance:
		return models.TrendDeclining
	case trend < -a.config.TrendTolerance:
		return models.TrendGrowing
	default:
		return models.TrendStable
	}
}

// peakHours returns up to three busiest hours, busiest first, ties by hour.
func peakHours(hist [24]int) []int {
	hours := make([]int, 0, 24)
	for h, n := range hist {
		if n > 0 {
			hours = append(hours, h)
		}
	}
	sort.SliceStable(hours, func(i, j int) bool {
		return hist[hours[i]] > hist[hours[j]]
	})
	if len(hours) > peakHourCount {
		hours = hours[:peakHourCount]
	}
	return hours
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
