// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package main

import (
	"github.com/tomtom215/resonance/internal/behavior"
	"github.com/tomtom215/resonance/internal/config"
	"github.com/tomtom215/resonance/internal/engagement"
	"github.com/tomtom215/resonance/internal/eventbus"
	"github.com/tomtom215/resonance/internal/persist"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/sentiment"
	"github.com/tomtom215/resonance/internal/trends"
)

// buildEngineConfig maps application config onto the recommendation engine
// configuration. Settings without a config key keep the engine defaults.
func buildEngineConfig(cfg *config.Config) *recommend.Config {
	rc := recommend.DefaultConfig()
	r := cfg.Recommend

	rc.Alpha = r.Alpha
	rc.UnknownUserPolicy = recommend.UnknownUserPolicy(r.UnknownUserPolicy)
	rc.AllowResurface = r.AllowResurface
	rc.Weights = recommend.EventWeights{
		View:    r.WeightView,
		Like:    r.WeightLike,
		Comment: r.WeightComment,
		Share:   r.WeightShare,
		Follow:  r.WeightFollow,
	}
	rc.Collaborative.Neighbors = r.Neighbors
	rc.Collaborative.MinInteractions = r.MinInteractions
	rc.Content.Neighbors = r.ContentNeighbors
	rc.Content.MinSimilarity = r.MinSimilarity
	rc.Content.RecencyHalfLife = r.RecencyHalfLife
	rc.Content.CategoryBoost = r.CategoryBoost
	rc.Diversity.MaxRun = r.DiversityMaxRun
	rc.Popularity.Window = r.PopularityWindow
	rc.Limits.DefaultLimit = r.DefaultLimit
	rc.Limits.MaxLimit = r.MaxLimit

	t := cfg.Retrain
	rc.Training.Interval = t.Interval
	rc.Training.Timeout = t.Timeout
	rc.Training.RetainVersions = t.RetainVersions
	rc.Training.Workers = t.Workers
	rc.Training.HighPerformerFraction = t.HighPerformerFraction
	return rc
}

// buildSentimentConfig overrides the built-in rule tables. Empty word lists
// keep the defaults.
func buildSentimentConfig(cfg *config.Config) sentiment.Config {
	sc := sentiment.DefaultConfig()
	s := cfg.Sentiment

	if len(s.PositiveWords) > 0 {
		sc.PositiveWords = s.PositiveWords
	}
	if len(s.NegativeWords) > 0 {
		sc.NegativeWords = s.NegativeWords
	}
	if len(s.ModerationKeywords) > 0 {
		sc.Moderation.Keywords = s.ModerationKeywords
	}
	if len(s.SpamPhrases) > 0 {
		sc.Moderation.SpamPhrases = s.SpamPhrases
	}
	sc.PositiveThreshold = s.PositiveThreshold
	sc.NegativeThreshold = s.NegativeThreshold
	sc.Quality.MinLength = s.MinLength
	sc.Quality.MaxLength = s.MaxLength
	sc.Quality.MaxHashtags = s.MaxHashtags
	sc.Moderation.SpamThreshold = s.SpamThreshold
	return sc
}

func buildEngagementConfig(cfg *config.Config) engagement.Config {
	ec := engagement.DefaultConfig()
	e := cfg.Engagement

	ec.MinHistory = e.MinHistory
	ec.BaselineLikes = e.BaselineLikes
	if len(e.PeakHours) > 0 {
		ec.PeakHours = e.PeakHours
	}
	ec.PeakMultiplier = e.PeakMultiplier
	ec.WeekendMultiplier = e.WeekendMultiplier
	ec.MaxHashtags = e.MaxHashtags
	return ec
}

func buildBehaviorConfig(cfg *config.Config) behavior.Config {
	bc := behavior.DefaultConfig()
	b := cfg.Behavior

	bc.Lookback = b.Lookback
	bc.HighRate = b.HighRate
	bc.MediumRate = b.MediumRate
	bc.RecencyHalfLife = b.RecencyHalfLife
	bc.RecencyWeight = b.RecencyWeight
	bc.TrendWeight = b.TrendWeight
	return bc
}

func buildTrendsConfig(cfg *config.Config) trends.Config {
	t := cfg.Trends
	return trends.Config{
		BucketSize:    t.BucketSize,
		Retention:     t.Retention,
		DefaultWindow: t.DefaultWindow,
		Threshold:     t.Threshold,
		MinVolume:     t.MinVolume,
		Epsilon:       t.Epsilon,
	}
}

func buildPersistConfig(cfg *config.Config) persist.Config {
	pc := persist.DefaultConfig()
	s := cfg.Storage

	pc.Path = s.Path
	pc.InMemory = s.InMemory
	pc.SyncWrites = s.SyncWrites
	pc.GCRatio = s.GCRatio
	pc.BreakerFailures = s.BreakerFailures
	pc.BreakerTimeout = s.BreakerTimeout
	return pc
}

func buildEventBusConfig(cfg *config.Config) eventbus.Config {
	bc := eventbus.DefaultConfig()
	e := cfg.EventBus

	bc.BufferSize = e.BufferSize
	bc.RetryCount = e.RetryCount
	bc.RetryInitialInterval = e.RetryInitialInterval
	bc.CloseTimeout = e.CloseTimeout
	return bc
}
