// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package engagement

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the predictor's multipliers and fallbacks.
type Config struct {
	// MinHistory is the number of scored items a snapshot needs before
	// predictions use it instead of the baseline.
	MinHistory int `json:"min_history"`

	BaselineLikes float64 `json:"baseline_likes"`
	CommentRatio  float64 `json:"comment_ratio"`
	ShareRatio    float64 `json:"share_ratio"`

	// SentimentWeight scales likes by (1 + weight*sentiment).
	SentimentWeight float64 `json:"sentiment_weight"`

	PeakHours      []int   `json:"peak_hours"`
	PeakMultiplier float64 `json:"peak_multiplier"`

	WeekendDays       []time.Weekday `json:"weekend_days"`
	WeekendMultiplier float64        `json:"weekend_multiplier"`

	CaptionMin        int     `json:"caption_min"`
	CaptionMax        int     `json:"caption_max"`
	CaptionMultiplier float64 `json:"caption_multiplier"`

	HashtagBoost    float64 `json:"hashtag_boost"`
	HashtagBoostMax float64 `json:"hashtag_boost_max"`
	MaxHashtags     int     `json:"max_hashtags"`
}

// DefaultConfig returns the default multipliers.
func DefaultConfig() Config {
	return Config{
		MinHistory:        5,
		BaselineLikes:     10,
		CommentRatio:      0.1,
		ShareRatio:        0.05,
		SentimentWeight:   0.2,
		PeakHours:         []int{8, 9, 10, 19, 20, 21},
		PeakMultiplier:    1.3,
		WeekendDays:       []time.Weekday{time.Friday, time.Saturday, time.Sunday},
		WeekendMultiplier: 1.2,
		CaptionMin:        50,
		CaptionMax:        200,
		CaptionMultiplier: 1.1,
		HashtagBoost:      0.05,
		HashtagBoostMax:   0.3,
		MaxHashtags:       10,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error
	if c.MinHistory < 0 {
		errs = append(errs, errors.New("min_history must not be negative"))
	}
	if c.BaselineLikes <= 0 {
		errs = append(errs, errors.New("baseline_likes must be positive"))
	}
	if c.CommentRatio < 0 || c.ShareRatio < 0 {
		errs = append(errs, errors.New("comment_ratio and share_ratio must not be negative"))
	}
	if c.SentimentWeight < 0 || c.SentimentWeight >= 1 {
		errs = append(errs, fmt.Errorf("sentiment_weight must be in [0,1), got %v", c.SentimentWeight))
	}
	for _, h := range c.PeakHours {
		if h < 0 || h > 23 {
			errs = append(errs, fmt.Errorf("peak hour %d out of range", h))
		}
	}
	if c.PeakMultiplier < 1 || c.WeekendMultiplier < 1 || c.CaptionMultiplier < 1 {
		errs = append(errs, errors.New("multipliers must be at least 1"))
	}
	if c.CaptionMin < 0 || c.CaptionMax < c.CaptionMin {
		errs = append(errs, fmt.Errorf("caption range [%d,%d] is invalid", c.CaptionMin, c.CaptionMax))
	}
	if c.HashtagBoost < 0 || c.HashtagBoostMax < 0 {
		errs = append(errs, errors.New("hashtag boosts must not be negative"))
	}
	if c.MaxHashtags < 1 {
		errs = append(errs, errors.New("max_hashtags must be at least 1"))
	}
	return errors.Join(errs...)
}

// maxMultiplier is the largest product of multipliers a draft can earn.
func (c *Config) maxMultiplier() float64 {
	return (1 + c.SentimentWeight) * c.PeakMultiplier * c.WeekendMultiplier * c.CaptionMultiplier * (1 + c.HashtagBoostMax)
}
