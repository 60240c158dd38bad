// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package sentiment

import (
	"errors"
	"fmt"
)

// Config holds the rule tables of the scorer.
type Config struct {
	PositiveWords []string `json:"positive_words"`
	NegativeWords []string `json:"negative_words"`

	PositiveThreshold float64 `json:"positive_threshold"`
	NegativeThreshold float64 `json:"negative_threshold"`

	Quality    QualityConfig    `json:"quality"`
	Moderation ModerationConfig `json:"moderation"`
}

// QualityConfig controls the quality score.
type QualityConfig struct {
	MinLength   int `json:"min_length"`
	MaxLength   int `json:"max_length"`
	MaxHashtags int `json:"max_hashtags"`

	// MaxCharRun is the longest run of one character that is not penalized.
	MaxCharRun int `json:"max_char_run"`

	LengthWeight     float64 `json:"length_weight"`
	RepetitionWeight float64 `json:"repetition_weight"`
	StructureWeight  float64 `json:"structure_weight"`
}

// ModerationConfig controls Moderate.
type ModerationConfig struct {
	Keywords    []string `json:"keywords"`
	SpamPhrases []string `json:"spam_phrases"`

	// MinCapsRun is the number of consecutive ALL-CAPS words that counts as
	// shouting.
	MinCapsRun int `json:"min_caps_run"`

	// MaxRepetitionRatio is the words/unique-words ratio above which text is
	// treated as spam. Only applies to texts with more than five words.
	MaxRepetitionRatio float64 `json:"max_repetition_ratio"`

	SpamThreshold float64 `json:"spam_threshold"`

	// NegativeSentiment reports negative_sentiment below this score without
	// flagging the content.
	NegativeSentiment float64 `json:"negative_sentiment"`
}

// DefaultConfig returns the built-in rule tables.
func DefaultConfig() Config {
	return Config{
		PositiveWords: []string{
			"amazing", "awesome", "beautiful", "best", "brilliant", "enjoy", "excellent",
			"fantastic", "fun", "glad", "good", "great", "happy", "incredible", "inspiring",
			"love", "lovely", "nice", "perfect", "super", "thanks", "wonderful", "wow",
		},
		NegativeWords: []string{
			"angry", "annoying", "awful", "bad", "boring", "broken", "disappointing",
			"disgusting", "fail", "hate", "horrible", "poor", "sad", "stupid", "terrible",
			"ugly", "useless", "worse", "worst",
		},
		PositiveThreshold: 0.1,
		NegativeThreshold: -0.1,
		Quality: QualityConfig{
			MinLength:        20,
			MaxLength:        500,
			MaxHashtags:      10,
			MaxCharRun:       3,
			LengthWeight:     0.4,
			RepetitionWeight: 0.4,
			StructureWeight:  0.2,
		},
		Moderation: ModerationConfig{
			Keywords: []string{
				"spam", "hate", "abuse", "violence", "harassment", "bullying",
				"discrimination", "threat", "dangerous", "illegal",
			},
			SpamPhrases: []string{
				"click here", "buy now", "free money", "limited offer", "act now", "dm for promo",
			},
			MinCapsRun:         3,
			MaxRepetitionRatio: 3,
			SpamThreshold:      0.4,
			NegativeSentiment:  -0.5,
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error
	if len(c.PositiveWords) == 0 {
		errs = append(errs, errors.New("positive_words must not be empty"))
	}
	if len(c.NegativeWords) == 0 {
		errs = append(errs, errors.New("negative_words must not be empty"))
	}
	if c.PositiveThreshold < 0 || c.PositiveThreshold > 1 {
		errs = append(errs, fmt.Errorf("positive_threshold must be in [0,1], got %v", c.PositiveThreshold))
	}
	if c.NegativeThreshold > 0 || c.NegativeThreshold < -1 {
		errs = append(errs, fmt.Errorf("negative_threshold must be in [-1,0], got %v", c.NegativeThreshold))
	}

	q := c.Quality
	if q.MinLength < 1 || q.MaxLength < q.MinLength {
		errs = append(errs, fmt.Errorf("quality length range [%d,%d] is invalid", q.MinLength, q.MaxLength))
	}
	if q.MaxHashtags < 0 {
		errs = append(errs, errors.New("quality.max_hashtags must not be negative"))
	}
	if q.MaxCharRun < 1 {
		errs = append(errs, errors.New("quality.max_char_run must be at least 1"))
	}
	if q.LengthWeight < 0 || q.RepetitionWeight < 0 || q.StructureWeight < 0 {
		errs = append(errs, errors.New("quality weights must not be negative"))
	}
	if q.LengthWeight+q.RepetitionWeight+q.StructureWeight == 0 {
		errs = append(errs, errors.New("at least one quality weight must be positive"))
	}

	m := c.Moderation
	if m.MinCapsRun < 1 {
		errs = append(errs, errors.New("moderation.min_caps_run must be at least 1"))
	}
	if m.MaxRepetitionRatio < 1 {
		errs = append(errs, errors.New("moderation.max_repetition_ratio must be at least 1"))
	}
	if m.SpamThreshold <= 0 || m.SpamThreshold > 1 {
		errs = append(errs, fmt.Errorf("moderation.spam_threshold must be in (0,1], got %v", m.SpamThreshold))
	}
	return errors.Join(errs...)
}
