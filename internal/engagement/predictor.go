// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package engagement predicts likes, comments and shares for a draft post
// before it is published.
//
// A prediction starts from a base like count and multiplies it by rule-table
// factors: sentiment, posting hour, weekday, caption length and hashtag
// count. With a trained snapshot the base is interpolated between the
// average item and the high performers by the draft's TF-IDF similarity to
// the high performers. Without enough history a fixed baseline is used and
// the prediction is labelled as such.
//
// Predict never reads the wall clock, so identical drafts always yield
// identical predictions.
package engagement

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/tomtom215/resonance/internal/content"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/sentiment"
	"github.com/tomtom215/resonance/internal/textproc"
)

// Basis tells which estimate a prediction is built on.
type Basis string

// Prediction bases.
const (
	BasisModel    Basis = "model"
	BasisBaseline Basis = "baseline"
)

// Suggestion codes returned with a prediction.
const (
	SuggestAddHashtags     = "add_hashtags"
	SuggestReduceHashtags  = "reduce_hashtags"
	SuggestPeakHour        = "post_at_peak_hour"
	SuggestLengthenCaption = "lengthen_caption"
	SuggestShortenCaption  = "shorten_caption"
	SuggestFixTone         = "fix_negative_tone"
)

// Draft is a post that has not been published yet.
type Draft struct {
	Text     string    `json:"text"`
	Hashtags []string  `json:"hashtags,omitempty"`
	Category string    `json:"category,omitempty"`
	PostAt   time.Time `json:"post_at"`
}

// Prediction is the outcome of Predict.
type Prediction struct {
	PredictedLikes    float64 `json:"predicted_likes"`
	PredictedComments float64 `json:"predicted_comments"`
	PredictedShares   float64 `json:"predicted_shares"`
	ViralScore        float64 `json:"viral_score"`
	Basis             Basis   `json:"basis"`

	Sentiment   float64         `json:"sentiment"`
	Label       sentiment.Label `json:"sentiment_label"`
	Similarity  float64         `json:"similarity"`
	Multiplier  float64         `json:"multiplier"`
	Hashtags    int             `json:"hashtags"`
	Suggestions []string        `json:"suggestions"`

	SnapshotVersion int64 `json:"snapshot_version,omitempty"`
}

// SnapshotSource returns the active model snapshot, or nil.
type SnapshotSource interface {
	Snapshot() *recommend.Snapshot
}

// Predictor is safe for concurrent use.
type Predictor struct {
	config    Config
	scorer    *sentiment.Scorer
	snapshots SnapshotSource
}

// NewPredictor validates cfg. snapshots may be nil, in which case every
// prediction uses the baseline.
func NewPredictor(cfg Config, scorer *sentiment.Scorer, snapshots SnapshotSource) (*Predictor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engagement config: %w", err)
	}
	if scorer == nil {
		return nil, fmt.Errorf("sentiment scorer is required")
	}
	return &Predictor{config: cfg, scorer: scorer, snapshots: snapshots}, nil
}

// Predict estimates engagement for d. An empty draft gets the baseline
// estimate, not an error.
//
//nolint:gocritic // hugeParam: draft passed by value for immutability
func (p *Predictor) Predict(d Draft) Prediction {
	cfg := &p.config
	hashtags := textproc.MergeHashtags(d.Hashtags, d.Text)

	mood := sentiment.Neutral()
	if strings.TrimSpace(d.Text) != "" {
		if r, err := p.scorer.Score(d.Text); err == nil {
			mood = r
		}
	}

	pred := Prediction{
		Basis:     BasisBaseline,
		Sentiment: mood.Sentiment,
		Label:     mood.Label,
		Hashtags:  len(hashtags),
	}

	base := cfg.BaselineLikes
	reference := cfg.BaselineLikes
	commentRatio, shareRatio := cfg.CommentRatio, cfg.ShareRatio

	if snap := p.snapshot(); snap != nil && snap.Engagement.ScoredItems >= cfg.MinHistory {
		stats := snap.Engagement
		pred.Basis = BasisModel
		pred.SnapshotVersion = snap.Version

		terms := textproc.ContentTerms(d.Text, hashtags)
		if len(terms) > 0 {
			vec := snap.Content.Embed(content.TermFrequencies(terms))
			pred.Similarity = snap.Content.MaxSimilarity(vec, stats.HighPerformers)
		}

		base = stats.AvgLikes + (stats.TopAvgLikes-stats.AvgLikes)*pred.Similarity
		reference = max(stats.TopAvgLikes, stats.AvgLikes)
		if stats.CommentRatio > 0 {
			commentRatio = stats.CommentRatio
		}
		if stats.ShareRatio > 0 {
			shareRatio = stats.ShareRatio
		}
	}

	pred.Multiplier = p.multiplier(d, mood.Sentiment, len(hashtags))
	pred.PredictedLikes = round2(math.Max(base*pred.Multiplier, 0))
	pred.PredictedComments = round2(pred.PredictedLikes * commentRatio)
	pred.PredictedShares = round2(pred.PredictedLikes * shareRatio)

	if reference > 0 {
		pred.ViralScore = round2(clamp01(pred.PredictedLikes / (reference * cfg.maxMultiplier())))
	}
	pred.Suggestions = p.suggestions(d, mood.Label, len(hashtags))
	return pred
}

func (p *Predictor) snapshot() *recommend.Snapshot {
	if p.snapshots == nil {
		return nil
	}
	return p.snapshots.Snapshot()
}

//nolint:gocritic // hugeParam: draft passed by value for immutability
func (p *Predictor) multiplier(d Draft, mood float64, hashtags int) float64 {
	cfg := &p.config
	m := 1 + cfg.SentimentWeight*mood

	if !d.PostAt.IsZero() {
		if slices.Contains(cfg.PeakHours, d.PostAt.Hour()) {
			m *= cfg.PeakMultiplier
		}
		if slices.Contains(cfg.WeekendDays, d.PostAt.Weekday()) {
			m *= cfg.WeekendMultiplier
		}
	}

	if n := utf8.RuneCountInString(strings.TrimSpace(d.Text)); n >= cfg.CaptionMin && n <= cfg.CaptionMax {
		m *= cfg.CaptionMultiplier
	}

	if hashtags >= 1 && hashtags <= cfg.MaxHashtags {
		m *= 1 + math.Min(float64(hashtags)*cfg.HashtagBoost, cfg.HashtagBoostMax)
	}
	return m
}

//nolint:gocritic // hugeParam: draft passed by value for immutability
func (p *Predictor) suggestions(d Draft, label sentiment.Label, hashtags int) []string {
	cfg := &p.config
	out := []string{}

	switch {
	case hashtags == 0:
		out = append(out, SuggestAddHashtags)
	case hashtags > cfg.MaxHashtags:
		out = append(out, SuggestReduceHashtags)
	}

	if !d.PostAt.IsZero() && !slices.Contains(cfg.PeakHours, d.PostAt.Hour()) {
		out = append(out, SuggestPeakHour)
	}

	switch n := utf8.RuneCountInString(strings.TrimSpace(d.Text)); {
	case n < cfg.CaptionMin:
		out = append(out, SuggestLengthenCaption)
	case n > cfg.CaptionMax:
		out = append(out, SuggestShortenCaption)
	}

	if label == sentiment.LabelNegative {
		out = append(out, SuggestFixTone)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
