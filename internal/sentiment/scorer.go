// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package sentiment

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tomtom215/resonance/internal/textproc"
)

// Label is the sentiment class of a text.
type Label string

// Sentiment labels.
const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Result is the outcome of Score.
type Result struct {
	Sentiment float64 `json:"sentiment"`
	Label     Label   `json:"label"`
	Quality   float64 `json:"quality"`

	Positive int `json:"positive_matches"`
	Negative int `json:"negative_matches"`
	Tokens   int `json:"tokens"`
	Hashtags int `json:"hashtags"`
}

// Scorer applies the configured rule tables.
type Scorer struct {
	config   Config
	positive map[string]struct{}
	negative map[string]struct{}
	keywords []string
	phrases  []string
}

// NewScorer validates cfg and builds the lexicon lookups.
func NewScorer(cfg Config) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sentiment config: %w", err)
	}
	return &Scorer{
		config:   cfg,
		positive: wordSet(cfg.PositiveWords),
		negative: wordSet(cfg.NegativeWords),
		keywords: lowerAll(cfg.Moderation.Keywords),
		phrases:  lowerAll(cfg.Moderation.SpamPhrases),
	}, nil
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Config returns a copy of the rule tables.
func (s *Scorer) Config() Config {
	return s.config
}

// Score returns sentiment, label and quality for text. Empty or whitespace
// text is a validation error.
func (s *Scorer) Score(text string) (Result, error) {
	if err := ValidateText(text); err != nil {
		return Result{}, err
	}

	tokens := textproc.Tokenize(text)
	res := Result{Tokens: len(tokens)}
	for _, tok := range tokens {
		if _, ok := s.positive[tok]; ok {
			res.Positive++
		}
		if _, ok := s.negative[tok]; ok {
			res.Negative++
		}
	}

	res.Sentiment = clamp(float64(res.Positive-res.Negative)/float64(max(len(tokens), 1)), -1, 1)
	res.Label = s.label(res.Sentiment)

	hashtags := textproc.ExtractHashtags(text)
	res.Hashtags = len(hashtags)
	res.Quality = s.quality(text, tokens, len(hashtags))
	return res, nil
}

// Neutral is the result used where a text is absent but a score is still
// needed, such as a draft with no caption.
func Neutral() Result {
	return Result{Label: LabelNeutral}
}

func (s *Scorer) label(v float64) Label {
	switch {
	case v > s.config.PositiveThreshold:
		return LabelPositive
	case v < s.config.NegativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

func (s *Scorer) quality(text string, tokens []string, hashtags int) float64 {
	q := s.config.Quality
	total := q.LengthWeight + q.RepetitionWeight + q.StructureWeight

	length := lengthAdequacy(utf8.RuneCountInString(strings.TrimSpace(text)), q.MinLength, q.MaxLength)
	repetition := clamp(1-charRepetition(text, q.MaxCharRun)-wordRepetition(tokens), 0, 1)
	structure := 1.0
	if hashtags > q.MaxHashtags {
		structure = float64(q.MaxHashtags) / float64(hashtags)
	}

	score := (q.LengthWeight*length + q.RepetitionWeight*repetition + q.StructureWeight*structure) / total
	return clamp(score, 0, 1)
}

// lengthAdequacy is 1 inside [lo, hi] and falls off proportionally outside.
func lengthAdequacy(n, lo, hi int) float64 {
	switch {
	case n < lo:
		return float64(n) / float64(lo)
	case n > hi:
		return float64(hi) / float64(n)
	default:
		return 1
	}
}

// charRepetition returns the share of runes that extend a run of one
// character beyond maxRun ("soooooo" has 3 excess runes for maxRun 3).
func charRepetition(text string, maxRun int) float64 {
	var (
		prev   rune
		run    int
		excess int
		total  int
	)
	for _, r := range text {
		total++
		if r == prev {
			run++
		} else {
			prev, run = r, 1
		}
		if run > maxRun {
			excess++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(excess) / float64(total)
}

// wordRepetition returns the share of tokens that repeat an earlier token.
func wordRepetition(tokens []string) float64 {
	if len(tokens) < 2 {
		return 0
	}
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		seen[t] = struct{}{}
	}
	return float64(len(tokens)-len(seen)) / float64(len(tokens))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
