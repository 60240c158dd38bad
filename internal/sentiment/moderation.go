// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package sentiment

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/textproc"
)

// Moderation reasons.
const (
	ReasonInappropriate     = "inappropriate_language"
	ReasonSpam              = "spam"
	ReasonNegativeSentiment = "negative_sentiment"
)

// Action is the suggested handling of moderated content.
type Action string

// Moderation actions.
const (
	ActionApprove Action = "approve"
	ActionReview  Action = "review"
	ActionBlock   Action = "block"
)

// Spam signal weights. A single strong signal reaches the default threshold.
const (
	spamWeightPunctuation = 0.2
	spamWeightCaps        = 0.2
	spamWeightURLs        = 0.3
	spamWeightPhrase      = 0.4
	spamWeightRepetition  = 0.4
)

var (
	repeatedPunctuation = regexp.MustCompile(`[!?.]{3,}`)
	urlPattern          = regexp.MustCompile(`https?://\S+`)
)

// ModerationResult is the outcome of Moderate.
type ModerationResult struct {
	Flagged   bool     `json:"flagged"`
	Reasons   []string `json:"reasons"`
	Keywords  []string `json:"keywords,omitempty"`
	Signals   []string `json:"spam_signals,omitempty"`
	SpamScore float64  `json:"spam_score"`
	Sentiment float64  `json:"sentiment"`
	Action    Action   `json:"action"`
}

// Moderate checks text for inappropriate keywords and spam patterns.
// Strongly negative sentiment is reported as a reason but does not flag the
// content on its own.
func (s *Scorer) Moderate(text string) (ModerationResult, error) {
	scored, err := s.Score(text)
	if err != nil {
		return ModerationResult{}, err
	}

	res := ModerationResult{Reasons: []string{}, Sentiment: scored.Sentiment, Action: ActionApprove}
	tokens := textproc.Tokenize(text)

	res.Keywords = s.matchKeywords(tokens)
	if len(res.Keywords) > 0 {
		res.Flagged = true
		res.Reasons = append(res.Reasons, ReasonInappropriate)
	}

	res.Signals, res.SpamScore = s.spamSignals(text, tokens)
	if res.SpamScore >= s.config.Moderation.SpamThreshold {
		res.Flagged = true
		res.Reasons = append(res.Reasons, ReasonSpam)
	}

	if scored.Sentiment < s.config.Moderation.NegativeSentiment {
		res.Reasons = append(res.Reasons, ReasonNegativeSentiment)
	}

	switch {
	case len(res.Keywords) > 0:
		res.Action = ActionBlock
	case res.Flagged:
		res.Action = ActionReview
	}
	return res, nil
}

// matchKeywords returns the configured keywords that start any token, so
// "threatening" matches "threat".
func (s *Scorer) matchKeywords(tokens []string) []string {
	var found []string
	for _, kw := range s.keywords {
		for _, tok := range tokens {
			if strings.HasPrefix(tok, kw) {
				found = append(found, kw)
				break
			}
		}
	}
	return found
}

func (s *Scorer) spamSignals(text string, tokens []string) ([]string, float64) {
	var (
		signals []string
		score   float64
	)
	add := func(name string, w float64) {
		signals = append(signals, name)
		score += w
	}

	if repeatedPunctuation.MatchString(text) {
		add("repeated_punctuation", spamWeightPunctuation)
	}
	if capsRun(text) >= s.config.Moderation.MinCapsRun {
		add("all_caps", spamWeightCaps)
	}

	lower := strings.ToLower(text)
	for _, p := range s.phrases {
		if strings.Contains(lower, p) {
			add("phrase:"+p, spamWeightPhrase)
			break
		}
	}

	if repeatedURLs(text) {
		add("repeated_urls", spamWeightURLs)
	}

	if len(tokens) > 5 {
		unique := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			unique[t] = struct{}{}
		}
		if float64(len(tokens))/float64(len(unique)) > s.config.Moderation.MaxRepetitionRatio {
			add("word_repetition", spamWeightRepetition)
		}
	}

	return signals, clamp(score, 0, 1)
}

// capsRun returns the longest run of consecutive upper-case words of at
// least two letters.
func capsRun(text string) int {
	best, run := 0, 0
	for _, w := range strings.Fields(text) {
		if isShouted(w) {
			run++
			best = max(best, run)
		} else {
			run = 0
		}
	}
	return best
}

func isShouted(word string) bool {
	letters := 0
	for _, r := range word {
		if !unicode.IsLetter(r) {
			continue
		}
		if !unicode.IsUpper(r) {
			return false
		}
		letters++
	}
	return letters >= 2
}

// repeatedURLs reports more than two links, or the same link twice.
func repeatedURLs(text string) bool {
	urls := urlPattern.FindAllString(text, -1)
	if len(urls) > 2 {
		return true
	}
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if _, dup := seen[u]; dup {
			return true
		}
		seen[u] = struct{}{}
	}
	return false
}

// ValidateText is the shared precondition of Score and Moderate.
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("text", "must not be empty")
	}
	return nil
}
