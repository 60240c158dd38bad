// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package sentiment

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/tomtom215/resonance/internal/models"
)

func TestModerate(t *testing.T) {
	s := newTestScorer(t)

	tests := []struct {
		name        string
		text        string
		wantFlagged bool
		wantAction  Action
		wantReasons []string
	}{
		{"clean", "Have a lovely day everyone", false, ActionApprove, []string{}},
		{"keyword", "I will report this harassment", true, ActionBlock, []string{ReasonInappropriate}},
		{"keyword prefix", "stop threatening people", true, ActionBlock, []string{ReasonInappropriate}},
		{"spam phrase and shouting", "CLICK HERE NOW to get paid!!!", true, ActionReview, []string{ReasonSpam}},
		{"word repetition", "buy buy buy buy buy buy buy", true, ActionReview, []string{ReasonSpam}},
		{"repeated link", "see http://x.io/a and http://x.io/a", false, ActionApprove, []string{}},
		{"negative only", "awful terrible horrible", false, ActionApprove, []string{ReasonNegativeSentiment}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Moderate(tt.text)
			if err != nil {
				t.Fatalf("Moderate() error = %v", err)
			}
			if got.Flagged != tt.wantFlagged {
				t.Errorf("Flagged = %v, want %v (signals %v, score %v)", got.Flagged, tt.wantFlagged, got.Signals, got.SpamScore)
			}
			if got.Action != tt.wantAction {
				t.Errorf("Action = %s, want %s", got.Action, tt.wantAction)
			}
			if !slices.Equal(got.Reasons, tt.wantReasons) {
				t.Errorf("Reasons = %v, want %v", got.Reasons, tt.wantReasons)
			}
			if got.SpamScore < 0 || got.SpamScore > 1 {
				t.Errorf("SpamScore %v out of [0,1]", got.SpamScore)
			}
		})
	}
}

func TestModerate_SpamSignals(t *testing.T) {
	s := newTestScorer(t)

	got, err := s.Moderate("WIN BIG TODAY click here http://a.io http://b.io http://c.io")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"all_caps", "phrase:click here", "repeated_urls"} {
		if !slices.Contains(got.Signals, want) {
			t.Errorf("Signals = %v, missing %s", got.Signals, want)
		}
	}
	if math.Abs(got.SpamScore-0.9) > 1e-9 {
		t.Errorf("SpamScore = %v, want 0.9", got.SpamScore)
	}
}

func TestModerate_EmptyText(t *testing.T) {
	s := newTestScorer(t)
	if _, err := s.Moderate(" "); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Moderate() error = %v, want ErrValidation", err)
	}
}

func TestCapsRun(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"hello world", 0},
		{"BUY NOW please", 2},
		{"I AM SO HAPPY", 3},
		{"A B C", 0},
	}
	for _, tt := range tests {
		if got := capsRun(tt.text); got != tt.want {
			t.Errorf("capsRun(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
