// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package textproc

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"punctuation", "This is amazing content! Love it!", []string{"this", "is", "amazing", "content", "love", "it"}},
		{"apostrophe", "Don't stop", []string{"dont", "stop"}},
		{"hashtags split", "#Music rocks", []string{"music", "rocks"}},
		{"empty", "   ", []string{}},
		{"digits", "top 10 songs", []string{"top", "10", "songs"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractHashtags(t *testing.T) {
	got := ExtractHashtags("Loving this #Music and #dance, more #music!")
	want := []string{"music", "dance"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractHashtags() = %v, want %v", got, want)
	}
}

func TestMergeHashtags(t *testing.T) {
	got := MergeHashtags([]string{"#Food", " travel ", ""}, "street #food in #tokyo")
	want := []string{"food", "travel", "tokyo"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MergeHashtags() = %v, want %v", got, want)
	}
}

func TestContentTerms(t *testing.T) {
	got := ContentTerms("The best jazz in a small club", []string{"jazz"})
	want := []string{"best", "jazz", "small", "club", "#jazz"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ContentTerms() = %v, want %v", got, want)
	}
}
