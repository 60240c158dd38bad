// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package textproc provides the tokenizer, stop-word list and hashtag handling
// shared by the content index, the sentiment scorer and the engagement predictor.
//
// All functions are pure and safe for concurrent use.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
)

// HashtagPrefix marks hashtag tokens inside term vectors.
const HashtagPrefix = "#"

var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// stopWords is a compact English stop-word list. Tokens in this set carry no
// topical signal and are removed from content term vectors.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "after": {}, "again": {}, "all": {}, "am": {}, "an": {}, "and": {},
	"any": {}, "are": {}, "as": {}, "at": {}, "be": {}, "been": {}, "before": {}, "being": {},
	"but": {}, "by": {}, "can": {}, "could": {}, "did": {}, "do": {}, "does": {}, "doing": {},
	"for": {}, "from": {}, "had": {}, "has": {}, "have": {}, "having": {}, "he": {}, "her": {},
	"here": {}, "hers": {}, "him": {}, "his": {}, "how": {}, "i": {}, "if": {}, "in": {},
	"into": {}, "is": {}, "it": {}, "its": {}, "just": {}, "me": {}, "more": {}, "most": {},
	"my": {}, "no": {}, "not": {}, "now": {}, "of": {}, "off": {}, "on": {}, "once": {},
	"only": {}, "or": {}, "other": {}, "our": {}, "out": {}, "over": {}, "own": {}, "so": {},
	"same": {}, "she": {}, "should": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {},
	"this": {}, "those": {}, "through": {}, "to": {}, "too": {}, "up": {}, "very": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {},
	"while": {}, "who": {}, "why": {}, "will": {}, "with": {}, "would": {}, "you": {},
	"your": {}, "yours": {},
}

// IsStopWord reports whether the lowercased token is a stop word.
func IsStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}

// Tokenize lowercases text and splits it into word tokens. Any rune that is
// not a letter or digit separates tokens; apostrophes are dropped so that
// "don't" becomes "dont".
func Tokenize(text string) []string {
	text = strings.ReplaceAll(strings.ToLower(text), "'", "")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ExtractHashtags returns the hashtags found in text, lowercased and without
// the leading '#', in order of first appearance.
func ExtractHashtags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1])
	}
	return NormalizeHashtags(tags)
}

// NormalizeHashtags lowercases tags, strips a leading '#', drops empty values
// and removes duplicates while keeping the first-seen order.
func NormalizeHashtags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(tag), HashtagPrefix)))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// MergeHashtags combines explicit hashtags with those found in text.
func MergeHashtags(explicit []string, text string) []string {
	return NormalizeHashtags(append(append([]string{}, explicit...), ExtractHashtags(text)...))
}

// ContentTerms returns the terms used for content vectors: text tokens with
// stop words and single characters removed, followed by one "#tag" term per
// hashtag.
func ContentTerms(text string, hashtags []string) []string {
	tokens := Tokenize(text)
	terms := make([]string, 0, len(tokens)+len(hashtags))
	for _, tok := range tokens {
		if len([]rune(tok)) < 2 || IsStopWord(tok) {
			continue
		}
		terms = append(terms, tok)
	}
	for _, tag := range hashtags {
		terms = append(terms, HashtagPrefix+tag)
	}
	return terms
}
