// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package sentiment scores free text for sentiment, quality and moderation
issues using explicit rule tables.

Nothing here is trained. Lexicons, thresholds and weights live in Config so
that every score can be traced back to the rule that produced it, and so a
deployment can tune them through configuration.

# Sentiment

	sentiment = (positive - negative) / max(tokens, 1), clipped to [-1, 1]

Labels: positive above PositiveThreshold (0.1), negative below
NegativeThreshold (-0.1), neutral otherwise.

# Quality

Quality is a weighted sum of three components, each in [0, 1]:

  - length: 1 inside [MinLength, MaxLength] runes, proportionally lower outside
  - repetition: 1 minus the share of repeated characters and repeated words
  - structure: 1 while the hashtag count stays within MaxHashtags

# Moderation

Moderate flags inappropriate keywords and spam. Spam signals (repeated
punctuation, ALL-CAPS runs, spam phrases, repeated URLs, high word
repetition) add to a spam score; content at or above SpamThreshold is
flagged as spam.

# Thread Safety

A Scorer is immutable after construction and safe for concurrent use.
*/
package sentiment
