// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package content maintains the content index: one immutable feature vector
// per content id, superseded wholesale when the content is re-indexed.
package content

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/sequence"
	"github.com/tomtom215/resonance/internal/textproc"
)

// Document is the raw content metadata supplied by collaborators.
type Document struct {
	ContentID string
	Text      string
	Hashtags  []string
	Category  string
	AuthorID  string
	CreatedAt time.Time
}

// Store persists indexed vectors.
type Store interface {
	PutContent(ctx context.Context, v *models.ContentFeatureVector) error
}

// Loader yields previously persisted vectors.
type Loader interface {
	LoadContent(ctx context.Context, fn func(models.ContentFeatureVector) error) error
}

// Index is safe for concurrent use. Returned vectors are shared and must
// not be modified.
type Index struct {
	mu      sync.RWMutex
	vectors map[string]*models.ContentFeatureVector
	seq     *sequence.Tracker
	store   Store
	logger  zerolog.Logger
}

// NewIndex creates an empty index. store may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewIndex(store Store, logger zerolog.Logger) *Index {
	return &Index{
		vectors: make(map[string]*models.ContentFeatureVector),
		seq:     sequence.NewTracker(),
		store:   store,
		logger:  logger,
	}
}

// Vectorize builds the feature vector for doc. Hashtags are the union of the
// explicit tags and those found in the text.
func Vectorize(doc *Document) (*models.ContentFeatureVector, error) {
	if strings.TrimSpace(doc.ContentID) == "" {
		return nil, models.NewValidationError("content_id", "is required")
	}
	category := strings.ToLower(strings.TrimSpace(doc.Category))
	hashtags := textproc.MergeHashtags(doc.Hashtags, doc.Text)
	if strings.TrimSpace(doc.Text) == "" && len(hashtags) == 0 && category == "" {
		return nil, models.NewValidationError("text", "must not be empty when no hashtags or category are given")
	}
	if doc.CreatedAt.IsZero() {
		return nil, models.NewValidationError("created_at", "is required")
	}

	return &models.ContentFeatureVector{
		ContentID: doc.ContentID,
		Terms:     TermFrequencies(textproc.ContentTerms(doc.Text, hashtags)),
		Category:  category,
		Hashtags:  hashtags,
		AuthorID:  strings.TrimSpace(doc.AuthorID),
		CreatedAt: doc.CreatedAt.UTC(),
	}, nil
}

// TermFrequencies returns the L2-normalized term frequency vector of terms.
func TermFrequencies(terms []string) map[string]float64 {
	tf := make(map[string]float64, len(terms))
	for _, t := range terms {
		tf[t]++
	}
	Normalize(tf)
	return tf
}

// Normalize scales v to unit L2 length in place. A zero vector is left as is.
func Normalize(v map[string]float64) {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sum float64
	for _, k := range keys {
		sum += v[k] * v[k]
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for k, x := range v {
		v[k] = x / norm
	}
}

// Index vectorizes, persists and publishes doc. created reports whether the
// content id was new to the index. A created vector carries a fresh
// sequence that stays pending in Progress until Settle.
func (ix *Index) Index(ctx context.Context, doc *Document) (vec *models.ContentFeatureVector, created bool, err error) {
	vec, err = Vectorize(doc)
	if err != nil {
		return nil, false, err
	}

	prev, known := ix.Get(vec.ContentID)
	if known {
		vec.Sequence = prev.Sequence
	} else {
		vec.Sequence = ix.seq.Next()
	}

	if ix.store != nil {
		if err := ix.store.PutContent(ctx, vec); err != nil {
			if !known {
				ix.seq.Settle(vec.Sequence)
			}
			return nil, false, fmt.Errorf("persist content %s: %w", vec.ContentID, err)
		}
	}

	ix.mu.Lock()
	_, exists := ix.vectors[vec.ContentID]
	ix.vectors[vec.ContentID] = vec
	ix.mu.Unlock()

	// A concurrent first publication of the same id won the race; its
	// sequence carries the publication and ours is abandoned.
	if exists && !known {
		ix.seq.Settle(vec.Sequence)
	}

	ix.logger.Debug().
		Str("content_id", vec.ContentID).
		Int("terms", len(vec.Terms)).
		Bool("superseded", exists).
		Msg("Content indexed")

	return vec, !exists, nil
}

// Load restores persisted vectors into the index.
func (ix *Index) Load(ctx context.Context, l Loader) (int, error) {
	n := 0
	err := l.LoadContent(ctx, func(v models.ContentFeatureVector) error {
		vec := v
		ix.mu.Lock()
		ix.vectors[vec.ContentID] = &vec
		ix.mu.Unlock()
		ix.seq.Advance(vec.Sequence)
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("load content: %w", err)
	}
	ix.logger.Info().Int("documents", n).Msg("Content index loaded")
	return n, nil
}

// Get returns the current vector for id.
func (ix *Index) Get(id string) (*models.ContentFeatureVector, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	v, ok := ix.vectors[id]
	return v, ok
}

// Meta returns the ranking metadata for id.
func (ix *Index) Meta(id string) (models.ContentMeta, bool) {
	v, ok := ix.Get(id)
	if !ok {
		return models.ContentMeta{}, false
	}
	return v.Meta(), true
}

// Snapshot returns the current vectors ordered by content id.
func (ix *Index) Snapshot() []*models.ContentFeatureVector {
	ix.mu.RLock()
	out := make([]*models.ContentFeatureVector, 0, len(ix.vectors))
	for _, v := range ix.vectors {
		out = append(out, v)
	}
	ix.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ContentID < out[j].ContentID })
	return out
}

// Settle records that the publication with sequence seq has been counted.
func (ix *Index) Settle(seq uint64) {
	ix.seq.Settle(seq)
}

// Progress returns which publications have been settled.
func (ix *Index) Progress() sequence.Mark {
	return ix.seq.Mark()
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vectors)
}
