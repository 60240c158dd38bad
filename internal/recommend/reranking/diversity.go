// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package reranking

import (
	"context"

	"github.com/tomtom215/resonance/internal/models"
)

// maxRerankSize bounds the work done for a single request.
const maxRerankSize = 10000

// MetaLookup returns ranking metadata for a content id.
type MetaLookup func(id string) (models.ContentMeta, bool)

// Diversity limits consecutive items with the same category or author.
type Diversity struct {
	maxRun int
}

// NewDiversity creates a diversity reranker allowing at most maxRun
// consecutive items per category or author. Values below 1 become 1.
func NewDiversity(maxRun int) *Diversity {
	if maxRun < 1 {
		maxRun = 1
	}
	return &Diversity{maxRun: maxRun}
}

// Name returns the reranker identifier.
func (d *Diversity) Name() string {
	return "diversity"
}

// MaxRun returns the configured run cap.
func (d *Diversity) MaxRun() int {
	return d.maxRun
}

// Rerank reorders items so that no more than MaxRun consecutive entries
// share a category or author, returning at most k items. A non-positive k
// keeps every item.
func (d *Diversity) Rerank(ctx context.Context, items []models.ScoredID, meta MetaLookup, k int) []models.ScoredID {
	if len(items) == 0 {
		return items
	}
	if k <= 0 || k > len(items) {
		k = len(items)
	}
	if k > maxRerankSize {
		k = maxRerankSize
	}

	metas := make([]models.ContentMeta, len(items))
	if meta != nil {
		for i := range items {
			metas[i], _ = meta(items[i].ID)
		}
	}

	remaining := make([]int, len(items))
	for i := range remaining {
		remaining[i] = i
	}

	selected := make([]models.ScoredID, 0, k)
	chosen := make([]models.ContentMeta, 0, k)

	for len(selected) < k && len(remaining) > 0 {
		if ctx.Err() != nil {
			break
		}

		pick := 0
		for pos, idx := range remaining {
			if !d.violates(chosen, metas[idx]) {
				pick = pos
				break
			}
		}

		idx := remaining[pick]
		selected = append(selected, items[idx])
		chosen = append(chosen, metas[idx])
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}

	return selected
}

// violates reports whether appending m would create a run longer than
// maxRun of the same category or the same author.
func (d *Diversity) violates(chosen []models.ContentMeta, m models.ContentMeta) bool {
	if len(chosen) < d.maxRun {
		return false
	}
	tail := chosen[len(chosen)-d.maxRun:]
	return sameAll(tail, m.Category, func(c models.ContentMeta) string { return c.Category }) ||
		sameAll(tail, m.AuthorID, func(c models.ContentMeta) string { return c.AuthorID })
}

func sameAll(tail []models.ContentMeta, value string, field func(models.ContentMeta) string) bool {
	if value == "" {
		return false
	}
	for _, c := range tail {
		if field(c) != value {
			return false
		}
	}
	return true
}
