// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"sort"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend/algorithms"
)

type blendEntry struct {
	collab, content       float64
	hasCollab, hasContent bool
}

// Blend merges collaborative and content candidates:
//
//	score = alpha * collab + (1 - alpha) * content
//
// for items present in both sources. Items from a single source keep that
// source's score unscaled. Duplicates within a source keep the max. The
// result is ordered by score (descending), then id.
func Blend(collab, content []models.ScoredID, alpha float64) []models.ScoredID {
	entries := make(map[string]*blendEntry, len(collab)+len(content))
	get := func(id string) *blendEntry {
		be, ok := entries[id]
		if !ok {
			be = &blendEntry{}
			entries[id] = be
		}
		return be
	}

	for _, it := range collab {
		be := get(it.ID)
		if !be.hasCollab || it.Score > be.collab {
			be.collab = it.Score
		}
		be.hasCollab = true
	}
	for _, it := range content {
		be := get(it.ID)
		if !be.hasContent || it.Score > be.content {
			be.content = it.Score
		}
		be.hasContent = true
	}

	out := make([]models.ScoredID, 0, len(entries))
	for id, be := range entries {
		item := models.ScoredID{ID: id}
		switch {
		case be.hasCollab && be.hasContent:
			item.Score = alpha*be.collab + (1-alpha)*be.content
			item.Sources = []string{algorithms.SourceCollaborative, algorithms.SourceContent}
		case be.hasCollab:
			item.Score = be.collab
			item.Sources = []string{algorithms.SourceCollaborative}
		default:
			item.Score = be.content
			item.Sources = []string{algorithms.SourceContent}
		}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}
