// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend/algorithms"
)

// Build trains a new snapshot from point-in-time copies of the interaction
// log and the content index. It is a pure function of its inputs: the same
// events, documents, prevVersion and builtAt always produce the same
// snapshot.
//
// The version is the build time in Unix milliseconds, bumped past
// prevVersion when the clock has not advanced.
func Build(ctx context.Context, cfg *Config, events []models.InteractionEvent, docs []*models.ContentFeatureVector, prevVersion int64, builtAt time.Time) (*Snapshot, error) {
	collab, err := algorithms.BuildCollaborative(ctx, events, cfg.collaborative())
	if err != nil {
		return nil, fmt.Errorf("build collaborative model: %w", err)
	}

	content, err := algorithms.BuildContent(ctx, docs, cfg.content())
	if err != nil {
		return nil, fmt.Errorf("build content model: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	version := builtAt.UnixMilli()
	if version <= prevVersion {
		version = prevVersion + 1
	}

	return &Snapshot{
		Version:       version,
		BuiltAt:       builtAt,
		Collaborative: collab,
		Content:       content,
		Engagement:    engagementStats(cfg, events, docs),
		EventCount:    len(events),
		ContentCount:  len(docs),
	}, nil
}

// engagementStats counts events per indexed content item and ranks items
// by weighted engagement to find the high performers.
func engagementStats(cfg *Config, events []models.InteractionEvent, docs []*models.ContentFeatureVector) EngagementStats {
	indexed := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		indexed[d.ContentID] = struct{}{}
	}

	per := make(map[string]ContentEngagement)
	for i := range events {
		e := &events[i]
		if _, ok := indexed[e.ContentID]; !ok {
			continue
		}
		ce := per[e.ContentID]
		switch e.Type {
		case models.EventView:
			ce.Views++
		case models.EventLike:
			ce.Likes++
		case models.EventComment:
			ce.Comments++
		case models.EventShare:
			ce.Shares++
		default:
			continue
		}
		per[e.ContentID] = ce
	}

	stats := EngagementStats{PerContent: per, ScoredItems: len(per)}
	if len(per) == 0 {
		return stats
	}

	w := cfg.Weights
	score := func(ce ContentEngagement) float64 {
		return w.View*float64(ce.Views) + w.Like*float64(ce.Likes) +
			w.Comment*float64(ce.Comments) + w.Share*float64(ce.Shares)
	}

	ids := make([]string, 0, len(per))
	var likes, comments, shares int
	for id, ce := range per {
		ids = append(ids, id)
		likes += ce.Likes
		comments += ce.Comments
		shares += ce.Shares
	}
	sort.Slice(ids, func(i, j int) bool {
		si, sj := score(per[ids[i]]), score(per[ids[j]])
		if si != sj {
			return si > sj
		}
		return ids[i] < ids[j]
	})

	top := int(math.Ceil(cfg.Training.HighPerformerFraction * float64(len(ids))))
	if top < 1 {
		top = 1
	}
	if top > len(ids) {
		top = len(ids)
	}
	stats.HighPerformers = ids[:top:top]

	var topLikes int
	for _, id := range stats.HighPerformers {
		topLikes += per[id].Likes
	}

	stats.AvgLikes = float64(likes) / float64(len(ids))
	stats.TopAvgLikes = float64(topLikes) / float64(top)
	if likes > 0 {
		stats.CommentRatio = float64(comments) / float64(likes)
		stats.ShareRatio = float64(shares) / float64(likes)
	}
	return stats
}
