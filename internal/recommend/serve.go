// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"context"
	"strings"
	"time"

	"github.com/tomtom215/resonance/internal/logging"
	"github.com/tomtom215/resonance/internal/metrics"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend/reranking"
)

// Recommend returns a ranked list for the request.
//
// Content requests blend the collaborative and content candidates of the
// active snapshot, drop what the user already interacted with (unless
// resurfacing is allowed), apply the diversity pass and truncate. When the
// blend is empty, or the user is unknown under the cold_start policy, the
// popularity ranking is served instead. Users requests return the most
// similar users, falling back to the most active users.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*models.Recommendations, error) {
	start := time.Now()

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return nil, models.NewValidationError("user_id", "must not be empty")
	}
	if req.Kind == "" {
		req.Kind = models.KindContent
	}
	if req.Kind != models.KindContent && req.Kind != models.KindUsers {
		return nil, models.NewValidationError("kind", "unknown recommendation kind %q", req.Kind)
	}
	if req.Limit < 1 || req.Limit > e.config.Limits.MaxLimit {
		return nil, models.NewValidationError("limit", "must be between 1 and %d, got %d", e.config.Limits.MaxLimit, req.Limit)
	}
	if req.Now.IsZero() {
		req.Now = e.now()
	}

	known := e.deps.Interactions.HasUser(req.UserID)
	if !known && e.config.UnknownUserPolicy == PolicyNotFound {
		return nil, models.NewNotFoundError("user", req.UserID)
	}

	snap := e.snapshot.Load()

	var (
		items  []models.ScoredID
		source models.RecommendationSource
	)
	switch req.Kind {
	case models.KindUsers:
		items, source = e.recommendUsers(snap, req, known)
	default:
		items, source = e.recommendContent(ctx, snap, req, known)
	}
	if items == nil {
		items = []models.ScoredID{}
	}

	resp := &models.Recommendations{
		UserID:      req.UserID,
		Kind:        req.Kind,
		Source:      source,
		Items:       items,
		GeneratedAt: req.Now,
	}
	if snap != nil {
		resp.SnapshotVersion = snap.Version
	}

	duration := time.Since(start)
	metrics.RecordRecommendation(string(req.Kind), string(source), duration)
	logging.Ctx(ctx).Debug().
		Str("user_id", req.UserID).
		Str("kind", string(req.Kind)).
		Str("source", string(source)).
		Int("returned", len(items)).
		Dur("duration", duration).
		Msg("recommendation complete")

	return resp, nil
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommendContent(ctx context.Context, snap *Snapshot, req Request, known bool) ([]models.ScoredID, models.RecommendationSource) {
	var exclude map[string]struct{}
	if !e.config.AllowResurface {
		exclude = e.deps.Interactions.InteractedContent(req.UserID)
	}

	if known && snap != nil {
		collab := snap.Collaborative.Recommend(req.UserID, exclude)
		content := snap.Content.Recommend(e.deps.Interactions.UserHistory(req.UserID), req.Now, exclude)
		blended := Blend(collab, content, e.config.Alpha)
		if items := e.diversity.Rerank(ctx, blended, e.metaLookup(snap), req.Limit); len(items) > 0 {
			return items, models.SourceHybrid
		}
	}

	return e.deps.Popularity.TopContent(req.Now, e.config.Popularity.Window, req.Limit, exclude), models.SourcePopularity
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommendUsers(snap *Snapshot, req Request, known bool) ([]models.ScoredID, models.RecommendationSource) {
	if known && snap != nil {
		if items := snap.Collaborative.SimilarUsers(req.UserID, req.Limit); len(items) > 0 {
			return items, models.SourceCollaborative
		}
	}

	self := map[string]struct{}{req.UserID: {}}
	return e.deps.Popularity.TopUsers(req.Now, e.config.Popularity.Window, req.Limit, self), models.SourcePopularity
}

// metaLookup prefers snapshot metadata and falls back to the live index for
// content indexed after the build.
func (e *Engine) metaLookup(snap *Snapshot) reranking.MetaLookup {
	return func(id string) (models.ContentMeta, bool) {
		if m, ok := snap.Content.Meta[id]; ok {
			return m, true
		}
		return e.deps.Content.Meta(id)
	}
}

// SimilarContent returns up to limit items similar to contentID:
// co-engagement neighbors from the collaborative model first, then content
// neighbors that are not already listed.
func (e *Engine) SimilarContent(_ context.Context, contentID string, limit int) ([]models.ScoredID, error) {
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return nil, models.NewValidationError("content_id", "must not be empty")
	}
	if limit < 1 || limit > e.config.Limits.MaxLimit {
		return nil, models.NewValidationError("limit", "must be between 1 and %d, got %d", e.config.Limits.MaxLimit, limit)
	}

	snap := e.snapshot.Load()
	_, indexed := e.deps.Content.Meta(contentID)
	if snap == nil {
		if !indexed {
			return nil, models.NewNotFoundError("content", contentID)
		}
		return []models.ScoredID{}, nil
	}

	_, engaged := snap.Collaborative.ItemWeight[contentID]
	_, inModel := snap.Content.Meta[contentID]
	if !indexed && !engaged && !inModel {
		return nil, models.NewNotFoundError("content", contentID)
	}

	out := snap.Collaborative.SimilarItems(contentID, limit)
	if len(out) < limit {
		seen := make(map[string]struct{}, len(out))
		for _, it := range out {
			seen[it.ID] = struct{}{}
		}
		for _, it := range snap.Content.SimilarItems(contentID, 0) {
			if len(out) >= limit {
				break
			}
			if _, dup := seen[it.ID]; dup {
				continue
			}
			out = append(out, it)
		}
	}
	if out == nil {
		out = []models.ScoredID{}
	}
	return out, nil
}
