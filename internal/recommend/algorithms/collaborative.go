// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/resonance/internal/models"
)

// SourceCollaborative labels scores produced by the collaborative model.
const SourceCollaborative = "collaborative"

// CollaborativeConfig contains configuration for collaborative filtering.
type CollaborativeConfig struct {
	// Weights maps event types to matrix contributions.
	Weights models.EventWeights

	// Neighbors is how many similar users/items are kept per row/column.
	Neighbors int

	// MinInteractions is the minimum number of events a user needs in the
	// snapshot before user-based candidates are produced.
	MinInteractions int

	// Workers bounds parallelism while computing neighbors. 0 uses GOMAXPROCS.
	Workers int
}

// CollaborativeModel is a sparse user×item matrix with precomputed cosine
// neighbors for users (rows) and items (columns).
//
// For a target user u and candidate item i:
//
//	score(u, i) = sum_{v in N(u)} sim(u, v) * w(v, i)
//
// rescaled to [0, 1] by the largest candidate score.
type CollaborativeModel struct {
	UserItems       map[string]map[string]float64
	UserEvents      map[string]int
	ItemWeight      map[string]float64
	ItemLastSeen    map[string]time.Time
	UserNeighbors   map[string][]Neighbor
	ItemNeighbors   map[string][]Neighbor
	MinInteractions int
}

// BuildCollaborative builds the model from a point-in-time copy of events.
// The result depends only on the events, never on map iteration order.
func BuildCollaborative(ctx context.Context, events []models.InteractionEvent, cfg CollaborativeConfig) (*CollaborativeModel, error) {
	m := &CollaborativeModel{
		UserItems:       make(map[string]map[string]float64),
		UserEvents:      make(map[string]int),
		ItemWeight:      make(map[string]float64),
		ItemLastSeen:    make(map[string]time.Time),
		MinInteractions: cfg.MinInteractions,
	}

	itemUsers := make(map[string]map[string]float64)
	for i := range events {
		e := &events[i]
		m.UserEvents[e.UserID]++
		if last, ok := m.ItemLastSeen[e.ContentID]; !ok || e.Timestamp.After(last) {
			m.ItemLastSeen[e.ContentID] = e.Timestamp
		}

		w := cfg.Weights.WeightOf(e)
		if w <= 0 {
			continue
		}
		row := m.UserItems[e.UserID]
		if row == nil {
			row = make(map[string]float64)
			m.UserItems[e.UserID] = row
		}
		row[e.ContentID] += w
		m.ItemWeight[e.ContentID] += w

		col := itemUsers[e.ContentID]
		if col == nil {
			col = make(map[string]float64)
			itemUsers[e.ContentID] = col
		}
		col[e.UserID] += w
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	var err error
	m.UserNeighbors, err = cosineNeighbors(ctx, m.UserItems, itemUsers, cfg.Neighbors, cfg.Workers)
	if err != nil {
		return nil, err
	}
	m.ItemNeighbors, err = cosineNeighbors(ctx, itemUsers, m.UserItems, cfg.Neighbors, cfg.Workers)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// cosineNeighbors computes the top-n cosine neighbors of every row of
// rows, using cols (the transpose) as an inverted index so only rows that
// share at least one column are compared.
func cosineNeighbors(ctx context.Context, rows, cols map[string]map[string]float64, n, workers int) (map[string][]Neighbor, error) {
	norms := make(map[string]float64, len(rows))
	for id, row := range rows {
		norms[id] = norm(row)
	}

	return parallelNeighbors(ctx, sortedKeys(rows), workers, func(id string) []Neighbor {
		row := rows[id]
		dots := make(map[string]float64)
		for _, col := range sortedKeys(row) {
			w := row[col]
			for other, ow := range cols[col] {
				if other != id {
					dots[other] += w * ow
				}
			}
		}

		neighbors := make([]Neighbor, 0, len(dots))
		for other, dot := range dots {
			den := norms[id] * norms[other]
			if den == 0 || dot <= 0 {
				continue
			}
			neighbors = append(neighbors, Neighbor{ID: other, Similarity: clamp(dot/den, -1, 1)})
		}
		return topNeighbors(neighbors, n)
	})
}

// UserSimilarity returns the cosine similarity of two users' rows.
func (m *CollaborativeModel) UserSimilarity(a, b string) float64 {
	return Cosine(m.UserItems[a], m.UserItems[b])
}

// Recommend returns candidate items for userID scored from its most similar
// users. Users with fewer than MinInteractions events in the snapshot get
// no candidates. Items in exclude are skipped before rescaling.
func (m *CollaborativeModel) Recommend(userID string, exclude map[string]struct{}) []models.ScoredID {
	if m == nil || m.UserEvents[userID] < m.MinInteractions {
		return nil
	}

	raw := make(map[string]float64)
	for _, nb := range m.UserNeighbors[userID] {
		for item, w := range m.UserItems[nb.ID] {
			if _, skip := exclude[item]; skip {
				continue
			}
			raw[item] += nb.Similarity * w
		}
	}
	if len(raw) == 0 {
		return nil
	}

	maxScore := 0.0
	for _, s := range raw {
		maxScore = math.Max(maxScore, s)
	}

	out := make([]models.ScoredID, 0, len(raw))
	for item, s := range raw {
		score := 0.0
		if maxScore > 0 {
			score = s / maxScore
		}
		out = append(out, models.ScoredID{ID: item, Score: score, Sources: []string{SourceCollaborative}})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if wa, wb := m.ItemWeight[a.ID], m.ItemWeight[b.ID]; wa != wb {
			return wa > wb
		}
		if la, lb := m.ItemLastSeen[a.ID], m.ItemLastSeen[b.ID]; !la.Equal(lb) {
			return la.After(lb)
		}
		return a.ID < b.ID
	})
	return out
}

// SimilarUsers returns up to k users most similar to userID.
func (m *CollaborativeModel) SimilarUsers(userID string, k int) []models.ScoredID {
	if m == nil {
		return nil
	}
	return neighborsToScored(m.UserNeighbors[userID], k, SourceCollaborative)
}

// SimilarItems returns up to k items most similar to itemID by co-engagement.
func (m *CollaborativeModel) SimilarItems(itemID string, k int) []models.ScoredID {
	if m == nil {
		return nil
	}
	return neighborsToScored(m.ItemNeighbors[itemID], k, SourceCollaborative)
}

// Users returns the number of users with weighted interactions.
func (m *CollaborativeModel) Users() int {
	if m == nil {
		return 0
	}
	return len(m.UserItems)
}

// Items returns the number of items with weighted interactions.
func (m *CollaborativeModel) Items() int {
	if m == nil {
		return 0
	}
	return len(m.ItemWeight)
}
