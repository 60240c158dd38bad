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

// SourceContent labels scores produced by the content model.
const SourceContent = "content"

// ContentConfig contains configuration for content-based filtering.
type ContentConfig struct {
	// Neighbors is how many similar items are kept per item.
	Neighbors int

	// MinSimilarity is the minimum raw cosine for a neighbor to be kept.
	MinSimilarity float64

	// RecencyHalfLife controls the exponential decay applied to candidate age.
	RecencyHalfLife time.Duration

	// CategoryBoost is added to the multiplier when a candidate shares the
	// history item's category.
	CategoryBoost float64

	// Workers bounds parallelism while computing neighbors. 0 uses GOMAXPROCS.
	Workers int
}

// ContentModel is a TF-IDF index over indexed content with precomputed
// content-content neighbors.
//
// IDF uses the smoothed form:
//
//	idf(t) = ln((1 + N) / (1 + df(t))) + 1
//
// so every term has a strictly positive weight and terms never seen at
// build time are treated as df = 0.
type ContentModel struct {
	IDF           map[string]float64
	DocCount      int
	Vectors       map[string]map[string]float64
	Meta          map[string]models.ContentMeta
	Neighbors     map[string][]Neighbor
	MinSimilarity float64
	CategoryBoost float64
	HalfLife      time.Duration
}

// BuildContent builds the TF-IDF model from a point-in-time copy of the
// content index.
func BuildContent(ctx context.Context, docs []*models.ContentFeatureVector, cfg ContentConfig) (*ContentModel, error) {
	m := &ContentModel{
		IDF:           make(map[string]float64),
		DocCount:      len(docs),
		Vectors:       make(map[string]map[string]float64, len(docs)),
		Meta:          make(map[string]models.ContentMeta, len(docs)),
		MinSimilarity: cfg.MinSimilarity,
		CategoryBoost: cfg.CategoryBoost,
		HalfLife:      cfg.RecencyHalfLife,
	}

	df := make(map[string]int)
	for _, doc := range docs {
		for term, tf := range doc.Terms {
			if tf > 0 {
				df[term]++
			}
		}
	}
	n := float64(len(docs))
	for term, count := range df {
		m.IDF[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	postings := make(map[string]map[string]float64)
	for _, doc := range docs {
		vec := m.Embed(doc.Terms)
		m.Vectors[doc.ContentID] = vec
		m.Meta[doc.ContentID] = doc.Meta()
		for term, w := range vec {
			p := postings[term]
			if p == nil {
				p = make(map[string]float64)
				postings[term] = p
			}
			p[doc.ContentID] = w
		}
	}

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}

	var err error
	m.Neighbors, err = parallelNeighbors(ctx, sortedKeys(m.Vectors), cfg.Workers, func(id string) []Neighbor {
		dots := make(map[string]float64)
		vec := m.Vectors[id]
		for _, term := range sortedKeys(vec) {
			w := vec[term]
			for other, ow := range postings[term] {
				if other != id {
					dots[other] += w * ow
				}
			}
		}
		neighbors := make([]Neighbor, 0, len(dots))
		for other, dot := range dots {
			// Vectors are unit length, so the dot product is the cosine.
			sim := clamp(dot, -1, 1)
			if sim >= cfg.MinSimilarity && sim > 0 {
				neighbors = append(neighbors, Neighbor{ID: other, Similarity: sim})
			}
		}
		return topNeighbors(neighbors, cfg.Neighbors)
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Embed weights term frequencies by IDF and L2-normalizes the result.
// Terms unknown to the model get the df = 0 weight.
func (m *ContentModel) Embed(tf map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	unseen := math.Log(1+float64(m.DocCount)) + 1

	out := make(map[string]float64, len(tf))
	var sum float64
	for _, term := range sortedKeys(tf) {
		f := tf[term]
		if f <= 0 {
			continue
		}
		idf, ok := m.IDF[term]
		if !ok {
			idf = unseen
		}
		w := f * idf
		out[term] = w
		sum += w * w
	}
	if sum == 0 {
		return out
	}
	n := math.Sqrt(sum)
	for term := range out {
		out[term] /= n
	}
	return out
}

// Similarity returns the cosine similarity of two indexed items.
func (m *ContentModel) Similarity(a, b string) float64 {
	if m == nil {
		return 0
	}
	return Cosine(m.Vectors[a], m.Vectors[b])
}

// MaxSimilarity returns the highest cosine between vec and any of ids.
func (m *ContentModel) MaxSimilarity(vec map[string]float64, ids []string) float64 {
	if m == nil {
		return 0
	}
	best := 0.0
	for _, id := range ids {
		if s := Cosine(vec, m.Vectors[id]); s > best {
			best = s
		}
	}
	return best
}

// Recommend scores the neighbors of every history item:
//
//	score = sim * exp(-ln2 * age / half_life) * (1 + boost if same category)
//
// clipped to [0, 1], keeping the best score per candidate.
// Candidates in exclude are skipped.
func (m *ContentModel) Recommend(history []string, now time.Time, exclude map[string]struct{}) []models.ScoredID {
	if m == nil || len(history) == 0 {
		return nil
	}

	best := make(map[string]float64)
	for _, h := range history {
		hm := m.Meta[h]
		for _, nb := range m.Neighbors[h] {
			if _, skip := exclude[nb.ID]; skip {
				continue
			}
			if nb.Similarity < m.MinSimilarity {
				continue
			}
			meta := m.Meta[nb.ID]
			score := nb.Similarity * m.decay(now.Sub(meta.CreatedAt))
			if hm.Category != "" && hm.Category == meta.Category {
				score *= 1 + m.CategoryBoost
			}
			score = clamp(score, 0, 1)
			if score > best[nb.ID] {
				best[nb.ID] = score
			}
		}
	}

	out := make([]models.ScoredID, 0, len(best))
	for id, s := range best {
		out = append(out, models.ScoredID{ID: id, Score: s, Sources: []string{SourceContent}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *ContentModel) decay(age time.Duration) float64 {
	if m.HalfLife <= 0 {
		return 1
	}
	if age < 0 {
		age = 0
	}
	return math.Exp(-math.Ln2 * age.Hours() / m.HalfLife.Hours())
}

// SimilarItems returns up to k items most similar to itemID by content.
func (m *ContentModel) SimilarItems(itemID string, k int) []models.ScoredID {
	if m == nil {
		return nil
	}
	return neighborsToScored(m.Neighbors[itemID], k, SourceContent)
}

// Items returns the number of indexed items in the model.
func (m *ContentModel) Items() int {
	if m == nil {
		return 0
	}
	return len(m.Vectors)
}
