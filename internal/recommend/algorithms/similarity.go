// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"context"
	"math"
	"runtime"
	"sort"
	"sync"

	"github.com/tomtom215/resonance/internal/models"
)

// Neighbor is a similar user or item with its cosine similarity.
type Neighbor struct {
	ID         string
	Similarity float64
}

// Cosine returns the cosine similarity of two sparse vectors.
func Cosine(a, b map[string]float64) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for _, k := range sortedKeys(a) {
		dot += a[k] * b[k]
	}
	if dot == 0 {
		return 0
	}
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp(dot/(na*nb), -1, 1)
}

// norm sums in key order so repeated builds agree bit for bit.
func norm(v map[string]float64) float64 {
	var sum float64
	for _, k := range sortedKeys(v) {
		sum += v[k] * v[k]
	}
	return math.Sqrt(sum)
}

func clamp(x, lo, hi float64) float64 {
	switch {
	case x < lo:
		return lo
	case x > hi:
		return hi
	default:
		return x
	}
}

// ContextCancelled checks if the context has been cancelled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// topNeighbors orders neighbors by similarity (descending, then id) and
// keeps at most n.
func topNeighbors(neighbors []Neighbor, n int) []Neighbor {
	sort.Slice(neighbors, func(i, j int) bool {
		if neighbors[i].Similarity != neighbors[j].Similarity {
			return neighbors[i].Similarity > neighbors[j].Similarity
		}
		return neighbors[i].ID < neighbors[j].ID
	})
	if n > 0 && len(neighbors) > n {
		neighbors = neighbors[:n:n]
	}
	return neighbors
}

// neighborsToScored converts up to k neighbors into ranked entries.
func neighborsToScored(neighbors []Neighbor, k int, source string) []models.ScoredID {
	if k <= 0 || k > len(neighbors) {
		k = len(neighbors)
	}
	out := make([]models.ScoredID, 0, k)
	for _, nb := range neighbors[:k] {
		out = append(out, models.ScoredID{ID: nb.ID, Score: clamp(nb.Similarity, 0, 1), Sources: []string{source}})
	}
	return out
}

// parallelNeighbors computes fn for every id using a fixed pool of workers.
// Results are written by index, so the output does not depend on scheduling.
func parallelNeighbors(ctx context.Context, ids []string, workers int, fn func(id string) []Neighbor) (map[string][]Neighbor, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([][]Neighbor, len(ids))
	chunk := (len(ids) + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > len(ids) {
			end = len(ids)
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				if ContextCancelled(ctx) {
					return
				}
				results[i] = fn(ids[i])
			}
		}(start, end)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string][]Neighbor, len(ids))
	for i, id := range ids {
		if len(results[i]) > 0 {
			out[id] = results[i]
		}
	}
	return out, nil
}
