// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"time"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/window"
)

// Counter names used when persisting popularity state.
const (
	CounterContent = "popularity.content"
	CounterUsers   = "popularity.users"
)

// Popularity ranks content (and users) by interaction count over a
// trailing window. It is the fallback when personalized sources are empty
// and the cold-start source for unknown users.
//
// Unlike the snapshot models it is updated live on every event:
//
//	score(item) = count(item, window) / max_j count(j, window)
type Popularity struct {
	content *window.BucketCounter
	users   *window.BucketCounter
}

// NewPopularity creates popularity counters with the given bucket width and
// retention.
func NewPopularity(bucket, retention time.Duration) *Popularity {
	return &Popularity{
		content: window.NewBucketCounter(bucket, retention),
		users:   window.NewBucketCounter(bucket, retention),
	}
}

// Observe counts one interaction event.
func (p *Popularity) Observe(e *models.InteractionEvent) {
	p.content.Add(e.ContentID, e.Timestamp, 1)
	p.users.Add(e.UserID, e.Timestamp, 1)
}

// TopContent returns up to k content ids with the most interactions in the
// window ending at now, skipping ids in exclude.
func (p *Popularity) TopContent(now time.Time, w time.Duration, k int, exclude map[string]struct{}) []models.ScoredID {
	return top(p.content, now, w, k, exclude)
}

// TopUsers returns up to k of the most active users in the window ending
// at now, skipping ids in exclude.
func (p *Popularity) TopUsers(now time.Time, w time.Duration, k int, exclude map[string]struct{}) []models.ScoredID {
	return top(p.users, now, w, k, exclude)
}

// Counters returns the underlying counters keyed by persistence name.
func (p *Popularity) Counters() map[string]*window.BucketCounter {
	return map[string]*window.BucketCounter{
		CounterContent: p.content,
		CounterUsers:   p.users,
	}
}

// Prune drops buckets older than the retention horizon.
func (p *Popularity) Prune(now time.Time) int {
	return p.content.Prune(now) + p.users.Prune(now)
}

func top(c *window.BucketCounter, now time.Time, w time.Duration, k int, exclude map[string]struct{}) []models.ScoredID {
	ranked := c.Top(now, w, 0)
	if len(ranked) == 0 {
		return nil
	}
	maxCount := float64(ranked[0].A)

	out := make([]models.ScoredID, 0, k)
	for _, kc := range ranked {
		if _, skip := exclude[kc.Key]; skip {
			continue
		}
		out = append(out, models.ScoredID{
			ID:      kc.Key,
			Score:   float64(kc.A) / maxCount,
			Sources: []string{string(models.SourcePopularity)},
		})
		if k > 0 && len(out) >= k {
			break
		}
	}
	return out
}
