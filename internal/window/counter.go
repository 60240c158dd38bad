// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package window implements keyed, time-bucketed counters.
//
// Unlike a ring-buffer sliding window that advances with the wall clock,
// BucketCounter places every increment into an absolute bucket derived from
// the event timestamp. Late or back-dated events therefore land in the bucket
// they belong to, and any two adjacent windows can be summed after the fact.
//
// Complexity:
//   - Add: O(1)
//   - Windows / Top: O(keys × buckets in range)
//   - Memory: O(keys × retained buckets)
package window

import (
	"sort"
	"sync"
	"time"
)

// Snapshot is a copy of raw bucket counts: key -> bucket index -> count.
type Snapshot map[string]map[int64]int64

// KeyCounts holds the totals of one key over the current window (A) and the
// prior window of equal length (B).
type KeyCounts struct {
	Key string
	A   int64
	B   int64
}

// BucketCounter counts occurrences per key in fixed-size time buckets.
// It is safe for concurrent use; reads never see a half-applied increment
// but may miss increments that race with them.
type BucketCounter struct {
	mu         sync.RWMutex
	counts     Snapshot
	bucketSize time.Duration
	retention  time.Duration
}

// NewBucketCounter creates a counter with the given bucket width. Buckets
// older than retention (relative to the time passed to Prune) are dropped.
//
// Example: NewBucketCounter(time.Hour, 14*24*time.Hour) keeps two weeks of
// hourly buckets.
func NewBucketCounter(bucketSize, retention time.Duration) *BucketCounter {
	if bucketSize <= 0 {
		bucketSize = time.Hour
	}
	if retention < bucketSize {
		retention = bucketSize
	}
	return &BucketCounter{
		counts:     make(Snapshot),
		bucketSize: bucketSize,
		retention:  retention,
	}
}

// bucketOf returns the absolute bucket index containing t.
func (c *BucketCounter) bucketOf(t time.Time) int64 {
	ns := t.UnixNano()
	size := int64(c.bucketSize)
	idx := ns / size
	if ns < 0 && ns%size != 0 {
		idx--
	}
	return idx
}

// bucketsIn returns how many buckets span d, at least one.
func (c *BucketCounter) bucketsIn(d time.Duration) int64 {
	n := int64(d / c.bucketSize)
	if n < 1 {
		n = 1
	}
	return n
}

// Add adds delta to key's bucket for time at.
func (c *BucketCounter) Add(key string, at time.Time, delta int64) {
	if key == "" || delta == 0 {
		return
	}
	b := c.bucketOf(at)

	c.mu.Lock()
	defer c.mu.Unlock()

	buckets, ok := c.counts[key]
	if !ok {
		buckets = make(map[int64]int64)
		c.counts[key] = buckets
	}
	buckets[b] += delta
}

// Windows returns, for every key with activity in either window, the count
// over window A (the span of length w ending at now, inclusive of now's bucket)
// and window B (the span of length w immediately before A).
func (c *BucketCounter) Windows(now time.Time, w time.Duration) []KeyCounts {
	cur := c.bucketOf(now)
	n := c.bucketsIn(w)
	aFrom, bFrom := cur-n+1, cur-2*n+1

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]KeyCounts, 0, len(c.counts))
	for key, buckets := range c.counts {
		kc := KeyCounts{Key: key}
		for b, v := range buckets {
			switch {
			case b >= aFrom && b <= cur:
				kc.A += v
			case b >= bFrom && b < aFrom:
				kc.B += v
			}
		}
		if kc.A != 0 || kc.B != 0 {
			out = append(out, kc)
		}
	}
	return out
}

// Top returns the k keys with the highest count over the window of length w
// ending at now. Ties are broken by key. A non-positive k returns all keys.
func (c *BucketCounter) Top(now time.Time, w time.Duration, k int) []KeyCounts {
	windows := c.Windows(now, w)
	top := windows[:0]
	for _, kc := range windows {
		if kc.A > 0 {
			top = append(top, kc)
		}
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].A != top[j].A {
			return top[i].A > top[j].A
		}
		return top[i].Key < top[j].Key
	})
	if k > 0 && len(top) > k {
		top = top[:k]
	}
	return top
}

// Count returns key's total over the window of length w ending at now.
func (c *BucketCounter) Count(key string, now time.Time, w time.Duration) int64 {
	cur := c.bucketOf(now)
	from := cur - c.bucketsIn(w) + 1

	c.mu.RLock()
	defer c.mu.RUnlock()

	var total int64
	for b, v := range c.counts[key] {
		if b >= from && b <= cur {
			total += v
		}
	}
	return total
}

// Prune drops buckets older than the retention horizon relative to now and
// returns the number of buckets removed.
func (c *BucketCounter) Prune(now time.Time) int {
	horizon := c.bucketOf(now) - c.bucketsIn(c.retention) + 1

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, buckets := range c.counts {
		for b := range buckets {
			if b < horizon {
				delete(buckets, b)
				removed++
			}
		}
		if len(buckets) == 0 {
			delete(c.counts, key)
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (c *BucketCounter) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.counts)
}

// Export returns a deep copy of the raw bucket counts.
func (c *BucketCounter) Export() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(Snapshot, len(c.counts))
	for key, buckets := range c.counts {
		cp := make(map[int64]int64, len(buckets))
		for b, v := range buckets {
			cp[b] = v
		}
		out[key] = cp
	}
	return out
}

// Import replaces the counts of every key present in snap.
// Keys absent from snap are left untouched.
func (c *BucketCounter) Import(snap Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, buckets := range snap {
		cp := make(map[int64]int64, len(buckets))
		for b, v := range buckets {
			cp[b] = v
		}
		c.counts[key] = cp
	}
}
