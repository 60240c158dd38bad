// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package sequence hands out sequence numbers and tracks which of them are
// still waiting to be folded into derived state such as the counters.
//
// A Mark taken before a snapshot is exported says exactly which sequences
// the snapshot covers: every sequence up to Mark.Last except those still
// pending. Sequences settled between the mark and the export may be
// counted twice after a restore, but none is lost.
package sequence

import (
	"slices"
	"sync"
)

// Mark is the progress recorded alongside a snapshot.
type Mark struct {
	// Last is the highest sequence handed out when the mark was taken.
	Last uint64 `json:"last"`

	// Pending lists sequences at or below Last that were not yet settled,
	// in ascending order.
	Pending []uint64 `json:"pending,omitempty"`
}

// Covers reports whether seq was settled when the mark was taken.
func (m Mark) Covers(seq uint64) bool {
	if seq > m.Last {
		return false
	}
	_, found := slices.BinarySearch(m.Pending, seq)
	return !found
}

// Merge returns the mark covering only what both m and o cover.
func (m Mark) Merge(o Mark) Mark {
	out := Mark{Last: min(m.Last, o.Last)}
	for _, seq := range append(slices.Clone(m.Pending), o.Pending...) {
		if seq <= out.Last {
			out.Pending = append(out.Pending, seq)
		}
	}
	slices.Sort(out.Pending)
	out.Pending = slices.Compact(out.Pending)
	return out
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	last    uint64
	pending map[uint64]struct{}
}

// NewTracker creates a tracker whose first sequence is 1.
func NewTracker() *Tracker {
	return &Tracker{pending: make(map[uint64]struct{})}
}

// Next hands out the next sequence and marks it pending.
func (t *Tracker) Next() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last++
	t.pending[t.last] = struct{}{}
	return t.last
}

// Settle marks seq as folded in, or as abandoned when the write that
// received it failed. Settling twice is a no-op.
func (t *Tracker) Settle(seq uint64) {
	t.mu.Lock()
	delete(t.pending, seq)
	t.mu.Unlock()
}

// Advance raises the last sequence to at least seq without marking
// anything pending. Replay uses it to resume numbering.
func (t *Tracker) Advance(seq uint64) {
	t.mu.Lock()
	if seq > t.last {
		t.last = seq
	}
	t.mu.Unlock()
}

// Last returns the highest sequence handed out so far.
func (t *Tracker) Last() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Mark captures the current progress.
func (t *Tracker) Mark() Mark {
	t.mu.Lock()
	defer t.mu.Unlock()
	m := Mark{Last: t.last}
	if len(t.pending) > 0 {
		m.Pending = make([]uint64, 0, len(t.pending))
		for seq := range t.pending {
			m.Pending = append(m.Pending, seq)
		}
		slices.Sort(m.Pending)
	}
	return m
}
