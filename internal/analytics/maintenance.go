// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/resonance/internal/content"
	"github.com/tomtom215/resonance/internal/interactions"
	"github.com/tomtom215/resonance/internal/persist"
	"github.com/tomtom215/resonance/internal/window"
)

// RestoreSource is the durable state Restore reads from.
type RestoreSource interface {
	interactions.Replayer
	content.Loader
}

// RestoreResult reports what Restore loaded. Recounted and
// RecountedContent are the journaled interactions and publications the
// counter snapshots did not yet include.
type RestoreResult struct {
	Content          int    `json:"content"`
	Events           int    `json:"events"`
	Checkpoint       uint64 `json:"checkpoint"`
	Recounted        int    `json:"recounted"`
	RecountedContent int    `json:"recounted_content"`
}

// counters returns every persisted counter keyed by name.
func (s *Service) counters() map[string]*window.BucketCounter {
	out := s.deps.Popularity.Counters()
	for name, c := range s.deps.Trends.Counters() {
		out[name] = c
	}
	return out
}

func sortedNames(m map[string]*window.BucketCounter) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Restore rebuilds in-memory state after a restart: the content index, the
// interaction store and the counters. Counter snapshots are imported, then
// every journaled interaction and publication their checkpoint does not
// cover is counted again, so nothing journaled is lost. It must run before
// the service accepts writes.
func (s *Service) Restore(ctx context.Context, src RestoreSource) (RestoreResult, error) {
	var res RestoreResult

	n, err := s.deps.Content.Load(ctx, src)
	if err != nil {
		return res, err
	}
	res.Content = n

	n, err = s.deps.Interactions.Replay(ctx, src)
	if err != nil {
		return res, err
	}
	res.Events = n

	cp, err := s.loadCounters(ctx)
	if err != nil {
		return res, err
	}
	res.Checkpoint = cp.Interactions.Last

	for _, e := range s.deps.Interactions.Snapshot() {
		if cp.Interactions.Covers(e.Sequence) {
			continue
		}
		ev := e
		s.deps.Popularity.Observe(&ev)
		s.deps.Trends.ObserveInteraction(&ev)
		res.Recounted++
	}
	for _, v := range s.deps.Content.Snapshot() {
		if cp.Content.Covers(v.Sequence) {
			continue
		}
		s.deps.Trends.ObserveContent(v)
		res.RecountedContent++
	}

	s.Prune(s.now())

	s.logger.Info().
		Int("content", res.Content).
		Int("events", res.Events).
		Uint64("checkpoint", res.Checkpoint).
		Int("recounted", res.Recounted).
		Int("recounted_content", res.RecountedContent).
		Msg("State restored")
	return res, nil
}

// loadCounters imports every saved counter and returns the checkpoint
// covered by all of them. Without a counter store the checkpoint is empty
// and everything is counted again.
func (s *Service) loadCounters(ctx context.Context) (persist.Checkpoint, error) {
	if s.deps.Counters == nil {
		return persist.Checkpoint{}, nil
	}

	var merged persist.Checkpoint
	counters := s.counters()
	for i, name := range sortedNames(counters) {
		snap, cp, err := s.deps.Counters.LoadCounters(ctx, name)
		if err != nil {
			return persist.Checkpoint{}, err
		}
		counters[name].Import(snap)
		if i == 0 {
			merged = cp
			continue
		}
		merged.Interactions = merged.Interactions.Merge(cp.Interactions)
		merged.Content = merged.Content.Merge(cp.Content)
	}
	return merged, nil
}

// FlushCounters saves every counter with a checkpoint of the settled
// interactions and publications. The checkpoint is taken before the
// counters are exported, so whatever it covers is in the export. Work
// settled during the flush may be counted twice after a restore.
func (s *Service) FlushCounters(ctx context.Context) error {
	if s.deps.Counters == nil {
		return nil
	}

	cp := persist.Checkpoint{
		SavedAt:      s.now(),
		Interactions: s.deps.Interactions.Progress(),
		Content:      s.deps.Content.Progress(),
	}

	counters := s.counters()
	var errs []error
	for _, name := range sortedNames(counters) {
		if err := s.deps.Counters.SaveCounters(ctx, name, counters[name].Export(), cp); err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", name, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	s.logger.Debug().
		Uint64("checkpoint", cp.Interactions.Last).
		Int("pending", len(cp.Interactions.Pending)).
		Int("counters", len(counters)).
		Msg("Counters flushed")
	return nil
}

// Prune drops counter buckets past retention and returns how many buckets
// were removed.
func (s *Service) Prune(now time.Time) int {
	return s.deps.Popularity.Prune(now) + s.deps.Trends.Prune(now)
}
