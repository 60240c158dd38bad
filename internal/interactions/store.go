// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package interactions

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/sequence"
)

const numShards = 64

// Journal durably records events before they are made visible.
type Journal interface {
	AppendEvent(ctx context.Context, ev *models.InteractionEvent) error
}

// Replayer yields previously journaled events in sequence order.
type Replayer interface {
	ReplayEvents(ctx context.Context, fn func(models.InteractionEvent) error) error
}

// Query selects events by exactly one of UserID or ContentID, optionally
// bounded by [From, To). Zero times leave that side unbounded.
type Query struct {
	UserID    string
	ContentID string
	From      time.Time
	To        time.Time
}

func (q *Query) validate() error {
	switch {
	case q.UserID == "" && q.ContentID == "":
		return models.NewValidationError("query", "one of user_id or content_id is required")
	case q.UserID != "" && q.ContentID != "":
		return models.NewValidationError("query", "user_id and content_id are mutually exclusive")
	case !q.From.IsZero() && !q.To.IsZero() && !q.To.After(q.From):
		return models.NewValidationError("to", "must be after from")
	}
	return nil
}

func (q *Query) contains(t time.Time) bool {
	if !q.From.IsZero() && t.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !t.Before(q.To) {
		return false
	}
	return true
}

type userLog struct {
	mu     sync.Mutex
	events []models.InteractionEvent
}

type shard struct {
	mu    sync.RWMutex
	users map[string]*userLog
}

type contentLog struct {
	mu     sync.Mutex
	events []models.InteractionEvent
}

// Store is the in-memory interaction store.
type Store struct {
	shards  [numShards]shard
	seq     *sequence.Tracker
	total   atomic.Int64
	journal Journal
	logger  zerolog.Logger

	contentMu sync.RWMutex
	content   map[string]*contentLog
}

// NewStore creates an empty store. journal may be nil for a purely
// in-memory store.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStore(journal Journal, logger zerolog.Logger) *Store {
	s := &Store{
		seq:     sequence.NewTracker(),
		journal: journal,
		logger:  logger,
		content: make(map[string]*contentLog),
	}
	for i := range s.shards {
		s.shards[i].users = make(map[string]*userLog)
	}
	return s
}

func (s *Store) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &s.shards[h.Sum32()%numShards]
}

func (s *Store) userLog(userID string, create bool) *userLog {
	sh := s.shardFor(userID)

	sh.mu.RLock()
	ul, ok := sh.users[userID]
	sh.mu.RUnlock()
	if ok || !create {
		return ul
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if ul, ok = sh.users[userID]; !ok {
		ul = &userLog{}
		sh.users[userID] = ul
	}
	return ul
}

func (s *Store) contentLog(contentID string) *contentLog {
	s.contentMu.RLock()
	cl, ok := s.content[contentID]
	s.contentMu.RUnlock()
	if ok {
		return cl
	}

	s.contentMu.Lock()
	defer s.contentMu.Unlock()
	if cl, ok = s.content[contentID]; !ok {
		cl = &contentLog{}
		s.content[contentID] = cl
	}
	return cl
}

func validateEvent(e *models.InteractionEvent) error {
	switch {
	case e.UserID == "":
		return models.NewValidationError("user_id", "is required")
	case e.ContentID == "":
		return models.NewValidationError("content_id", "is required")
	case !e.Type.Valid():
		return models.NewValidationError("event_type", "unknown event type %q", e.Type)
	case e.Timestamp.IsZero():
		return models.NewValidationError("timestamp", "is required")
	case e.Weight != nil && *e.Weight < 0:
		return models.NewValidationError("weight", "must not be negative")
	}
	return nil
}

// Record validates, sequences, journals and stores e, returning its
// sequence number. The event stays pending in Progress until Settle. Writes for the same user are serialized; writes for
// different users proceed in parallel.
func (s *Store) Record(ctx context.Context, e models.InteractionEvent) (uint64, error) {
	if err := validateEvent(&e); err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	e.Timestamp = e.Timestamp.UTC()

	ul := s.userLog(e.UserID, true)
	ul.mu.Lock()
	e.Sequence = s.seq.Next()
	if s.journal != nil {
		if err := s.journal.AppendEvent(ctx, &e); err != nil {
			ul.mu.Unlock()
			s.seq.Settle(e.Sequence)
			return 0, fmt.Errorf("journal event %d: %w", e.Sequence, err)
		}
	}
	ul.events = append(ul.events, e)
	ul.mu.Unlock()

	s.addToContent(e)
	s.total.Add(1)
	return e.Sequence, nil
}

// addToContent inserts e keeping the content log ordered by sequence.
// Writers for different users may reach this point out of sequence order.
func (s *Store) addToContent(e models.InteractionEvent) {
	cl := s.contentLog(e.ContentID)
	cl.mu.Lock()
	defer cl.mu.Unlock()

	i := len(cl.events)
	for i > 0 && cl.events[i-1].Sequence > e.Sequence {
		i--
	}
	cl.events = append(cl.events, models.InteractionEvent{})
	copy(cl.events[i+1:], cl.events[i:])
	cl.events[i] = e
}

// Replay loads journaled events into an empty store without re-journaling
// them. The sequence counter resumes after the highest replayed sequence.
func (s *Store) Replay(ctx context.Context, r Replayer) (int, error) {
	if s.Len() != 0 {
		return 0, fmt.Errorf("replay into non-empty store")
	}

	n := 0
	err := r.ReplayEvents(ctx, func(e models.InteractionEvent) error {
		if err := validateEvent(&e); err != nil {
			s.logger.Warn().Err(err).Uint64("sequence", e.Sequence).Msg("Skipping invalid journaled event")
			return nil
		}
		ul := s.userLog(e.UserID, true)
		ul.mu.Lock()
		ul.events = append(ul.events, e)
		ul.mu.Unlock()
		s.addToContent(e)
		s.seq.Advance(e.Sequence)
		s.total.Add(1)
		n++
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("replay journal: %w", err)
	}

	s.logger.Info().Int("events", n).Uint64("last_sequence", s.seq.Last()).Msg("Interaction journal replayed")
	return n, nil
}

// Query returns the events matching q ordered by sequence.
func (s *Store) Query(ctx context.Context, q Query) ([]models.InteractionEvent, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var src []models.InteractionEvent
	if q.UserID != "" {
		ul := s.userLog(q.UserID, false)
		if ul == nil {
			return []models.InteractionEvent{}, nil
		}
		ul.mu.Lock()
		src = ul.events[:len(ul.events):len(ul.events)]
		ul.mu.Unlock()
	} else {
		s.contentMu.RLock()
		cl := s.content[q.ContentID]
		s.contentMu.RUnlock()
		if cl == nil {
			return []models.InteractionEvent{}, nil
		}
		cl.mu.Lock()
		src = make([]models.InteractionEvent, len(cl.events))
		copy(src, cl.events)
		cl.mu.Unlock()
	}

	out := make([]models.InteractionEvent, 0, len(src))
	for i := range src {
		if q.contains(src[i].Timestamp) {
			out = append(out, src[i])
		}
	}
	return out, nil
}

// Snapshot returns a point-in-time copy of every stored event ordered by
// sequence. Events recorded while the copy is taken may or may not be
// included.
func (s *Store) Snapshot() []models.InteractionEvent {
	out := make([]models.InteractionEvent, 0, s.Len())
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.RLock()
		logs := make([]*userLog, 0, len(sh.users))
		for _, ul := range sh.users {
			logs = append(logs, ul)
		}
		sh.mu.RUnlock()

		for _, ul := range logs {
			ul.mu.Lock()
			out = append(out, ul.events...)
			ul.mu.Unlock()
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out
}

// HasUser reports whether any event was recorded for userID.
func (s *Store) HasUser(userID string) bool {
	return s.UserEventCount(userID) > 0
}

// UserEventCount returns how many events userID has recorded.
func (s *Store) UserEventCount(userID string) int {
	ul := s.userLog(userID, false)
	if ul == nil {
		return 0
	}
	ul.mu.Lock()
	defer ul.mu.Unlock()
	return len(ul.events)
}

// InteractedContent returns the set of content ids userID has interacted with.
func (s *Store) InteractedContent(userID string) map[string]struct{} {
	out := make(map[string]struct{})
	ul := s.userLog(userID, false)
	if ul == nil {
		return out
	}
	ul.mu.Lock()
	defer ul.mu.Unlock()
	for i := range ul.events {
		out[ul.events[i].ContentID] = struct{}{}
	}
	return out
}

// UserHistory returns the distinct content ids userID viewed, liked,
// commented on or shared, most recent first. Follows are not content
// engagement and are left out.
func (s *Store) UserHistory(userID string) []string {
	ul := s.userLog(userID, false)
	if ul == nil {
		return nil
	}
	ul.mu.Lock()
	defer ul.mu.Unlock()

	seen := make(map[string]struct{}, len(ul.events))
	out := make([]string, 0, len(ul.events))
	for i := len(ul.events) - 1; i >= 0; i-- {
		e := &ul.events[i]
		if e.Type == models.EventFollow {
			continue
		}
		if _, ok := seen[e.ContentID]; ok {
			continue
		}
		seen[e.ContentID] = struct{}{}
		out = append(out, e.ContentID)
	}
	return out
}

// UserCount returns the number of distinct users.
func (s *Store) UserCount() int {
	n := 0
	for i := range s.shards {
		s.shards[i].mu.RLock()
		n += len(s.shards[i].users)
		s.shards[i].mu.RUnlock()
	}
	return n
}

// Len returns the number of stored events.
func (s *Store) Len() int {
	return int(s.total.Load())
}

// LastSequence returns the highest sequence number handed out so far.
func (s *Store) LastSequence() uint64 {
	return s.seq.Last()
}

// Settle records that the event with sequence seq has been folded into the
// counters. Recorded events stay pending until settled.
func (s *Store) Settle(seq uint64) {
	s.seq.Settle(seq)
}

// Progress returns which recorded events have been settled.
func (s *Store) Progress() sequence.Mark {
	return s.seq.Mark()
}
