// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package persist

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/resonance/internal/metrics"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/sequence"
	"github.com/tomtom215/resonance/internal/window"
)

var (
	// ErrClosed is returned when the store is used after Close.
	ErrClosed = errors.New("persist store closed")

	// ErrUnavailable is returned while the write circuit breaker is open.
	ErrUnavailable = errors.New("persist store unavailable")
)

// Key prefixes for the record families kept in one BadgerDB instance.
const (
	prefixEvent   = "evt:"
	prefixContent = "doc:"
	prefixCounter = "ctr:"
)

// Checkpoint records which interactions and content publications a counter
// snapshot already includes.
type Checkpoint struct {
	SavedAt      time.Time     `json:"saved_at"`
	Interactions sequence.Mark `json:"interactions"`
	Content      sequence.Mark `json:"content"`
}

// counterRecord is the stored form of a counter snapshot.
type counterRecord struct {
	Checkpoint
	Counts window.Snapshot `json:"counts"`
}

// Store is a BadgerDB-backed store for journal, content and counter records.
type Store struct {
	db      *badger.DB
	config  Config
	breaker *gobreaker.CircuitBreaker[any]
	logger  zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the store described by cfg.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Open(cfg Config, logger zerolog.Logger) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid persist config: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	s := &Store{
		db:     db,
		config: cfg,
		logger: logger.With().Str("component", "persist").Logger(),
	}
	s.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:    "persist-writes",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("persist circuit breaker state changed")
			metrics.PersistBreakerState.Set(float64(to))
		},
	})

	s.logger.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("persist store opened")
	return s, nil
}

// checkOpen returns ErrClosed if the store was closed.
func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// write runs fn in an update transaction behind the circuit breaker.
func (s *Store) write(op string, fn func(txn *badger.Txn) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	start := time.Now()
	_, err := s.breaker.Execute(func() (any, error) {
		return nil, s.db.Update(fn)
	})
	metrics.RecordPersistWrite(op, time.Since(start), err)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", op, ErrUnavailable)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// eventKey encodes the sequence big-endian so key order equals sequence order.
func eventKey(seq uint64) []byte {
	key := make([]byte, len(prefixEvent)+8)
	copy(key, prefixEvent)
	binary.BigEndian.PutUint64(key[len(prefixEvent):], seq)
	return key
}

// AppendEvent durably records an interaction event keyed by its sequence.
func (s *Store) AppendEvent(_ context.Context, ev *models.InteractionEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	return s.write("append_event", func(txn *badger.Txn) error {
		return txn.Set(eventKey(ev.Sequence), data)
	})
}

// ReplayEvents calls fn for every journaled event in sequence order.
func (s *Store) ReplayEvents(ctx context.Context, fn func(models.InteractionEvent) error) error {
	return s.iterate(ctx, prefixEvent, func(val []byte) error {
		var ev models.InteractionEvent
		if err := json.Unmarshal(val, &ev); err != nil {
			return fmt.Errorf("unmarshal event: %w", err)
		}
		return fn(ev)
	})
}

// PutContent stores (or supersedes) an indexed content vector.
func (s *Store) PutContent(_ context.Context, v *models.ContentFeatureVector) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal content: %w", err)
	}
	return s.write("put_content", func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixContent+v.ContentID), data)
	})
}

// LoadContent calls fn for every stored content vector in content-id order.
func (s *Store) LoadContent(ctx context.Context, fn func(models.ContentFeatureVector) error) error {
	return s.iterate(ctx, prefixContent, func(val []byte) error {
		var v models.ContentFeatureVector
		if err := json.Unmarshal(val, &v); err != nil {
			return fmt.Errorf("unmarshal content: %w", err)
		}
		return fn(v)
	})
}

// SaveCounters replaces the stored snapshot of the named counter.
func (s *Store) SaveCounters(_ context.Context, name string, snap window.Snapshot, cp Checkpoint) error {
	cp.SavedAt = cp.SavedAt.UTC()
	data, err := json.Marshal(counterRecord{Checkpoint: cp, Counts: snap})
	if err != nil {
		return fmt.Errorf("marshal counters: %w", err)
	}
	return s.write("save_counters", func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixCounter+name), data)
	})
}

// LoadCounters returns the stored snapshot of the named counter and its
// checkpoint. A counter that was never saved yields an empty snapshot and a
// zero checkpoint.
func (s *Store) LoadCounters(_ context.Context, name string) (window.Snapshot, Checkpoint, error) {
	if err := s.checkOpen(); err != nil {
		return nil, Checkpoint{}, err
	}

	var rec counterRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixCounter + name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return window.Snapshot{}, Checkpoint{}, nil
	}
	if err != nil {
		return nil, Checkpoint{}, fmt.Errorf("load counters %s: %w", name, err)
	}
	if rec.Counts == nil {
		rec.Counts = window.Snapshot{}
	}
	return rec.Counts, rec.Checkpoint, nil
}

// iterate walks all values under prefix in key order.
func (s *Store) iterate(ctx context.Context, prefix string, fn func(val []byte) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := it.Item().Value(fn); err != nil {
				return err
			}
		}
		return nil
	})
}

// BreakerState returns the current write circuit breaker state.
func (s *Store) BreakerState() string {
	return s.breaker.State().String()
}

// RunGC reclaims value-log space until BadgerDB reports nothing to rewrite.
func (s *Store) RunGC() error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.config.InMemory {
		return nil
	}
	for {
		err := s.db.RunValueLogGC(s.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Close shuts the store down, bounded by the configured CloseTimeout.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	timeout := s.config.CloseTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	s.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		done <- s.db.Close()
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("close BadgerDB: %w", err)
		}
		s.logger.Info().Msg("persist store closed")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("badgerdb close timeout after %v", timeout)
	}
}
