// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/resonance/internal/metrics"
	"github.com/tomtom215/resonance/internal/recommend/reranking"
	"github.com/tomtom215/resonance/internal/recommend/storage"
)

// ErrRetrainInProgress is returned by Retrain when another build holds the
// build lock.
var ErrRetrainInProgress = errors.New("retrain already in progress")

// Dependencies are the live data sources the engine reads from.
type Dependencies struct {
	Interactions InteractionSource
	Content      ContentSource
	Popularity   PopularitySource

	// Store persists snapshots. Nil keeps snapshots in memory only.
	Store SnapshotStore
}

// Engine serves recommendations from the active snapshot and manages its
// retrain lifecycle. It is safe for concurrent use.
//
// Reads load the snapshot through an atomic pointer and never block each
// other or a running build. At most one build runs at a time; a second
// trigger while building is a no-op.
type Engine struct {
	config *Config
	logger zerolog.Logger
	deps   Dependencies

	diversity *reranking.Diversity
	now       func() time.Time

	snapshot atomic.Pointer[Snapshot]
	state    atomic.Int32

	buildMu sync.Mutex
	builds  sync.WaitGroup

	statusMu    sync.RWMutex
	lastAttempt time.Time
	lastError   string

	busyLog rate.Sometimes
}

// NewEngine creates a new recommendation engine in the cold state.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Interactions == nil || deps.Content == nil || deps.Popularity == nil {
		return nil, errors.New("interactions, content and popularity sources are required")
	}

	e := &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		deps:      deps,
		diversity: reranking.NewDiversity(cfg.Diversity.MaxRun),
		now:       time.Now,
		busyLog:   rate.Sometimes{Interval: time.Minute},
	}
	e.setState(StateCold)
	return e, nil
}

// SetClock replaces the engine clock. It must be called before the engine
// is shared between goroutines.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

func (e *Engine) setState(s State) {
	e.state.Store(int32(s))
	metrics.ModelState.Set(float64(s))
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Snapshot returns the active snapshot, or nil while cold.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot.Load()
}

// LoadLatest installs the newest readable snapshot from the store. The
// engine becomes ready, or stale when the snapshot is older than the
// retrain interval. Without a store, or with an empty one, the engine
// stays cold and ErrNoSnapshot is returned.
func (e *Engine) LoadLatest(ctx context.Context) error {
	if e.deps.Store == nil {
		return ErrNoSnapshot
	}

	var snap Snapshot
	meta, err := e.deps.Store.LoadLatest(ctx, &snap)
	var skipped *storage.SkippedError
	switch {
	case errors.As(err, &skipped):
		e.logger.Warn().Err(err).Msg("skipped unreadable snapshots")
	case errors.Is(err, storage.ErrNoSnapshot):
		return ErrNoSnapshot
	case err != nil:
		return fmt.Errorf("load snapshot: %w", err)
	}

	e.install(&snap)
	if e.now().Sub(snap.BuiltAt) >= e.config.Training.Interval {
		e.setState(StateStale)
	}

	e.logger.Info().
		Int64("version", meta.Version).
		Time("built_at", snap.BuiltAt).
		Str("state", e.State().String()).
		Msg("loaded model snapshot")
	return nil
}

func (e *Engine) install(snap *Snapshot) {
	e.snapshot.Store(snap)
	e.setState(StateReady)
	metrics.SnapshotVersion.Set(float64(snap.Version))
}

// Retrain builds a new snapshot synchronously and swaps it in. It returns
// ErrRetrainInProgress if a build is already running.
func (e *Engine) Retrain(ctx context.Context) error {
	if !e.buildMu.TryLock() {
		e.logBusy()
		return ErrRetrainInProgress
	}
	defer e.buildMu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()
	return e.retrainLocked(ctx)
}

// TriggerRetrain starts a background build and reports whether one was
// started. The build outlives the caller's context but is bounded by the
// training timeout.
func (e *Engine) TriggerRetrain(ctx context.Context) bool {
	if !e.buildMu.TryLock() {
		e.logBusy()
		return false
	}

	e.builds.Add(1)
	go func() {
		defer e.builds.Done()
		defer e.buildMu.Unlock()

		bctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.config.Training.Timeout)
		defer cancel()
		_ = e.retrainLocked(bctx) //nolint:errcheck // failures are logged and recorded in Status
	}()
	return true
}

// Wait blocks until background builds started by TriggerRetrain finish.
func (e *Engine) Wait() {
	e.builds.Wait()
}

func (e *Engine) logBusy() {
	metrics.RecordRetrain("skipped", 0)
	e.busyLog.Do(func() {
		e.logger.Debug().Msg("retrain already running, trigger ignored")
	})
}

// Tick advances the time-triggered part of the lifecycle: a ready snapshot
// older than the retrain interval becomes stale, and a build is started when
// one is due. A failed build is retried one interval after the attempt.
func (e *Engine) Tick(ctx context.Context, now time.Time) bool {
	interval := e.config.Training.Interval
	snap := e.snapshot.Load()

	var last time.Time
	if snap != nil {
		last = snap.BuiltAt
		if now.Sub(snap.BuiltAt) >= interval && e.state.CompareAndSwap(int32(StateReady), int32(StateStale)) {
			metrics.ModelState.Set(float64(StateStale))
			e.logger.Info().Int64("version", snap.Version).Msg("model snapshot is stale")
		}
	}

	e.statusMu.RLock()
	if e.lastAttempt.After(last) {
		last = e.lastAttempt
	}
	e.statusMu.RUnlock()

	if !last.IsZero() && now.Sub(last) < interval {
		return false
	}
	return e.TriggerRetrain(ctx)
}

// retrainLocked runs one build. The caller holds buildMu.
func (e *Engine) retrainLocked(ctx context.Context) error {
	start := time.Now()
	builtAt := e.now()
	prev := e.snapshot.Load()

	e.setState(StateBuilding)
	e.statusMu.Lock()
	e.lastAttempt = builtAt
	e.statusMu.Unlock()

	events := e.deps.Interactions.Snapshot()
	docs := e.deps.Content.Snapshot()

	e.logger.Info().
		Int("events", len(events)).
		Int("content", len(docs)).
		Msg("starting model build")

	var prevVersion int64
	if prev != nil {
		prevVersion = prev.Version
	}

	snap, err := Build(ctx, e.config, events, docs, prevVersion, builtAt)
	if err != nil {
		if prev != nil {
			e.setState(StateReady)
		} else {
			e.setState(StateCold)
		}
		e.statusMu.Lock()
		e.lastError = err.Error()
		e.statusMu.Unlock()

		metrics.RecordRetrain("failure", time.Since(start))
		e.logger.Error().Err(err).Msg("model build failed, keeping previous snapshot")
		return fmt.Errorf("build snapshot: %w", err)
	}

	e.install(snap)
	e.statusMu.Lock()
	e.lastError = ""
	e.statusMu.Unlock()

	duration := time.Since(start)
	metrics.RecordRetrain("success", duration)
	e.logger.Info().
		Int64("version", snap.Version).
		Int("users", snap.Collaborative.Users()).
		Int("items", snap.Collaborative.Items()).
		Int("content", snap.Content.Items()).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("model build complete")

	e.persist(ctx, snap, duration)
	return nil
}

func (e *Engine) persist(ctx context.Context, snap *Snapshot, duration time.Duration) {
	if e.deps.Store == nil {
		return
	}

	meta := storage.Metadata{
		BuiltAt:         snap.BuiltAt,
		EventCount:      snap.EventCount,
		ContentCount:    snap.ContentCount,
		UserCount:       snap.Collaborative.Users(),
		BuildDurationMS: duration.Milliseconds(),
	}
	if _, err := e.deps.Store.Save(ctx, snap.Version, snap, meta); err != nil {
		e.logger.Warn().Err(err).Int64("version", snap.Version).Msg("failed to persist snapshot")
		return
	}
	if removed, err := e.deps.Store.Prune(ctx, e.config.Training.RetainVersions); err != nil {
		e.logger.Warn().Err(err).Msg("failed to prune old snapshots")
	} else if removed > 0 {
		e.logger.Debug().Int("removed", removed).Msg("pruned old snapshots")
	}
}

// Status returns the lifecycle status.
func (e *Engine) Status() Status {
	st := Status{State: e.State().String()}
	if snap := e.snapshot.Load(); snap != nil {
		st.Version = snap.Version
		st.BuiltAt = snap.BuiltAt
		st.Users = snap.Collaborative.Users()
		st.Items = snap.Collaborative.Items()
		st.ContentItems = snap.Content.Items()
		st.Events = snap.EventCount
	}

	e.statusMu.RLock()
	st.LastAttempt = e.lastAttempt
	st.LastError = e.lastError
	e.statusMu.RUnlock()
	return st
}
