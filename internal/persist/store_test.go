// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package persist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/sequence"
	"github.com/tomtom215/resonance/internal/window"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Path = t.TempDir()
	cfg.SyncWrites = false
	s, err := Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_EventsReplayInSequenceOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	// Written out of order; 256 and 1 would sort wrongly as decimal strings.
	for _, seq := range []uint64{256, 1, 17} {
		ev := &models.InteractionEvent{Sequence: seq, UserID: "u1", ContentID: "c1", Type: models.EventLike, Timestamp: ts}
		if err := s.AppendEvent(ctx, ev); err != nil {
			t.Fatalf("AppendEvent(%d) error = %v", seq, err)
		}
	}

	var got []uint64
	err := s.ReplayEvents(ctx, func(ev models.InteractionEvent) error {
		got = append(got, ev.Sequence)
		if !ev.Timestamp.Equal(ts) {
			t.Errorf("timestamp = %v, want %v", ev.Timestamp, ts)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReplayEvents() error = %v", err)
	}

	want := []uint64{1, 17, 256}
	if len(got) != len(want) {
		t.Fatalf("replayed %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("replayed[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestStore_ContentSupersedes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v1 := &models.ContentFeatureVector{ContentID: "c1", Category: "music", Terms: map[string]float64{"jazz": 1}}
	v2 := &models.ContentFeatureVector{ContentID: "c1", Category: "dance", Terms: map[string]float64{"salsa": 1}}
	for _, v := range []*models.ContentFeatureVector{v1, v2} {
		if err := s.PutContent(ctx, v); err != nil {
			t.Fatalf("PutContent() error = %v", err)
		}
	}

	var loaded []models.ContentFeatureVector
	if err := s.LoadContent(ctx, func(v models.ContentFeatureVector) error {
		loaded = append(loaded, v)
		return nil
	}); err != nil {
		t.Fatalf("LoadContent() error = %v", err)
	}
	if len(loaded) != 1 || loaded[0].Category != "dance" {
		t.Errorf("LoadContent() = %+v, want single superseded vector", loaded)
	}
}

func TestStore_Counters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	snap, cp, err := s.LoadCounters(ctx, "trends")
	if err != nil {
		t.Fatalf("LoadCounters(missing) error = %v", err)
	}
	if len(snap) != 0 || !cp.SavedAt.IsZero() || cp.Interactions.Last != 0 {
		t.Errorf("missing counters = %v @ %+v, want empty", snap, cp)
	}

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	in := window.Snapshot{"#music": {493000: 12, 493001: 3}}
	if err := s.SaveCounters(ctx, "trends", in, Checkpoint{
		SavedAt:      now,
		Interactions: sequence.Mark{Last: 42, Pending: []uint64{40}},
		Content:      sequence.Mark{Last: 7},
	}); err != nil {
		t.Fatalf("SaveCounters() error = %v", err)
	}

	out, cp, err := s.LoadCounters(ctx, "trends")
	if err != nil {
		t.Fatalf("LoadCounters() error = %v", err)
	}
	if !cp.SavedAt.Equal(now) {
		t.Errorf("SavedAt = %v, want %v", cp.SavedAt, now)
	}
	if cp.Interactions.Last != 42 || cp.Interactions.Covers(40) || !cp.Interactions.Covers(41) {
		t.Errorf("Interactions = %+v, want last 42 with 40 pending", cp.Interactions)
	}
	if cp.Content.Last != 7 {
		t.Errorf("Content.Last = %d, want 7", cp.Content.Last)
	}
	if out["#music"][493000] != 12 || out["#music"][493001] != 3 {
		t.Errorf("LoadCounters() = %v, want %v", out, in)
	}
}

func TestStore_Closed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InMemory = true
	s, err := Open(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	err = s.AppendEvent(context.Background(), &models.InteractionEvent{Sequence: 1})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("AppendEvent after Close error = %v, want ErrClosed", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"in memory without path", func(c *Config) { c.Path = ""; c.InMemory = true }, false},
		{"missing path", func(c *Config) { c.Path = "" }, true},
		{"bad gc ratio", func(c *Config) { c.GCRatio = 1.5 }, true},
		{"zero breaker", func(c *Config) { c.BreakerFailures = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
