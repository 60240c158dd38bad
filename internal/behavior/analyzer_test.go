// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package behavior

import (
	"context"
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/interactions"
	"github.com/tomtom215/resonance/internal/models"
)

var now = time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

const day = 24 * time.Hour

func newTestAnalyzer(t *testing.T) (*Analyzer, *interactions.Store) {
	t.Helper()
	store := interactions.NewStore(nil, zerolog.Nop())
	a, err := NewAnalyzer(DefaultConfig(), store)
	if err != nil {
		t.Fatalf("NewAnalyzer() error = %v", err)
	}
	return a, store
}

func record(t *testing.T, store *interactions.Store, user string, typ models.EventType, at time.Time) {
	t.Helper()
	if _, err := store.Record(context.Background(), models.InteractionEvent{
		UserID: user, ContentID: "c1", Type: typ, Timestamp: at,
	}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
}

func TestAnalyze_Errors(t *testing.T) {
	a, _ := newTestAnalyzer(t)
	ctx := context.Background()

	if _, err := a.Analyze(ctx, " ", now); !errors.Is(err, models.ErrValidation) {
		t.Errorf("Analyze(empty) error = %v, want ErrValidation", err)
	}
	if _, err := a.Analyze(ctx, "ghost", now); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Analyze(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestAnalyze_Levels(t *testing.T) {
	a, store := newTestAnalyzer(t)
	ctx := context.Background()

	// heavy: 6 events/day for 30 days; steady: 45 events; light: 10 events
	// three weeks ago.
	for d := 0; d < 30; d++ {
		for k := 0; k < 6; k++ {
			record(t, store, "heavy", models.EventLike, now.Add(-time.Duration(d)*day-time.Duration(k)*time.Hour))
		}
	}
	for i := 0; i < 45; i++ {
		record(t, store, "steady", models.EventView, now.Add(-time.Duration(i)*14*time.Hour))
	}
	for i := 0; i < 10; i++ {
		record(t, store, "light", models.EventView, now.Add(-20*day-time.Duration(i)*12*time.Hour))
	}

	tests := []struct {
		user      string
		wantLevel models.EngagementLevel
		wantTrend models.ActivityTrend
		churnLo   float64
		churnHi   float64
	}{
		{"heavy", models.EngagementHigh, models.TrendStable, 0, 0.2},
		{"steady", models.EngagementMedium, models.TrendStable, 0, 0.2},
		{"light", models.EngagementLow, models.TrendDeclining, 0.8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			p, err := a.Analyze(ctx, tt.user, now)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			if p.EngagementLevel != tt.wantLevel {
				t.Errorf("EngagementLevel = %s, want %s (rate %v)", p.EngagementLevel, tt.wantLevel, p.ActivityRate)
			}
			if p.Trend != tt.wantTrend {
				t.Errorf("Trend = %s, want %s", p.Trend, tt.wantTrend)
			}
			if p.ChurnRisk < tt.churnLo || p.ChurnRisk > tt.churnHi {
				t.Errorf("ChurnRisk = %v, want in [%v, %v]", p.ChurnRisk, tt.churnLo, tt.churnHi)
			}
			if !p.LastComputedAt.Equal(now) {
				t.Errorf("LastComputedAt = %v, want %v", p.LastComputedAt, now)
			}
		})
	}
}

func TestAnalyze_ChurnFormula(t *testing.T) {
	a, store := newTestAnalyzer(t)
	record(t, store, "u1", models.EventLike, now.Add(-7*day))

	p, err := a.Analyze(context.Background(), "u1", now)
	if err != nil {
		t.Fatal(err)
	}
	// One half-life of inactivity, all activity in the recent half.
	want := 0.7 * 0.5
	if math.Abs(p.ChurnRisk-want) > 1e-9 {
		t.Errorf("ChurnRisk = %v, want %v", p.ChurnRisk, want)
	}
	if math.Abs(p.ActivityRate-1.0/30) > 1e-9 {
		t.Errorf("ActivityRate = %v, want 1/30", p.ActivityRate)
	}
}

func TestAnalyze_Growing(t *testing.T) {
	a, store := newTestAnalyzer(t)
	for i := 0; i < 5; i++ {
		record(t, store, "u1", models.EventShare, now.Add(-time.Duration(i)*day))
	}

	p, err := a.Analyze(context.Background(), "u1", now)
	if err != nil {
		t.Fatal(err)
	}
	if p.Trend != models.TrendGrowing {
		t.Errorf("Trend = %s, want growing", p.Trend)
	}
}

func TestAnalyze_Histogram(t *testing.T) {
	a, store := newTestAnalyzer(t)
	base := time.Date(2026, 3, 30, 0, 0, 0, 0, time.UTC)

	for _, h := range []int{9, 9, 9, 20, 20, 14, 7} {
		record(t, store, "u1", models.EventLike, base.Add(time.Duration(h)*time.Hour))
	}
	record(t, store, "u1", models.EventComment, base.Add(9*time.Hour))
	record(t, store, "u1", models.EventLike, now.Add(time.Hour)) // future, ignored
	record(t, store, "u1", models.EventLike, now.Add(-40*day))   // before lookback

	p, err := a.Analyze(context.Background(), "u1", now)
	if err != nil {
		t.Fatal(err)
	}
	if p.EventsInWindow != 8 {
		t.Errorf("EventsInWindow = %d, want 8", p.EventsInWindow)
	}
	if p.EventCounts[models.EventLike] != 7 || p.EventCounts[models.EventComment] != 1 {
		t.Errorf("EventCounts = %v", p.EventCounts)
	}
	if p.ActiveHours[9] != 4 || p.ActiveHours[20] != 2 {
		t.Errorf("ActiveHours = %v", p.ActiveHours)
	}
	if want := []int{9, 20, 7}; !slices.Equal(p.PeakHours, want) {
		t.Errorf("PeakHours = %v, want %v", p.PeakHours, want)
	}
	if math.Abs(p.ActivityScore-0.08) > 1e-9 {
		t.Errorf("ActivityScore = %v, want 0.08", p.ActivityScore)
	}
	if want := base.Add(20 * time.Hour); !p.LastActiveAt.Equal(want) {
		t.Errorf("LastActiveAt = %v, want %v", p.LastActiveAt, want)
	}
}

func TestAnalyze_OnlyOldEvents(t *testing.T) {
	a, store := newTestAnalyzer(t)
	record(t, store, "u1", models.EventLike, now.Add(-40*day))

	p, err := a.Analyze(context.Background(), "u1", now)
	if err != nil {
		t.Fatal(err)
	}
	if p.EventsInWindow != 0 || p.EngagementLevel != models.EngagementLow {
		t.Errorf("profile = %+v, want no window activity", p)
	}
	if p.ChurnRisk < 0.8 {
		t.Errorf("ChurnRisk = %v, want high after 40 idle days", p.ChurnRisk)
	}
	if len(p.PeakHours) != 0 {
		t.Errorf("PeakHours = %v, want none", p.PeakHours)
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	a, store := newTestAnalyzer(t)
	for i := 0; i < 20; i++ {
		record(t, store, "u1", models.EventView, now.Add(-time.Duration(i)*17*time.Hour))
	}

	first, err := a.Analyze(context.Background(), "u1", now)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Analyze(context.Background(), "u1", now)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Analyze() not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"short lookback", func(c *Config) { c.Lookback = time.Hour }, true},
		{"rates inverted", func(c *Config) { c.HighRate = 0.5 }, true},
		{"half-life", func(c *Config) { c.RecencyHalfLife = 0 }, true},
		{"weights", func(c *Config) { c.RecencyWeight, c.TrendWeight = 0, 0 }, true},
		{"tolerance", func(c *Config) { c.TrendTolerance = 1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
