// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/analytics"
	"github.com/tomtom215/resonance/internal/config"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/supervisor"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv(config.ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))
	saved := config.DefaultConfigPaths
	config.DefaultConfigPaths = nil
	t.Cleanup(func() { config.DefaultConfigPaths = saved })

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}
	cfg.Storage.InMemory = true
	cfg.Security.RateLimitDisabled = true
	return cfg
}

func TestBuildEngineConfig(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Recommend.Alpha = 0.8
	cfg.Recommend.UnknownUserPolicy = "not_found"
	cfg.Recommend.WeightShare = 5
	cfg.Retrain.Interval = 6 * time.Hour

	rc := buildEngineConfig(cfg)
	if err := rc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if rc.Alpha != 0.8 {
		t.Errorf("Alpha = %v, want 0.8", rc.Alpha)
	}
	if rc.UnknownUserPolicy != recommend.PolicyNotFound {
		t.Errorf("UnknownUserPolicy = %q", rc.UnknownUserPolicy)
	}
	if rc.Weights.Share != 5 {
		t.Errorf("Weights.Share = %v, want 5", rc.Weights.Share)
	}
	if rc.Training.Interval != 6*time.Hour {
		t.Errorf("Training.Interval = %v, want 6h", rc.Training.Interval)
	}
	if rc.Popularity.BucketSize != recommend.DefaultConfig().Popularity.BucketSize {
		t.Errorf("unmapped popularity bucket changed: %v", rc.Popularity.BucketSize)
	}
}

func TestBuildSentimentConfig_KeepsDefaultWordLists(t *testing.T) {
	cfg := loadTestConfig(t)
	sc := buildSentimentConfig(cfg)
	if len(sc.PositiveWords) == 0 || len(sc.NegativeWords) == 0 {
		t.Fatal("empty word lists must keep the built-in tables")
	}

	cfg.Sentiment.PositiveWords = []string{"stellar"}
	cfg.Sentiment.SpamPhrases = []string{"act now"}
	sc = buildSentimentConfig(cfg)
	if len(sc.PositiveWords) != 1 || sc.PositiveWords[0] != "stellar" {
		t.Errorf("PositiveWords = %v", sc.PositiveWords)
	}
	if len(sc.Moderation.SpamPhrases) != 1 {
		t.Errorf("SpamPhrases = %v", sc.Moderation.SpamPhrases)
	}
}

func TestBuildComponents_InMemory(t *testing.T) {
	cfg := loadTestConfig(t)

	comps, err := buildComponents(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildComponents() error = %v", err)
	}
	defer comps.close()

	ctx := context.Background()
	if err := comps.restore(ctx); err != nil {
		t.Fatalf("restore() error = %v", err)
	}
	if got := comps.engine.State(); got != recommend.StateCold {
		t.Errorf("State() = %v, want cold without a snapshot", got)
	}

	if err := comps.service.IndexContent(ctx, analytics.ContentInput{
		ContentID: "post-1",
		Text:      "sunset over the harbor",
		Hashtags:  []string{"travel"},
	}); err != nil {
		t.Fatalf("IndexContent() error = %v", err)
	}
	if _, err := comps.service.IngestInteraction(ctx, analytics.InteractionInput{
		UserID: "alice", ContentID: "post-1", EventType: "like",
	}); err != nil {
		t.Fatalf("IngestInteraction() error = %v", err)
	}

	stats := comps.service.Stats()
	if stats.Interactions != 1 || stats.Content != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestServerWiring(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Retrain.OnStartup = false

	comps, err := buildComponents(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("buildComponents() error = %v", err)
	}
	defer comps.close()

	ts := httptest.NewServer(newRouter(cfg, comps).SetupChi())
	defer ts.Close()

	tree, err := supervisor.NewSupervisorTree(supervisorTestLogger(), supervisor.TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	addServices(tree, cfg, comps, &http.Server{Addr: "127.0.0.1:0"})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	select {
	case <-comps.bus.Started():
	case <-time.After(2 * time.Second):
		t.Fatal("event bus did not start under the supervisor")
	}

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /health status = %d", resp.StatusCode)
	}

	cancel()
	<-errCh
}
