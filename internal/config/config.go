// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. .env file in the working directory, if present (development only)
//  2. Defaults: built-in values for every setting
//  3. Config File: optional YAML file (CONFIG_PATH, ./config.yaml, /etc/resonance/config.yaml)
//  4. Environment Variables: override any mapped setting
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal("Failed to load config:", err)
//	}
//	srv := http.Server{Addr: cfg.Server.Addr()}
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Storage    StorageConfig    `koanf:"storage"`
	EventBus   EventBusConfig   `koanf:"event_bus"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Retrain    RetrainConfig    `koanf:"retrain"`
	Sentiment  SentimentConfig  `koanf:"sentiment"`
	Engagement EngagementConfig `koanf:"engagement"`
	Behavior   BehaviorConfig   `koanf:"behavior"`
	Trends     TrendsConfig     `koanf:"trends"`
	Security   SecurityConfig   `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Environment is "development" or "production". Development enables
	// console logging defaults and permissive CORS.
	Environment string `koanf:"environment"`

	// MaxBodyBytes caps request bodies. Default: 1 MiB.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
}

// Addr returns host:port for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds zerolog settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// StorageConfig holds persistence settings.
type StorageConfig struct {
	// Path is the BadgerDB directory for the interaction journal, content
	// documents and counters.
	Path string `koanf:"path"`

	// SnapshotDir holds serialized model snapshots.
	SnapshotDir string `koanf:"snapshot_dir"`

	// InMemory disables disk persistence entirely. Snapshots are then kept
	// only in memory and lost on restart.
	InMemory bool `koanf:"in_memory"`

	SyncWrites      bool          `koanf:"sync_writes"`
	GCInterval      time.Duration `koanf:"gc_interval"`
	GCRatio         float64       `koanf:"gc_ratio"`
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`

	// FlushInterval is how often trend and popularity counters are saved.
	FlushInterval time.Duration `koanf:"flush_interval"`
}

// EventBusConfig holds the in-process Watermill settings.
type EventBusConfig struct {
	BufferSize           int64         `koanf:"buffer_size"`
	RetryCount           int           `koanf:"retry_count"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval"`
	CloseTimeout         time.Duration `koanf:"close_timeout"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	Alpha             float64 `koanf:"alpha"`
	UnknownUserPolicy string  `koanf:"unknown_user_policy"`
	AllowResurface    bool    `koanf:"allow_resurface"`

	WeightView    float64 `koanf:"weight_view"`
	WeightLike    float64 `koanf:"weight_like"`
	WeightComment float64 `koanf:"weight_comment"`
	WeightShare   float64 `koanf:"weight_share"`
	WeightFollow  float64 `koanf:"weight_follow"`

	Neighbors        int `koanf:"neighbors"`
	MinInteractions  int `koanf:"min_interactions"`
	ContentNeighbors int `koanf:"content_neighbors"`

	MinSimilarity   float64       `koanf:"min_similarity"`
	RecencyHalfLife time.Duration `koanf:"recency_half_life"`
	CategoryBoost   float64       `koanf:"category_boost"`
	DiversityMaxRun int           `koanf:"diversity_max_run"`

	PopularityWindow time.Duration `koanf:"popularity_window"`

	DefaultLimit int `koanf:"default_limit"`
	MaxLimit     int `koanf:"max_limit"`
}

// RetrainConfig holds snapshot rebuild settings.
type RetrainConfig struct {
	// Interval is how long a snapshot stays fresh.
	Interval time.Duration `koanf:"interval"`

	// CheckInterval is how often the retrain service ticks the engine.
	CheckInterval time.Duration `koanf:"check_interval"`

	Timeout        time.Duration `koanf:"timeout"`
	OnStartup      bool          `koanf:"on_startup"`
	RetainVersions int           `koanf:"retain_versions"`
	Workers        int           `koanf:"workers"`

	HighPerformerFraction float64 `koanf:"high_performer_fraction"`
}

// SentimentConfig overrides the built-in rule tables. Empty word lists keep
// the defaults.
type SentimentConfig struct {
	PositiveWords     []string `koanf:"positive_words"`
	NegativeWords     []string `koanf:"negative_words"`
	PositiveThreshold float64  `koanf:"positive_threshold"`
	NegativeThreshold float64  `koanf:"negative_threshold"`

	MinLength   int `koanf:"min_length"`
	MaxLength   int `koanf:"max_length"`
	MaxHashtags int `koanf:"max_hashtags"`

	ModerationKeywords []string `koanf:"moderation_keywords"`
	SpamPhrases        []string `koanf:"spam_phrases"`
	SpamThreshold      float64  `koanf:"spam_threshold"`
}

// EngagementConfig holds predictor settings.
type EngagementConfig struct {
	MinHistory        int     `koanf:"min_history"`
	BaselineLikes     float64 `koanf:"baseline_likes"`
	PeakHours         []int   `koanf:"peak_hours"`
	PeakMultiplier    float64 `koanf:"peak_multiplier"`
	WeekendMultiplier float64 `koanf:"weekend_multiplier"`
	MaxHashtags       int     `koanf:"max_hashtags"`
}

// BehaviorConfig holds behavior analyzer settings.
type BehaviorConfig struct {
	Lookback        time.Duration `koanf:"lookback"`
	HighRate        float64       `koanf:"high_rate"`
	MediumRate      float64       `koanf:"medium_rate"`
	RecencyHalfLife time.Duration `koanf:"recency_half_life"`
	RecencyWeight   float64       `koanf:"recency_weight"`
	TrendWeight     float64       `koanf:"trend_weight"`
}

// TrendsConfig holds trend detector settings.
type TrendsConfig struct {
	BucketSize    time.Duration `koanf:"bucket_size"`
	Retention     time.Duration `koanf:"retention"`
	DefaultWindow time.Duration `koanf:"default_window"`
	Threshold     float64       `koanf:"threshold"`
	MinVolume     int64         `koanf:"min_volume"`
	Epsilon       float64       `koanf:"epsilon"`
}

// SecurityConfig holds HTTP hardening settings. Authentication is handled
// upstream; AdminToken only guards the /api/v1/admin routes.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// AdminToken, when set, must be presented as a bearer token on admin
	// routes.
	AdminToken string `koanf:"admin_token"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
