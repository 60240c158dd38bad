// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/resonance/config.yaml",
	"/etc/resonance/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvFile is loaded into the process environment before anything else.
// Variables already set in the environment win.
const DotEnvFile = ".env"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8420,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			Environment:     "production",
			MaxBodyBytes:    1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Storage: StorageConfig{
			Path:            "/data/resonance/badger",
			SnapshotDir:     "/data/resonance/snapshots",
			SyncWrites:      true,
			GCInterval:      10 * time.Minute,
			GCRatio:         0.5,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
			FlushInterval:   time.Minute,
		},
		EventBus: EventBusConfig{
			BufferSize:           1024,
			RetryCount:           3,
			RetryInitialInterval: 100 * time.Millisecond,
			CloseTimeout:         10 * time.Second,
		},
		Recommend: RecommendConfig{
			Alpha:             0.5,
			UnknownUserPolicy: "cold_start",
			WeightView:        0.2,
			WeightLike:        1,
			WeightComment:     2,
			WeightShare:       3,
			WeightFollow:      0.5,
			Neighbors:         50,
			MinInteractions:   2,
			ContentNeighbors:  50,
			MinSimilarity:     0.3,
			RecencyHalfLife:   7 * 24 * time.Hour,
			CategoryBoost:     0.2,
			DiversityMaxRun:   2,
			PopularityWindow:  24 * time.Hour,
			DefaultLimit:      20,
			MaxLimit:          100,
		},
		Retrain: RetrainConfig{
			Interval:              24 * time.Hour,
			CheckInterval:         time.Minute,
			Timeout:               10 * time.Minute,
			OnStartup:             true,
			RetainVersions:        3,
			HighPerformerFraction: 0.2,
		},
		Sentiment: SentimentConfig{
			PositiveThreshold: 0.1,
			NegativeThreshold: -0.1,
			MinLength:         20,
			MaxLength:         500,
			MaxHashtags:       10,
			SpamThreshold:     0.4,
		},
		Engagement: EngagementConfig{
			MinHistory:        5,
			BaselineLikes:     10,
			PeakHours:         []int{8, 9, 10, 19, 20, 21},
			PeakMultiplier:    1.3,
			WeekendMultiplier: 1.2,
			MaxHashtags:       10,
		},
		Behavior: BehaviorConfig{
			Lookback:        30 * 24 * time.Hour,
			HighRate:        5,
			MediumRate:      1,
			RecencyHalfLife: 7 * 24 * time.Hour,
			RecencyWeight:   0.7,
			TrendWeight:     0.3,
		},
		Trends: TrendsConfig{
			BucketSize:    time.Hour,
			Retention:     14 * 24 * time.Hour,
			DefaultWindow: 24 * time.Hour,
			Threshold:     1.5,
			MinVolume:     10,
			Epsilon:       1,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
}

// Load reads the optional .env file and then loads configuration with
// LoadWithKoanf.
func Load() (*Config, error) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, err
	}
	return LoadWithKoanf()
}

// loadDotEnv loads path into the environment. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources.
//
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// RECOMMEND_ALPHA -> recommend.alpha, HTTP_PORT -> server.port
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ConfigFile returns the config file Load reads, or "" if none exists.
func ConfigFile() string {
	return findConfigFile()
}

// findConfigFile returns the first config file found, or "" if none exists.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
	"sentiment.positive_words",
	"sentiment.negative_words",
	"sentiment.moderation_keywords",
	"sentiment.spam_phrases",
	"engagement.peak_hours",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envAliases maps conventional variable names that do not follow the
// SECTION_FIELD pattern.
var envAliases = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",
	"max_body_bytes":   "server.max_body_bytes",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"badger_path":  "storage.path",
	"snapshot_dir": "storage.snapshot_dir",

	"cors_origins":        "security.cors_origins",
	"rate_limit_reqs":     "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"admin_token":         "security.admin_token",
	"resonance_admin_key": "security.admin_token",
}

// envSections are the config sections reachable as SECTION_FIELD. Longer
// prefixes come first so EVENT_BUS_ is not read as EVENT_.
var envSections = []string{
	"event_bus",
	"engagement",
	"recommend",
	"sentiment",
	"security",
	"behavior",
	"logging",
	"retrain",
	"storage",
	"server",
	"trends",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - RECOMMEND_ALPHA -> recommend.alpha
//   - EVENT_BUS_BUFFER_SIZE -> event_bus.buffer_size
//   - HTTP_PORT -> server.port
//   - LOG_LEVEL -> logging.level
//
// Unmapped keys return "" so unrelated environment variables never reach
// the configuration.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envAliases[key]; ok {
		return mapped
	}

	for _, section := range envSections {
		field, ok := strings.CutPrefix(key, section+"_")
		if ok && field != "" {
			return section + "." + field
		}
	}

	return ""
}

// WatchConfigFile calls callback whenever the file at path changes.
// The caller is responsible for synchronizing access to any configuration
// it reloads.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)

	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
