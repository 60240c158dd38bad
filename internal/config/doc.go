// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package config provides centralized configuration management for Resonance.

Configuration is layered with Koanf v2. Later layers win:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/resonance/config.yaml
 3. Environment variables

Load additionally reads a .env file from the working directory before the
layers are applied. Variables already present in the environment are not
overwritten by it.

# Environment Variables

Every field is reachable as SECTION_FIELD:

  - RECOMMEND_ALPHA: collaborative share of the hybrid blend (default: 0.5)
  - RECOMMEND_UNKNOWN_USER_POLICY: cold_start or not_found
  - RETRAIN_INTERVAL: snapshot freshness window (default: 24h)
  - EVENT_BUS_BUFFER_SIZE: in-process pub/sub buffer (default: 1024)
  - TRENDS_MIN_VOLUME: minimum window count before a tag can trend (default: 10)

A few conventional names are accepted as aliases:

  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER
  - BADGER_PATH, SNAPSHOT_DIR
  - CORS_ORIGINS, RATE_LIMIT_REQS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - ADMIN_TOKEN

List fields (CORS origins, sentiment word lists, engagement peak hours) take
comma-separated values from the environment.

# Example config.yaml

	server:
	  port: 8420
	  environment: development
	logging:
	  level: debug
	  format: console
	storage:
	  path: ./data/badger
	  snapshot_dir: ./data/snapshots
	recommend:
	  alpha: 0.6
	  unknown_user_policy: not_found
	trends:
	  threshold: 2.0

# Thread Safety

A loaded Config is never mutated and is safe for concurrent reads.
*/
package config
