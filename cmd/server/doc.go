// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package main is the entry point for the Resonance server.

Resonance ingests social interactions and content, and serves
recommendations, sentiment and moderation scores, engagement predictions,
user behavior profiles and trending hashtags over a JSON API.

# Application Architecture

Long-running work runs under a Suture v4 supervisor tree:

	RootSupervisor ("resonance")
	├── DataSupervisor ("data-layer")
	│   ├── Counter flusher
	│   └── Storage GC (disk mode only)
	├── ProcessingSupervisor ("processing-layer")
	│   ├── Event bus router
	│   └── Retrain scheduler
	└── APISupervisor ("api-layer")
	    └── HTTP server

Startup order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment, .env)
 2. Logging: zerolog with JSON or console output
 3. Storage: BadgerDB journal, content documents and counters
 4. Components: interaction store, content index, recommendation engine,
    sentiment scorer, engagement predictor, behavior analyzer and trend
    detector
 5. Restore: content and interactions are replayed, counters are loaded and
    caught up from the journal, and the newest model snapshot is installed
 6. Supervisor tree and HTTP server

# Configuration

	HTTP_PORT=8420                 # server.port
	LOG_LEVEL=info                 # trace, debug, info, warn, error
	LOG_FORMAT=json                # json or console
	STORAGE_PATH=/data/resonance/badger
	STORAGE_SNAPSHOT_DIR=/data/resonance/snapshots
	STORAGE_IN_MEMORY=false
	RETRAIN_INTERVAL=24h
	SECURITY_ADMIN_TOKEN=<token>   # guards /api/v1/admin

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains, the
counters are flushed a final time, running builds finish, and the event bus
and storage are closed.
*/
package main
