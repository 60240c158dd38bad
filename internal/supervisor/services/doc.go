// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package services provides suture.Service wrappers for Resonance components.

Each wrapper turns a component lifecycle into suture's context-aware Serve
pattern and identifies itself through fmt.Stringer for supervisor logs.

# Available Services

HTTPServerService runs the API server and shuts it down gracefully.

RetrainService ticks the recommendation engine on an interval so a stale
snapshot is rebuilt in the background. Builds in flight are awaited on
shutdown.

CounterService prunes and flushes the popularity and trend counters, with a
final flush when the tree stops.

StorageGCService runs BadgerDB value-log garbage collection.

EventBusService runs the watermill router. A router cannot be restarted, so
an unexpected stop returns suture.ErrDoNotRestart and publishers dispatch
inline from then on.

# Usage

	tree.AddDataService(services.NewCounterService(svc, services.CounterServiceConfig{}, logger))
	tree.AddProcessingService(services.NewEventBusService(bus, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
*/
package services
