// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package recommend implements the hybrid content recommendation engine.
//
// # Architecture
//
// The engine combines two model families trained into one immutable
// Snapshot:
//
//   - Collaborative Filtering: user-user and item-item cosine over the
//     event-weighted user×item matrix
//   - Content-Based Filtering: TF-IDF cosine over text and hashtags, with
//     recency decay and a same-category boost
//   - Diversity Reranking: caps runs of the same category or author
//   - Popularity: live fallback when personalized sources are empty
//
// # Lifecycle
//
//	cold -> building -> ready -> stale -> building -> ...
//
// Tick moves a ready snapshot to stale once the retrain interval elapses
// and starts a background build when one is due. A failed build leaves the
// previous snapshot active (or the engine cold) and is retried one interval
// later.
//
// # Design Principles
//
//   - Deterministic: a build is a pure function of its inputs
//   - Atomic: requests load the snapshot once through an atomic pointer
//   - Durable: snapshots are persisted with checksums and reloaded on start
//   - Observable: requests and builds are logged and exported as metrics
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    Interactions: store,
//	    Content:      index,
//	    Popularity:   popularity,
//	    Store:        snapshots,
//	}, logger)
//
//	_ = engine.LoadLatest(ctx)
//	engine.TriggerRetrain(ctx)
//
//	recs, err := engine.Recommend(ctx, recommend.Request{
//	    UserID: "u-123",
//	    Kind:   models.KindContent,
//	    Limit:  20,
//	})
//
// # Thread Safety
//
// The engine is safe for concurrent use. Builds are serialized with a
// try-lock so concurrent triggers are no-ops, and requests never wait for
// a build.
package recommend
