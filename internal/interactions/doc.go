// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package interactions implements the append-only interaction store.

Events are kept in per-user logs spread across a fixed number of shards.
Each user log has its own mutex, and the global sequence number is taken
while that mutex is held, so events of one user are strictly ordered by
sequence and concurrent writers for different users never wait on each
other beyond the brief shard lookup.

When a Journal is configured, an event is journaled before it becomes
visible to readers. A failed journal write rejects the event; the sequence
number it consumed is not reused, so sequences may have gaps but never
repeat.

# Usage

	store := interactions.NewStore(journal, logging.WithComponent("interactions"))
	n, err := store.Replay(ctx, journal)

	seq, err := store.Record(ctx, models.InteractionEvent{
	    UserID: "u1", ContentID: "c9", Type: models.EventLike, Timestamp: now,
	})

	events, err := store.Query(ctx, interactions.Query{UserID: "u1", From: weekAgo})
*/
package interactions
