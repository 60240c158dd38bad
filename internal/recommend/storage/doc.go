// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package storage persists model snapshots to disk.
//
// A snapshot is any gob-encodable value (in practice recommend.Snapshot).
// Each saved version is a single file so a restart can reload the last good
// snapshot instead of starting cold.
//
// # Storage Format
//
//	filename: snapshot_v{version}.gob.gz
//
//	structure (gob):
//	  - Metadata
//	  - CompressedData (gzip of the gob-encoded snapshot)
//
// Metadata.Checksum is the SHA-256 of the uncompressed payload and is
// verified on every load. Files are written to a temporary name and renamed
// into place, so a crash mid-write never leaves a truncated snapshot behind
// under a valid name.
//
// # Loading
//
// LoadLatest tries versions from newest to oldest and returns the first one
// that decodes and verifies. A corrupt newest file therefore degrades to the
// previous snapshot rather than to a cold start.
//
// # Directory Structure
//
//	/var/lib/resonance/snapshots/
//	  snapshot_v1760000000000.gob.gz
//	  snapshot_v1760086400000.gob.gz   <- latest
//
// # Thread Safety
//
// All store operations are safe for concurrent use. Saves and deletes take
// the write lock; loads and listings share the read lock.
package storage
