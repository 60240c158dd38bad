// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package logging provides centralized zerolog-based logging for Resonance.

Every component logs through zerolog. Libraries that bring their own
logging interface are bridged onto the same stream:

  - SlogHandler adapts log/slog (used by sutureslog for supervisor events)
  - WatermillAdapter adapts watermill.LoggerAdapter (event bus router)

# Quick Start

	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})

	logging.Info().Msg("Server starting")
	logging.Err(err).Msg("Snapshot save failed")
	logging.Ctx(ctx).Info().Str("user_id", id).Msg("Recommendations served")

Components receive a zerolog.Logger by value, usually built with
WithComponent:

	engine := recommend.NewEngine(cfg, store, index, logging.WithComponent("recommend"))

Always terminate log chains with .Msg() or .Send(); an unterminated event
is never written.

# Configuration

LOG_LEVEL (trace, debug, info, warn, error), LOG_FORMAT (json, console)
and LOG_CALLER are read by internal/config and passed to Init.
*/
package logging
