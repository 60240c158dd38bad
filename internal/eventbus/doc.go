// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package eventbus fans accepted interactions and indexed content out to the
components that keep derived counters: the trend detector and the
popularity ranking.

The bus is an in-process Watermill GoChannel with a Router in front of the
handlers. Publishing blocks until every subscriber has acknowledged the
message, so once Publish returns the counters reflect the event.

# Middleware

Router middleware, outermost first:

  - drop: logs and counts a message whose handler still fails after the
    retries, then acknowledges it so the GoChannel does not redeliver it
    forever
  - Recoverer: converts handler panics into errors
  - Retry: exponential backoff for transient handler failures

# Lifecycle

Handlers are registered with OnInteraction and OnContent before Run. Until
the router is running, Publish dispatches to the registered handlers
inline. Startup replay and unit tests rely on that path. After Close,
Publish returns ErrClosed.
*/
package eventbus
