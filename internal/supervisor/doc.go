// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package supervisor provides process supervision for Resonance using suture v4.

Long-running work is organized into a three-layer tree so a failure in one
layer never restarts another:

	RootSupervisor ("resonance")
	├── DataSupervisor ("data-layer")
	│   ├── CounterService (counter flush and prune)
	│   └── StorageGCService (BadgerDB value-log GC)
	├── ProcessingSupervisor ("processing-layer")
	│   ├── EventBusService (watermill router)
	│   └── RetrainService (snapshot rebuild scheduler)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog, and cmd/server bridges that slog logger onto
zerolog.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	errCh := tree.ServeBackground(ctx)

See the services subpackage for the wrappers.
*/
package supervisor
