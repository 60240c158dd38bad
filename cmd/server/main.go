// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/resonance/internal/api"
	"github.com/tomtom215/resonance/internal/config"
	"github.com/tomtom215/resonance/internal/logging"
	"github.com/tomtom215/resonance/internal/supervisor"
	"github.com/tomtom215/resonance/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server failed")
	}
	logging.Info().Msg("Application stopped gracefully")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	initLogging(cfg)
	watchLogging()

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("storage", cfg.Storage.Path).
		Bool("in_memory", cfg.Storage.InMemory).
		Msg("Starting Resonance")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	comps, err := buildComponents(cfg, logging.Logger())
	if err != nil {
		return err
	}
	defer comps.close()

	if err := comps.restore(ctx); err != nil {
		return err
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newRouter(cfg, comps).SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	addServices(tree, cfg, comps, server)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}
	return nil
}

func initLogging(cfg *config.Config) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.Format = cfg.Logging.Format
	logCfg.Caller = cfg.Logging.Caller
	logging.Init(logCfg)
}

// watchLogging reapplies the logging section when the config file changes.
// Other settings take effect on restart.
func watchLogging() {
	path := config.ConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		initLogging(cfg)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Logging configuration reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch disabled")
	}
}

func newRouter(cfg *config.Config, comps *components) *api.Router {
	handler := api.NewHandler(comps.service, comps.store, api.HandlerConfig{
		Version:        version,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		RequestTimeout: cfg.Server.Timeout,
	})

	mwCfg := api.DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mwCfg.RateLimitRequests = cfg.Security.RateLimitReqs
	mwCfg.RateLimitWindow = cfg.Security.RateLimitWindow
	mwCfg.RateLimitDisabled = cfg.Security.RateLimitDisabled
	mwCfg.AdminToken = cfg.Security.AdminToken

	return api.NewRouter(handler, api.NewChiMiddleware(mwCfg))
}

// addServices places every long-running task in its supervisor layer.
func addServices(tree *supervisor.SupervisorTree, cfg *config.Config, comps *components, server services.HTTPServer) {
	logger := logging.Logger()

	tree.AddDataService(services.NewCounterService(comps.service, services.CounterServiceConfig{
		FlushInterval: cfg.Storage.FlushInterval,
	}, logger))
	if !cfg.Storage.InMemory {
		tree.AddDataService(services.NewStorageGCService(comps.store, cfg.Storage.GCInterval, logger))
	}

	tree.AddProcessingService(services.NewEventBusService(comps.bus, logger))
	tree.AddProcessingService(services.NewRetrainService(comps.engine, services.RetrainServiceConfig{
		CheckInterval:  cfg.Retrain.CheckInterval,
		TrainOnStartup: cfg.Retrain.OnStartup,
	}, logger))

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
}
