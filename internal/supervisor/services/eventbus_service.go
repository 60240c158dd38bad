// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// EventRouter is a message router that runs until ctx is cancelled.
// A router cannot be restarted once it has stopped.
type EventRouter interface {
	Run(ctx context.Context) error
}

// EventBusService runs the event bus router under supervision.
//
// The watermill router cannot be restarted, so a router that stops on its
// own is reported with suture.ErrDoNotRestart. Publishers then fall back to
// dispatching handlers inline, which keeps counters current without the
// router.
type EventBusService struct {
	router EventRouter
	logger zerolog.Logger
}

// NewEventBusService creates a new event bus service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEventBusService(router EventRouter, logger zerolog.Logger) *EventBusService {
	return &EventBusService{
		router: router,
		logger: logger.With().Str("service", "eventbus").Logger(),
	}
}

// Serve implements suture.Service.
func (s *EventBusService) Serve(ctx context.Context) error {
	err := s.router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = errors.New("router stopped")
	}
	s.logger.Error().Err(err).Msg("event bus router stopped, handlers now run inline")
	return errors.Join(err, suture.ErrDoNotRestart)
}

// String returns the service name for logging.
func (s *EventBusService) String() string {
	return "event-bus"
}
