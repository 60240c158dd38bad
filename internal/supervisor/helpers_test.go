// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package supervisor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
)

// testService runs until its context is cancelled, optionally failing a
// number of times first.
type testService struct {
	name     string
	starts   atomic.Int32
	failures atomic.Int32
	maxFails int32
	err      error
}

func newTestService(name string) *testService {
	return &testService{name: name}
}

func (s *testService) Serve(ctx context.Context) error {
	s.starts.Add(1)
	if s.maxFails > 0 && s.failures.Add(1) <= s.maxFails {
		return errors.New("simulated failure")
	}
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func (s *testService) String() string { return s.name }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
