// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/logging"
	"github.com/tomtom215/resonance/internal/metrics"
	"github.com/tomtom215/resonance/internal/models"
)

// Topics.
const (
	TopicInteractions = "interactions.recorded"
	TopicContent      = "content.indexed"
)

const metadataCorrelationID = "correlation_id"

var (
	// ErrClosed is returned by Publish and Run after Close.
	ErrClosed = errors.New("event bus closed")

	// ErrAlreadyRunning is returned when handlers are registered after Run.
	ErrAlreadyRunning = errors.New("event bus already running")
)

// InteractionHandler consumes an accepted interaction.
type InteractionHandler func(ctx context.Context, e models.InteractionEvent) error

// ContentHandler consumes an indexed content vector.
type ContentHandler func(ctx context.Context, v models.ContentFeatureVector) error

// Config holds bus settings.
type Config struct {
	// BufferSize is the GoChannel output buffer per subscriber.
	BufferSize int64

	RetryCount           int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration

	// CloseTimeout bounds how long Close waits for in-flight handlers.
	CloseTimeout time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		BufferSize:           1024,
		RetryCount:           3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     2 * time.Second,
		CloseTimeout:         10 * time.Second,
	}
}

// handler is one registered consumer. Exactly one of the funcs is set.
type handler struct {
	name        string
	topic       string
	interaction InteractionHandler
	content     ContentHandler
}

// Bus is the in-process event bus.
type Bus struct {
	config Config
	logger zerolog.Logger

	pubsub *gochannel.GoChannel
	router *message.Router

	mu       sync.RWMutex
	handlers []handler
	started  bool

	closed atomic.Bool
}

// New creates a bus. Register handlers, then call Run.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func New(cfg Config, logger zerolog.Logger) (*Bus, error) {
	wmLogger := logging.NewWatermillAdapter(logger)

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            cfg.BufferSize,
		BlockPublishUntilSubscriberAck: true,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: cfg.CloseTimeout,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	b := &Bus{
		config: cfg,
		logger: logger.With().Str("component", "eventbus").Logger(),
		pubsub: pubsub,
		router: router,
	}

	// Middleware in order (outer to inner)
	router.AddMiddleware(b.drop)
	router.AddMiddleware(middleware.Recoverer)
	if cfg.RetryCount > 0 {
		retry := middleware.Retry{
			MaxRetries:      cfg.RetryCount,
			InitialInterval: cfg.RetryInitialInterval,
			MaxInterval:     cfg.RetryMaxInterval,
			Multiplier:      2.0,
			Logger:          wmLogger,
		}
		router.AddMiddleware(retry.Middleware)
	}

	return b, nil
}

// drop acknowledges messages whose handler failed after all retries. The
// GoChannel redelivers nacked messages indefinitely.
func (b *Bus) drop(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		topic := message.SubscribeTopicFromCtx(msg.Context())
		out, err := h(msg)
		metrics.RecordEventBusMessage(topic, err)
		if err != nil {
			b.logger.Error().Err(err).
				Str("topic", topic).
				Str("message_id", msg.UUID).
				Str("correlation_id", msg.Metadata.Get(metadataCorrelationID)).
				Msg("Dropping event after failed retries")
			return nil, nil
		}
		return out, nil
	}
}

// OnInteraction registers fn for accepted interactions.
func (b *Bus) OnInteraction(name string, fn InteractionHandler) error {
	return b.register(handler{name: name, topic: TopicInteractions, interaction: fn})
}

// OnContent registers fn for indexed content.
func (b *Bus) OnContent(name string, fn ContentHandler) error {
	return b.register(handler{name: name, topic: TopicContent, content: fn})
}

func (b *Bus) register(h handler) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed.Load() {
		return ErrClosed
	}
	if b.started {
		return ErrAlreadyRunning
	}

	b.router.AddConsumerHandler(h.name, h.topic, b.pubsub, func(msg *message.Message) error {
		return h.dispatch(msg)
	})
	b.handlers = append(b.handlers, h)
	return nil
}

// dispatch decodes msg and calls the handler.
func (h handler) dispatch(msg *message.Message) error {
	ctx := msg.Context()
	if id := msg.Metadata.Get(metadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}

	switch {
	case h.interaction != nil:
		var e models.InteractionEvent
		if err := json.Unmarshal(msg.Payload, &e); err != nil {
			return fmt.Errorf("decode interaction: %w", err)
		}
		return h.interaction(ctx, e)
	case h.content != nil:
		var v models.ContentFeatureVector
		if err := json.Unmarshal(msg.Payload, &v); err != nil {
			return fmt.Errorf("decode content: %w", err)
		}
		return h.content(ctx, v)
	}
	return nil
}

// PublishInteraction delivers e to every interaction handler.
func (b *Bus) PublishInteraction(ctx context.Context, e *models.InteractionEvent) error {
	return b.publish(ctx, TopicInteractions, e)
}

// PublishContent delivers v to every content handler.
func (b *Bus) PublishContent(ctx context.Context, v *models.ContentFeatureVector) error {
	return b.publish(ctx, TopicContent, v)
}

func (b *Bus) publish(ctx context.Context, topic string, payload interface{}) error {
	if b.closed.Load() {
		return ErrClosed
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic, err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.SetContext(ctx)
	if id := logging.CorrelationIDFromContext(ctx); id != "" {
		msg.Metadata.Set(metadataCorrelationID, id)
	}

	if !b.Running() {
		return b.dispatchInline(topic, msg)
	}

	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// dispatchInline runs the handlers for topic on the caller's goroutine.
func (b *Bus) dispatchInline(topic string, msg *message.Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var errs []error
	for _, h := range b.handlers {
		if h.topic != topic {
			continue
		}
		err := h.dispatch(msg)
		metrics.RecordEventBusMessage(topic, err)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", h.name, err))
		}
	}
	return errors.Join(errs...)
}

// Run starts the router and blocks until ctx is cancelled or Close is
// called.
func (b *Bus) Run(ctx context.Context) error {
	b.mu.Lock()
	if b.closed.Load() {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.started {
		b.mu.Unlock()
		return ErrAlreadyRunning
	}
	b.started = true
	b.mu.Unlock()

	b.logger.Info().Int("handlers", len(b.handlers)).Msg("Event bus starting")
	if err := b.router.Run(ctx); err != nil {
		return fmt.Errorf("event bus router: %w", err)
	}
	return nil
}

// Started returns a channel that closes once the router is running.
func (b *Bus) Started() <-chan struct{} {
	return b.router.Running()
}

// Running reports whether the router is processing messages.
func (b *Bus) Running() bool {
	return b.router.IsRunning()
}

// Close stops the router and the pub/sub. Safe to call more than once.
func (b *Bus) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	var errs []error
	if err := b.router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close router: %w", err))
	}
	if err := b.pubsub.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pubsub: %w", err))
	}
	b.logger.Info().Msg("Event bus closed")
	return errors.Join(errs...)
}

