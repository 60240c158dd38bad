// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package models

import (
	"strings"
	"time"
)

// EventType is the kind of engagement a user had with a piece of content.
type EventType string

// Supported event types.
const (
	EventView    EventType = "view"
	EventLike    EventType = "like"
	EventComment EventType = "comment"
	EventShare   EventType = "share"
	EventFollow  EventType = "follow"
)

// EventTypes lists every supported event type in a stable order.
var EventTypes = []EventType{EventView, EventLike, EventComment, EventShare, EventFollow}

// ParseEventType converts a string to an EventType.
// Matching is case-insensitive; unknown values return a ValidationError.
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", NewValidationError("event_type", "unknown event type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the supported event types.
func (t EventType) Valid() bool {
	switch t {
	case EventView, EventLike, EventComment, EventShare, EventFollow:
		return true
	default:
		return false
	}
}

func (t EventType) String() string {
	return string(t)
}

// InteractionEvent is an immutable record of a user engaging with content.
// Sequence is assigned by the interaction store and is zero before recording.
type InteractionEvent struct {
	Sequence  uint64    `json:"sequence"`
	UserID    string    `json:"user_id"`
	ContentID string    `json:"content_id"`
	Type      EventType `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`

	// Weight overrides the event-type weight when set.
	Weight *float64 `json:"weight,omitempty"`
}

// EventWeights maps event types to their contribution in interaction matrices.
type EventWeights map[EventType]float64

// WeightOf returns the effective weight of an event: its explicit weight if
// present, otherwise the configured type weight.
func (w EventWeights) WeightOf(e *InteractionEvent) float64 {
	if e.Weight != nil {
		return *e.Weight
	}
	return w[e.Type]
}
