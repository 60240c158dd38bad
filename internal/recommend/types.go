// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend/algorithms"
	"github.com/tomtom215/resonance/internal/recommend/storage"
)

// ErrNoSnapshot is returned by snapshot-only operations before the first
// successful build.
var ErrNoSnapshot = errors.New("no model snapshot available")

// State is the lifecycle state of the model snapshot.
type State int32

// Lifecycle states.
const (
	// StateCold means no snapshot has ever been built or loaded.
	StateCold State = iota
	// StateBuilding means a retrain is in progress.
	StateBuilding
	// StateReady means the active snapshot is fresh.
	StateReady
	// StateStale means the retrain interval elapsed; a rebuild is due.
	StateStale
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateCold:
		return "cold"
	case StateBuilding:
		return "building"
	case StateReady:
		return "ready"
	case StateStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable, versioned set of trained models. It is the
// unit of atomic replacement: readers load it once per request and never
// observe a partially built model.
type Snapshot struct {
	Version       int64
	BuiltAt       time.Time
	Collaborative *algorithms.CollaborativeModel
	Content       *algorithms.ContentModel
	Engagement    EngagementStats
	EventCount    int
	ContentCount  int
}

// ContentEngagement holds per-content event counts.
type ContentEngagement struct {
	Views    int `json:"views"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}

// EngagementStats summarizes observed engagement at build time. It feeds
// the engagement predictor.
type EngagementStats struct {
	PerContent map[string]ContentEngagement `json:"-"`

	// HighPerformers are the indexed content ids with the most weighted
	// engagement, best first.
	HighPerformers []string `json:"high_performers"`

	AvgLikes     float64 `json:"avg_likes"`
	TopAvgLikes  float64 `json:"top_avg_likes"`
	CommentRatio float64 `json:"comment_ratio"`
	ShareRatio   float64 `json:"share_ratio"`

	// ScoredItems is the number of indexed items with at least one event.
	ScoredItems int `json:"scored_items"`
}

// Request is a recommendation request.
type Request struct {
	UserID string
	Kind   models.RecommendationKind
	Limit  int

	// Now anchors recency decay and the popularity window. Zero uses the
	// engine clock.
	Now time.Time
}

// Status reports the engine lifecycle for operators.
type Status struct {
	State        string    `json:"state"`
	Version      int64     `json:"version"`
	BuiltAt      time.Time `json:"built_at,omitempty"`
	LastAttempt  time.Time `json:"last_attempt,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
	Users        int       `json:"users"`
	Items        int       `json:"items"`
	ContentItems int       `json:"content_items"`
	Events       int       `json:"events"`
}

// InteractionSource is the read side of the interaction store used by the
// engine.
type InteractionSource interface {
	Snapshot() []models.InteractionEvent
	HasUser(userID string) bool
	InteractedContent(userID string) map[string]struct{}
	UserHistory(userID string) []string
}

// ContentSource is the read side of the content index used by the engine.
type ContentSource interface {
	Snapshot() []*models.ContentFeatureVector
	Meta(id string) (models.ContentMeta, bool)
}

// PopularitySource ranks content and users by recent activity.
type PopularitySource interface {
	TopContent(now time.Time, window time.Duration, k int, exclude map[string]struct{}) []models.ScoredID
	TopUsers(now time.Time, window time.Duration, k int, exclude map[string]struct{}) []models.ScoredID
}

// SnapshotStore persists built snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, version int64, data interface{}, meta storage.Metadata) (*storage.Metadata, error)
	LoadLatest(ctx context.Context, target interface{}) (*storage.Metadata, error)
	Prune(ctx context.Context, keep int) (int, error)
}
