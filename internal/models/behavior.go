// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package models

import "time"

// EngagementLevel classifies a user's activity rate.
type EngagementLevel string

// Engagement levels.
const (
	EngagementHigh   EngagementLevel = "high"
	EngagementMedium EngagementLevel = "medium"
	EngagementLow    EngagementLevel = "low"
)

// ActivityTrend describes how a user's activity changed between the two
// halves of the lookback window.
type ActivityTrend string

// Activity trends.
const (
	TrendDeclining ActivityTrend = "declining"
	TrendStable    ActivityTrend = "stable"
	TrendGrowing   ActivityTrend = "growing"
)

// BehaviorProfile is recomputed on demand and superseded on each computation.
type BehaviorProfile struct {
	UserID          string          `json:"user_id"`
	ActivityRate    float64         `json:"activity_rate"`
	EngagementLevel EngagementLevel `json:"engagement_level"`
	ChurnRisk       float64         `json:"churn_risk"`
	LastComputedAt  time.Time       `json:"last_computed_at"`

	ActivityScore  float64           `json:"activity_score"`
	Trend          ActivityTrend     `json:"trend"`
	LastActiveAt   time.Time         `json:"last_active_at"`
	EventsInWindow int               `json:"events_in_window"`
	EventCounts    map[EventType]int `json:"event_counts"`
	ActiveHours    [24]int           `json:"active_hours"`
	PeakHours      []int             `json:"peak_hours"`
}
