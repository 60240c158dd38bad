// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package middleware

import (
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/resonance/internal/logging"
)

// DefaultSlowRequestThreshold is the latency above which requests are logged.
const DefaultSlowRequestThreshold = time.Second

// RequestMetrics is one served request.
type RequestMetrics struct {
	Route      string
	Method     string
	Duration   time.Duration
	StatusCode int
	Timestamp  time.Time
}

// EndpointStats aggregates the retained samples of one route.
type EndpointStats struct {
	Endpoint     string  `json:"endpoint"`
	RequestCount int64   `json:"request_count"`
	ErrorCount   int64   `json:"error_count"`
	AvgMS        float64 `json:"avg_ms"`
	P50MS        int64   `json:"p50_ms"`
	P95MS        int64   `json:"p95_ms"`
	P99MS        int64   `json:"p99_ms"`
	MaxMS        int64   `json:"max_ms"`
}

// PerformanceMonitor keeps the most recent requests in a bounded window.
type PerformanceMonitor struct {
	mu         sync.RWMutex
	samples    []RequestMetrics
	next       int
	full       bool
	slowAfter  time.Duration
	totalCount map[string]int64
}

// NewPerformanceMonitor retains up to maxSamples requests.
func NewPerformanceMonitor(maxSamples int) *PerformanceMonitor {
	if maxSamples < 1 {
		maxSamples = 1
	}
	return &PerformanceMonitor{
		samples:    make([]RequestMetrics, maxSamples),
		slowAfter:  DefaultSlowRequestThreshold,
		totalCount: make(map[string]int64),
	}
}

// SetSlowThreshold changes the slow request log threshold. Zero disables it.
func (pm *PerformanceMonitor) SetSlowThreshold(d time.Duration) {
	pm.mu.Lock()
	pm.slowAfter = d
	pm.mu.Unlock()
}

// RecordRequest adds a sample, overwriting the oldest when full.
func (pm *PerformanceMonitor) RecordRequest(m *RequestMetrics) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.samples[pm.next] = *m
	pm.next++
	if pm.next == len(pm.samples) {
		pm.next = 0
		pm.full = true
	}
	pm.totalCount[endpointKey(m.Method, m.Route)]++
}

func endpointKey(method, route string) string {
	return method + " " + route
}

func (pm *PerformanceMonitor) retained() []RequestMetrics {
	if pm.full {
		return pm.samples
	}
	return pm.samples[:pm.next]
}

// Stats returns per-endpoint statistics over the retained samples, busiest
// first. RequestCount is the lifetime count.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	durations := make(map[string][]int64)
	errs := make(map[string]int64)
	for _, m := range pm.retained() {
		key := endpointKey(m.Method, m.Route)
		durations[key] = append(durations[key], m.Duration.Milliseconds())
		if m.StatusCode >= http.StatusInternalServerError {
			errs[key]++
		}
	}

	stats := make([]EndpointStats, 0, len(durations))
	for key, ds := range durations {
		sort.Slice(ds, func(i, j int) bool { return ds[i] < ds[j] })
		var sum int64
		for _, d := range ds {
			sum += d
		}
		stats = append(stats, EndpointStats{
			Endpoint:     key,
			RequestCount: pm.totalCount[key],
			ErrorCount:   errs[key],
			AvgMS:        float64(sum) / float64(len(ds)),
			P50MS:        percentile(ds, 0.50),
			P95MS:        percentile(ds, 0.95),
			P99MS:        percentile(ds, 0.99),
			MaxMS:        ds[len(ds)-1],
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].RequestCount != stats[j].RequestCount {
			return stats[i].RequestCount > stats[j].RequestCount
		}
		return stats[i].Endpoint < stats[j].Endpoint
	})
	return stats
}

// Middleware records every request and logs the slow ones.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := newStatusRecorder(w)
		next.ServeHTTP(rec, r)
		duration := time.Since(start)

		route := routePattern(r)
		pm.RecordRequest(&RequestMetrics{
			Route:      route,
			Method:     r.Method,
			Duration:   duration,
			StatusCode: rec.status,
			Timestamp:  start,
		})

		pm.mu.RLock()
		slowAfter := pm.slowAfter
		pm.mu.RUnlock()
		if slowAfter > 0 && duration > slowAfter {
			logging.Ctx(r.Context()).Warn().
				Str("method", r.Method).
				Str("route", route).
				Dur("duration", duration).
				Msg("Slow request detected")
		}
	})
}

// percentile reads the nearest-rank value from a sorted slice.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
