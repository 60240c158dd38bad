// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/resonance/internal/analytics"
	"github.com/tomtom215/resonance/internal/engagement"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/persist"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/sentiment"
	"github.com/tomtom215/resonance/internal/validation"
)

// fakeService records inputs and returns canned results.
type fakeService struct {
	mu sync.Mutex

	err        error
	retrainOK  bool
	lastIngest analytics.InteractionInput
	lastRec    analytics.RecommendationInput
	lastTrend  [2]int
	lastText   string
	lastLimit  int
}

func (f *fakeService) IngestInteraction(_ context.Context, in analytics.InteractionInput) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastIngest = in
	if f.err != nil {
		return 0, f.err
	}
	if err := validation.Struct(&in); err != nil {
		return 0, err
	}
	return 7, nil
}

func (f *fakeService) IndexContent(_ context.Context, _ analytics.ContentInput) error {
	return f.err
}

func (f *fakeService) GetRecommendations(_ context.Context, in analytics.RecommendationInput) (*models.Recommendations, error) {
	f.mu.Lock()
	f.lastRec = in
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &models.Recommendations{
		UserID: in.UserID,
		Kind:   models.KindContent,
		Source: models.SourcePopularity,
		Items:  []models.ScoredID{{ID: "c1", Score: 1}},
	}, nil
}

func (f *fakeService) SimilarContent(_ context.Context, _ string, limit int) ([]models.ScoredID, error) {
	f.mu.Lock()
	f.lastLimit = limit
	f.mu.Unlock()
	return []models.ScoredID{}, f.err
}

func (f *fakeService) AnalyzeSentiment(_ context.Context, text string) (sentiment.Result, error) {
	f.mu.Lock()
	f.lastText = text
	f.mu.Unlock()
	return sentiment.Result{Label: sentiment.LabelPositive, Sentiment: 0.5}, f.err
}

func (f *fakeService) ModerateContent(_ context.Context, _ string) (sentiment.ModerationResult, error) {
	return sentiment.ModerationResult{Flagged: true, Action: sentiment.ActionReview}, f.err
}

func (f *fakeService) PredictEngagement(_ context.Context, _ analytics.PredictionInput) (engagement.Prediction, error) {
	return engagement.Prediction{PredictedLikes: 12, Basis: engagement.BasisBaseline}, f.err
}

func (f *fakeService) GetUserBehavior(_ context.Context, userID string) (models.BehaviorProfile, error) {
	if f.err != nil {
		return models.BehaviorProfile{}, f.err
	}
	return models.BehaviorProfile{UserID: userID}, nil
}

func (f *fakeService) GetTrending(_ context.Context, windowHours, limit int) ([]models.TrendWindow, error) {
	f.mu.Lock()
	f.lastTrend = [2]int{windowHours, limit}
	f.mu.Unlock()
	return []models.TrendWindow{}, f.err
}

func (f *fakeService) TriggerRetrain(_ context.Context) bool { return f.retrainOK }

func (f *fakeService) ModelStatus() recommend.Status { return recommend.Status{State: "ready", Version: 3} }

func (f *fakeService) Stats() analytics.Stats { return analytics.Stats{Users: 2, Interactions: 5} }

type fakeStorage struct{ state string }

func (s fakeStorage) BreakerState() string { return s.state }

func newTestServer(svc *fakeService, storage StorageHealth, mw *ChiMiddlewareConfig) http.Handler {
	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}
	h := NewHandler(svc, storage, HandlerConfig{Version: "test", MaxBodyBytes: 256})
	return NewRouter(h, NewChiMiddleware(mw)).SetupChi()
}

func do(t *testing.T, srv http.Handler, method, target, body string, header map[string]string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var resp models.APIResponse
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestRoutes_StatusAndEnvelope(t *testing.T) {
	srv := newTestServer(&fakeService{retrainOK: true}, fakeStorage{state: "closed"}, nil)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		want   int
	}{
		{"ingest", http.MethodPost, "/api/v1/interactions", `{"user_id":"u1","content_id":"c1","event_type":"like"}`, http.StatusCreated},
		{"index", http.MethodPost, "/api/v1/content", `{"content_id":"c1","text":"hello #world"}`, http.StatusCreated},
		{"similar", http.MethodGet, "/api/v1/content/c1/similar?limit=5", "", http.StatusOK},
		{"recommendations", http.MethodGet, "/api/v1/recommendations/u1?kind=content&limit=3", "", http.StatusOK},
		{"sentiment", http.MethodPost, "/api/v1/analyze/sentiment", `{"text":"great day"}`, http.StatusOK},
		{"moderation", http.MethodPost, "/api/v1/analyze/moderation", `{"text":"buy now"}`, http.StatusOK},
		{"predict", http.MethodPost, "/api/v1/predict/engagement", `{"text":"draft #tag"}`, http.StatusOK},
		{"behavior", http.MethodGet, "/api/v1/users/u1/behavior", "", http.StatusOK},
		{"trending", http.MethodGet, "/api/v1/trending?window_hours=6&limit=10", "", http.StatusOK},
		{"retrain", http.MethodPost, "/api/v1/admin/retrain", "", http.StatusAccepted},
		{"model", http.MethodGet, "/api/v1/admin/model", "", http.StatusOK},
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"live", http.MethodGet, "/health/live", "", http.StatusOK},
		{"ready", http.MethodGet, "/health/ready", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, srv, tt.method, tt.target, tt.body, nil)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if resp.Status != "success" || resp.Error != nil {
				t.Errorf("envelope = %+v, want success", resp)
			}
			if resp.Metadata.RequestID == "" {
				t.Error("metadata.request_id should be set")
			}
		})
	}
}

func TestRoutes_PassParameters(t *testing.T) {
	svc := &fakeService{}
	srv := newTestServer(svc, nil, nil)

	do(t, srv, http.MethodGet, "/api/v1/recommendations/alice?kind=users&limit=4", "", nil)
	if svc.lastRec.UserID != "alice" || svc.lastRec.Kind != "users" || svc.lastRec.Limit != 4 {
		t.Errorf("recommendation input = %+v", svc.lastRec)
	}

	do(t, srv, http.MethodGet, "/api/v1/trending?window_hours=12", "", nil)
	if svc.lastTrend != [2]int{12, 0} {
		t.Errorf("trending args = %v, want [12 0]", svc.lastTrend)
	}

	do(t, srv, http.MethodGet, "/api/v1/content/c9/similar", "", nil)
	if svc.lastLimit != 0 {
		t.Errorf("similar limit = %d, want 0 so the default applies", svc.lastLimit)
	}

	do(t, srv, http.MethodPost, "/api/v1/analyze/sentiment", `{"text":"so good"}`, nil)
	if svc.lastText != "so good" {
		t.Errorf("sentiment text = %q", svc.lastText)
	}
}

func TestRoutes_Errors(t *testing.T) {
	tests := []struct {
		name     string
		svcErr   error
		method   string
		target   string
		body     string
		want     int
		wantCode string
	}{
		{
			name: "validation from struct tags", method: http.MethodPost, target: "/api/v1/interactions",
			body: `{"user_id":"u1","content_id":"c1","event_type":"bookmark"}`,
			want: http.StatusBadRequest, wantCode: ErrCodeValidation,
		},
		{
			name: "validation from the engine", svcErr: models.NewValidationError("limit", "must be between 1 and 100"),
			method: http.MethodGet, target: "/api/v1/recommendations/u1?limit=500",
			want: http.StatusBadRequest, wantCode: ErrCodeValidation,
		},
		{
			name: "non-integer query", method: http.MethodGet, target: "/api/v1/trending?limit=ten",
			want: http.StatusBadRequest, wantCode: ErrCodeValidation,
		},
		{
			name: "zero limit", method: http.MethodGet, target: "/api/v1/content/c1/similar?limit=0",
			want: http.StatusBadRequest, wantCode: ErrCodeValidation,
		},
		{
			name: "unknown user", svcErr: models.NewNotFoundError("user", "ghost"),
			method: http.MethodGet, target: "/api/v1/users/ghost/behavior",
			want: http.StatusNotFound, wantCode: ErrCodeNotFound,
		},
		{
			name: "storage unavailable", svcErr: fmt.Errorf("journal event 1: %w", persist.ErrUnavailable),
			method: http.MethodPost, target: "/api/v1/content", body: `{"content_id":"c1","text":"x"}`,
			want: http.StatusServiceUnavailable, wantCode: ErrCodeServiceUnavailable,
		},
		{
			name: "internal", svcErr: fmt.Errorf("disk on fire"),
			method: http.MethodGet, target: "/api/v1/trending",
			want: http.StatusInternalServerError, wantCode: ErrCodeInternal,
		},
		{
			name: "timeout", svcErr: context.DeadlineExceeded,
			method: http.MethodGet, target: "/api/v1/users/u1/behavior",
			want: http.StatusGatewayTimeout, wantCode: ErrCodeTimeout,
		},
		{
			name: "malformed json", method: http.MethodPost, target: "/api/v1/analyze/sentiment",
			body: `{"text":`, want: http.StatusBadRequest, wantCode: ErrCodeInvalidJSON,
		},
		{
			name: "unknown field", method: http.MethodPost, target: "/api/v1/analyze/sentiment",
			body: `{"text":"hi","mood":"happy"}`, want: http.StatusBadRequest, wantCode: ErrCodeInvalidJSON,
		},
		{
			name: "trailing data", method: http.MethodPost, target: "/api/v1/analyze/sentiment",
			body: `{"text":"hi"}{"text":"again"}`, want: http.StatusBadRequest, wantCode: ErrCodeInvalidJSON,
		},
		{
			name: "body too large", method: http.MethodPost, target: "/api/v1/analyze/sentiment",
			body: `{"text":"` + strings.Repeat("a", 300) + `"}`, want: http.StatusRequestEntityTooLarge, wantCode: ErrCodePayloadTooLarge,
		},
		{
			name: "body too large on ingest", method: http.MethodPost, target: "/api/v1/interactions",
			body: `{"user_id":"` + strings.Repeat("u", 400) + `","content_id":"c1","event_type":"like"}`,
			want: http.StatusRequestEntityTooLarge, wantCode: ErrCodePayloadTooLarge,
		},
		{
			name: "empty body", method: http.MethodPost, target: "/api/v1/analyze/sentiment",
			body: "   ", want: http.StatusBadRequest, wantCode: ErrCodeInvalidJSON,
		},
		{
			name: "unknown route", method: http.MethodGet, target: "/api/v1/nope",
			want: http.StatusNotFound, wantCode: ErrCodeNotFound,
		},
		{
			name: "wrong method", method: http.MethodDelete, target: "/api/v1/trending",
			want: http.StatusMethodNotAllowed, wantCode: ErrCodeMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeService{err: tt.svcErr}, nil, nil)
			rec, resp := do(t, srv, tt.method, tt.target, tt.body, nil)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if resp.Status != "error" || resp.Error == nil || resp.Error.Code != tt.wantCode {
				t.Errorf("error envelope = %+v, want code %s", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestRoutes_InternalErrorIsNotLeaked(t *testing.T) {
	srv := newTestServer(&fakeService{err: fmt.Errorf("secret path /var/db")}, nil, nil)
	rec, _ := do(t, srv, http.MethodGet, "/api/v1/trending", "", nil)
	if strings.Contains(rec.Body.String(), "secret") {
		t.Errorf("internal error text leaked: %s", rec.Body.String())
	}
}

func TestAdminAuth(t *testing.T) {
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	mw.AdminToken = "s3cret"
	srv := newTestServer(&fakeService{retrainOK: true}, nil, mw)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic s3cret", http.StatusUnauthorized},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer s3cret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			rec, _ := do(t, srv, http.MethodGet, "/api/v1/admin/model", "", headers)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}

	// Non-admin routes stay open.
	rec, _ := do(t, srv, http.MethodGet, "/api/v1/trending", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("trending status = %d, want 200 without a token", rec.Code)
	}
}

func TestRetrain_AlreadyRunning(t *testing.T) {
	srv := newTestServer(&fakeService{retrainOK: false}, nil, nil)
	rec, resp := do(t, srv, http.MethodPost, "/api/v1/admin/retrain", "", nil)
	if rec.Code != http.StatusConflict || resp.Error.Code != ErrCodeRetrainInProgress {
		t.Errorf("status = %d, error = %+v", rec.Code, resp.Error)
	}
}

func TestHealth_DegradedStorage(t *testing.T) {
	srv := newTestServer(&fakeService{}, fakeStorage{state: "open"}, nil)

	rec, resp := do(t, srv, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok || data["status"] != "degraded" || data["storage"] != "open" {
		t.Errorf("health data = %+v, want degraded", resp.Data)
	}

	rec, _ = do(t, srv, http.MethodGet, "/health/ready", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status = %d, want 503", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 2
	mw.RateLimitWindow = time.Minute
	srv := newTestServer(&fakeService{}, nil, mw)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec, _ := do(t, srv, http.MethodGet, "/api/v1/trending", "", nil)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v, want [200 200 429]", codes)
	}

	// Health checks are not rate limited.
	rec, _ := do(t, srv, http.MethodGet, "/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d, want 200", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeService{}, nil, nil)
	do(t, srv, http.MethodGet, "/api/v1/trending", "", nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "resonance_api_requests_total") {
		t.Error("metrics output should include the API request counter")
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(&fakeService{}, nil, nil)
	rec, _ := do(t, srv, http.MethodGet, "/api/v1/trending", "", map[string]string{"X-Forwarded-Proto": "https"})

	for header, want := range map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Strict-Transport-Security": "max-age=31536000; includeSubDomains",
		"Cache-Control":             "no-store",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
}
