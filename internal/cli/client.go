// Resonance - Social Engagement Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package cli

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/resonance/internal/analytics"
	"github.com/tomtom215/resonance/internal/api"
	"github.com/tomtom215/resonance/internal/engagement"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/sentiment"
)

// RemoteError is an error envelope returned by the server.
type RemoteError struct {
	StatusCode int
	Code       string
	Message    string
	Details    map[string]interface{}
}

func (e *RemoteError) Error() string {
	if field, ok := e.Details["field"]; ok {
		return fmt.Sprintf("%s (%d): %s [field %v]", e.Code, e.StatusCode, e.Message, field)
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// envelope mirrors models.APIResponse with the payload left undecoded.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

// Client calls the Resonance HTTP API.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the server at baseURL. A non-empty
// adminToken is sent as a bearer token.
func NewClient(baseURL, adminToken string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)
	if adminToken != "" {
		c.SetAuthToken(adminToken)
	}
	return &Client{http: c}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("%s %s: unexpected response (status %d): %w", method, path, resp.StatusCode(), err)
	}
	if env.Error != nil || resp.IsError() {
		re := &RemoteError{StatusCode: resp.StatusCode(), Code: "HTTP_ERROR", Message: resp.Status()}
		if env.Error != nil {
			re.Code, re.Message, re.Details = env.Error.Code, env.Error.Message, env.Error.Details
		}
		return re
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func limitQuery(q url.Values, key string, v int) url.Values {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
	return q
}

// Ingest records an interaction and returns its sequence number.
func (c *Client) Ingest(ctx context.Context, in analytics.InteractionInput) (uint64, error) {
	var out api.IngestResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/interactions", nil, in, &out)
	return out.Sequence, err
}

// Index indexes a piece of content.
func (c *Client) Index(ctx context.Context, in analytics.ContentInput) error {
	return c.do(ctx, http.MethodPost, "/api/v1/content", nil, in, nil)
}

// Recommend fetches recommendations for a user.
func (c *Client) Recommend(ctx context.Context, userID, kind string, limit int) (*models.Recommendations, error) {
	q := url.Values{}
	if kind != "" {
		q.Set("kind", kind)
	}
	var out models.Recommendations
	err := c.do(ctx, http.MethodGet, "/api/v1/recommendations/"+url.PathEscape(userID), limitQuery(q, "limit", limit), nil, &out)
	return &out, err
}

// Similar fetches the items most similar to contentID.
func (c *Client) Similar(ctx context.Context, contentID string, limit int) ([]models.ScoredID, error) {
	var out []models.ScoredID
	err := c.do(ctx, http.MethodGet, "/api/v1/content/"+url.PathEscape(contentID)+"/similar", limitQuery(url.Values{}, "limit", limit), nil, &out)
	return out, err
}

// Sentiment scores text.
func (c *Client) Sentiment(ctx context.Context, text string) (sentiment.Result, error) {
	var out sentiment.Result
	err := c.do(ctx, http.MethodPost, "/api/v1/analyze/sentiment", nil, analytics.TextInput{Text: text}, &out)
	return out, err
}

// Moderate checks text against the moderation rules.
func (c *Client) Moderate(ctx context.Context, text string) (sentiment.ModerationResult, error) {
	var out sentiment.ModerationResult
	err := c.do(ctx, http.MethodPost, "/api/v1/analyze/moderation", nil, analytics.TextInput{Text: text}, &out)
	return out, err
}

// Predict estimates the engagement of a draft.
func (c *Client) Predict(ctx context.Context, in analytics.PredictionInput) (engagement.Prediction, error) {
	var out engagement.Prediction
	err := c.do(ctx, http.MethodPost, "/api/v1/predict/engagement", nil, in, &out)
	return out, err
}

// Behavior fetches a user's behavior profile.
func (c *Client) Behavior(ctx context.Context, userID string) (models.BehaviorProfile, error) {
	var out models.BehaviorProfile
	err := c.do(ctx, http.MethodGet, "/api/v1/users/"+url.PathEscape(userID)+"/behavior", nil, nil, &out)
	return out, err
}

// Trending fetches trending tags.
func (c *Client) Trending(ctx context.Context, windowHours, limit int) ([]models.TrendWindow, error) {
	q := limitQuery(limitQuery(url.Values{}, "window_hours", windowHours), "limit", limit)
	var out []models.TrendWindow
	err := c.do(ctx, http.MethodGet, "/api/v1/trending", q, nil, &out)
	return out, err
}

// Retrain starts a model rebuild.
func (c *Client) Retrain(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/admin/retrain", nil, nil, nil)
}

// Model fetches the model lifecycle status.
func (c *Client) Model(ctx context.Context) (recommend.Status, error) {
	var out recommend.Status
	err := c.do(ctx, http.MethodGet, "/api/v1/admin/model", nil, nil, &out)
	return out, err
}

// Health fetches the server health report.
func (c *Client) Health(ctx context.Context) (api.HealthStatus, error) {
	var out api.HealthStatus
	err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out)
	return out, err
}
