package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newsproof/backend/internal/config"
	"newsproof/backend/internal/verdict"
)

const (
	maxErrorBodyBytes = 8 * 1024
	maxResponseBytes  = 4 * 1024 * 1024
)

var ErrNotConfigured = errors.New("verification engine is not configured")

// APIError is a transport-level failure: the engine answered with a non-2xx
// status and no structured error payload. Callers may offer a manual retry.
type APIError struct {
	StatusCode int
	Body       string
}

func (e APIError) Error() string {
	return fmt.Sprintf("engine returned %d: %s", e.StatusCode, e.Body)
}

// BackendError carries an error message the engine reported explicitly.
// The message is shown to the user verbatim.
type BackendError struct {
	Message string
}

func (e BackendError) Error() string {
	return e.Message
}

type FeedItem struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Source      string  `json:"source"`
	Verdict     string  `json:"verdict"`
	Confidence  float64 `json:"confidence"`
	Summary     string  `json:"summary"`
	PublishedAt string  `json:"publishedAt,omitempty"`
}

type SourceScore struct {
	Domain             string `json:"domain"`
	CredibilityPercent int    `json:"credibilityPercent"`
	Category           string `json:"category"`
	LastUpdated        string `json:"lastUpdated,omitempty"`
	Known              bool   `json:"known"`
}

type WordWeight struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.Config, httpClient *http.Client) Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(cfg.EngineTimeoutSeconds) * time.Second}
	}
	return Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.EngineBaseURL), "/"),
		httpClient: httpClient,
	}
}

func (c Client) Configured() bool {
	return c.baseURL != ""
}

func (c Client) Name() string {
	return "live"
}

type analyzeAPIRequest struct {
	InputType  string `json:"input_type"`
	InputValue string `json:"input_value"`
}

// Analyze submits the article and returns the raw response body. The engine
// has shipped several response shapes over time, so no schema is imposed
// here; normalization happens in the verdict package.
func (c Client) Analyze(ctx context.Context, inputType, inputValue string) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.postJSON(ctx, "/api/analyze", analyzeAPIRequest{
		InputType:  inputType,
		InputValue: inputValue,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read engine response: %w", err)
	}
	return body, nil
}

type explainAPIResponse struct {
	Weights []WordWeight `json:"weights"`
	Error   string       `json:"error"`
}

// Explain requests the per-word influence weights for a previously analyzed
// input. Failures here are expected to be swallowed by the caller; the
// primary verdict stays on screen either way.
func (c Client) Explain(ctx context.Context, inputType, inputValue string) ([]WordWeight, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.postJSON(ctx, "/api/explain", analyzeAPIRequest{
		InputType:  inputType,
		InputValue: inputValue,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var parsed explainAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode explain response: %w", err)
	}
	if strings.TrimSpace(parsed.Error) != "" {
		return nil, BackendError{Message: strings.TrimSpace(parsed.Error)}
	}
	return parsed.Weights, nil
}

func (c Client) DailyNews(ctx context.Context) ([]FeedItem, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.get(ctx, "/api/daily-news")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var items []FeedItem
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode daily news response: %w", err)
	}
	return items, nil
}

type sourceAPIResponse struct {
	Domain           string  `json:"domain"`
	CredibilityScore float64 `json:"credibility_score"`
	Category         string  `json:"category"`
	LastUpdated      string  `json:"last_updated"`
}

// SourceCredibility looks up the reputation of a news domain. An upstream 404
// means "never seen this source" and maps to a neutral 50% default rather
// than an error.
func (c Client) SourceCredibility(ctx context.Context, domain string) (SourceScore, error) {
	if !c.Configured() {
		return SourceScore{}, ErrNotConfigured
	}

	trimmed := strings.ToLower(strings.TrimSpace(domain))
	if trimmed == "" {
		return SourceScore{}, errors.New("domain is required")
	}

	resp, err := c.get(ctx, "/api/source/"+url.PathEscape(trimmed))
	if err != nil {
		return SourceScore{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return neutralSourceScore(trimmed), nil
	}
	if err := c.checkStatus(resp); err != nil {
		return SourceScore{}, err
	}

	var parsed sourceAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&parsed); err != nil {
		return SourceScore{}, fmt.Errorf("decode source response: %w", err)
	}

	category := strings.TrimSpace(parsed.Category)
	if category == "" {
		category = "unknown"
	}

	return SourceScore{
		Domain:             trimmed,
		CredibilityPercent: verdict.ScalePercent(parsed.CredibilityScore),
		Category:           category,
		LastUpdated:        strings.TrimSpace(parsed.LastUpdated),
		Known:              true,
	}, nil
}

func (c Client) AnalyticsSummary(ctx context.Context) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	resp, err := c.get(ctx, "/api/analytics/summary")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read analytics response: %w", err)
	}
	return body, nil
}

func (c Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal engine request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("build engine request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request engine: %w", err)
	}
	return resp, nil
}

func (c Client) get(ctx context.Context, path string) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build engine request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request engine: %w", err)
	}
	return resp, nil
}

// checkStatus closes nothing; callers own the body. A structured {"error"}
// payload wins over the bare status code so the user sees the engine's own
// message.
func (c Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	var parsed struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && strings.TrimSpace(parsed.Error) != "" {
		return BackendError{Message: strings.TrimSpace(parsed.Error)}
	}

	return APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func neutralSourceScore(domain string) SourceScore {
	return SourceScore{
		Domain:             domain,
		CredibilityPercent: 50,
		Category:           "unknown",
		Known:              false,
	}
}
