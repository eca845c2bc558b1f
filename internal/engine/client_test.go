package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"newsproof/backend/internal/config"
)

func newTestClient(serverURL string, httpClient *http.Client) Client {
	return NewClient(config.Config{
		EngineBaseURL:        serverURL,
		EngineTimeoutSeconds: 5,
	}, httpClient)
}

func TestAnalyzeReturnsRawBody(t *testing.T) {
	var receivedBody analyzeAPIRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/analyze" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&receivedBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"verdict":"true","confidence":0.91}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.Client())

	raw, err := client.Analyze(context.Background(), "text", "the moon landing happened")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if receivedBody.InputType != "text" || receivedBody.InputValue != "the moon landing happened" {
		t.Fatalf("unexpected request body: %+v", receivedBody)
	}
	if string(raw) != `{"verdict":"true","confidence":0.91}` {
		t.Fatalf("unexpected raw body: %s", raw)
	}
}

func TestAnalyzeMapsStructuredErrorToBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"No text or URL provided."}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.Client())

	_, err := client.Analyze(context.Background(), "text", "x")
	var backendErr BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
	if backendErr.Message != "No text or URL provided." {
		t.Fatalf("expected verbatim engine message, got %q", backendErr.Message)
	}
}

func TestAnalyzeMapsBareStatusToAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.Client())

	_, err := client.Analyze(context.Background(), "text", "x")
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", apiErr.StatusCode)
	}
}

func TestAnalyzeWithoutBaseURLReturnsErrNotConfigured(t *testing.T) {
	client := NewClient(config.Config{EngineTimeoutSeconds: 5}, nil)

	_, err := client.Analyze(context.Background(), "text", "x")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestExplainReturnsWeights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/explain" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"weights":[{"word":"fraud","weight":-0.82},{"word":"confirmed","weight":0.4}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.Client())

	weights, err := client.Explain(context.Background(), "text", "fraud confirmed")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if len(weights) != 2 {
		t.Fatalf("expected 2 weights, got %d", len(weights))
	}
	if weights[0].Word != "fraud" || weights[0].Weight != -0.82 {
		t.Fatalf("unexpected first weight: %+v", weights[0])
	}
}

func TestExplainSurfacesEmbeddedError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"model does not support explanations for URLs"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.Client())

	_, err := client.Explain(context.Background(), "url", "https://example.com")
	var backendErr BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected BackendError, got %v", err)
	}
}

func TestSourceCredibilityNotFoundDefaultsToNeutral(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.Client())

	score, err := client.SourceCredibility(context.Background(), "unknown-blog.example")
	if err != nil {
		t.Fatalf("source credibility: %v", err)
	}
	if score.CredibilityPercent != 50 {
		t.Fatalf("expected neutral 50%%, got %d", score.CredibilityPercent)
	}
	if score.Known {
		t.Fatal("404 must report the source as unknown")
	}
}

func TestSourceCredibilityScalesFractionalScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/source/reuters.com" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"domain":"reuters.com","credibility_score":0.93,"category":"news agency","last_updated":"2026-08-01"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.Client())

	score, err := client.SourceCredibility(context.Background(), "Reuters.com")
	if err != nil {
		t.Fatalf("source credibility: %v", err)
	}
	if score.CredibilityPercent != 93 {
		t.Fatalf("expected 93%%, got %d", score.CredibilityPercent)
	}
	if !score.Known {
		t.Fatal("expected a known source")
	}
	if score.Domain != "reuters.com" {
		t.Fatalf("expected lowercased domain, got %q", score.Domain)
	}
}

func TestDailyNewsDecodesFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
		  {"title":"Headline A","url":"https://news.example/a","source":"AP","verdict":"true","confidence":0.9,"summary":"ok"},
		  {"title":"Headline B","url":"https://news.example/b","source":"Blog","verdict":"false","confidence":0.7,"summary":"nope"}
		]`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, server.Client())

	items, err := client.DailyNews(context.Background())
	if err != nil {
		t.Fatalf("daily news: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Headline A" || items[1].Verdict != "false" {
		t.Fatalf("unexpected items: %+v", items)
	}
}
