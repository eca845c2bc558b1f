package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"newsproof/backend/internal/engine"
	"newsproof/backend/internal/mock"
	"newsproof/backend/internal/verdict"
)

const feedCacheKey = "feed:daily"

type feedItemResponse struct {
	Title             string           `json:"title"`
	URL               string           `json:"url"`
	Source            string           `json:"source"`
	Category          verdict.Category `json:"category"`
	ConfidencePercent int              `json:"confidencePercent"`
	Summary           string           `json:"summary"`
	PublishedAt       string           `json:"publishedAt,omitempty"`
	Theme             verdict.Theme    `json:"theme"`
}

// Feed serves the pre-verified daily news list. Items arrive in whatever
// verdict and confidence scale the engine uses and are normalized here so the
// feed and individual checks render through one pipeline.
func (h Handler) Feed(w http.ResponseWriter, r *http.Request) {
	items, err := h.feedItems(r.Context())
	if err != nil {
		writeCheckError(w, err)
		return
	}

	out := make([]feedItemResponse, 0, len(items))
	for _, item := range items {
		category := verdict.ParseCategory(item.Verdict)
		out = append(out, feedItemResponse{
			Title:             strings.TrimSpace(item.Title),
			URL:               strings.TrimSpace(item.URL),
			Source:            strings.TrimSpace(item.Source),
			Category:          category,
			ConfidencePercent: verdict.ScalePercent(item.Confidence),
			Summary:           strings.TrimSpace(item.Summary),
			PublishedAt:       strings.TrimSpace(item.PublishedAt),
			Theme:             verdict.ThemeFor(category),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (h Handler) feedItems(ctx context.Context) ([]engine.FeedItem, error) {
	if !h.engine.Configured() {
		return mock.Feed(), nil
	}

	if cached, ok := h.cache.Get(ctx, feedCacheKey); ok {
		var items []engine.FeedItem
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	}

	items, err := h.engine.DailyNews(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(items); err == nil {
		h.cache.Set(ctx, feedCacheKey, string(encoded))
	}
	return items, nil
}
