// Package mock serves canned verification results when no live engine is
// configured, so the product can be demoed end to end without the scoring
// service. Responses deliberately use the demo wire shape (integer
// percentages, boolean supportVerdict) to exercise the same normalization
// path as live traffic.
package mock

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"strings"

	"newsproof/backend/internal/engine"
)

type demoEvidence struct {
	ID             string `json:"id"`
	Source         string `json:"source"`
	Credibility    int    `json:"credibility"`
	Content        string `json:"content"`
	SupportVerdict bool   `json:"supportVerdict"`
}

type demoAnalysis struct {
	Verdict    string         `json:"verdict"`
	Confidence int            `json:"confidence"`
	Summary    string         `json:"summary"`
	Evidence   []demoEvidence `json:"evidence"`
}

var demoAnalyses = []demoAnalysis{
	{
		Verdict:    "true",
		Confidence: 94,
		Summary:    "Article accurately represents scientific consensus on climate change with proper citations.",
		Evidence: []demoEvidence{
			{ID: "e1", Source: "IPCC 2021 Report", Credibility: 98, Content: "It is unequivocal that human influence has warmed the atmosphere, ocean and land.", SupportVerdict: true},
			{ID: "e2", Source: "NASA Climate Science", Credibility: 97, Content: "97% of climate scientists agree that climate-warming trends are extremely likely due to human activities.", SupportVerdict: true},
			{ID: "e3", Source: "Nature Journal Meta-Analysis", Credibility: 96, Content: "Comprehensive review confirms overwhelming scientific consensus on anthropogenic climate change.", SupportVerdict: true},
		},
	},
	{
		Verdict:    "false",
		Confidence: 98,
		Summary:    "No scientific evidence supports claims. Article uses manipulated data and fake testimonials.",
		Evidence: []demoEvidence{
			{ID: "e4", Source: "FDA Official Database", Credibility: 99, Content: "No such drug has been approved or is under clinical trial.", SupportVerdict: false},
			{ID: "e5", Source: "Medical Journal Review", Credibility: 95, Content: "Claims are scientifically implausible and contradict established medical knowledge.", SupportVerdict: false},
			{ID: "e6", Source: "Snopes Fact-Check", Credibility: 88, Content: "Testimonials traced to stock photos and fictional personas.", SupportVerdict: false},
		},
	},
	{
		Verdict:    "mixed",
		Confidence: 72,
		Summary:    "Article contains accurate data but cherry-picks statistics and omits contradictory evidence.",
		Evidence: []demoEvidence{
			{ID: "e7", Source: "Bureau of Economic Analysis", Credibility: 96, Content: "GDP growth figures match the official quarterly release.", SupportVerdict: true},
			{ID: "e8", Source: "Federal Reserve Bulletin", Credibility: 94, Content: "Employment trends cited omit the revised seasonally adjusted series.", SupportVerdict: false},
		},
	},
}

// Engine is a drop-in stand-in for the live verification engine client.
type Engine struct{}

func NewEngine() Engine {
	return Engine{}
}

// Analyze picks a canned analysis deterministically from the input so
// repeated demo submissions stay stable.
func (Engine) Analyze(_ context.Context, _, inputValue string) (json.RawMessage, error) {
	analysis := demoAnalyses[pick(inputValue, len(demoAnalyses))]
	encoded, err := json.Marshal(analysis)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}

// Explain derives stable pseudo-weights from the input words. Short words
// and stop words stay below the highlight threshold.
func (Engine) Explain(_ context.Context, _, inputValue string) ([]engine.WordWeight, error) {
	words := strings.Fields(inputValue)
	weights := make([]engine.WordWeight, 0, len(words))
	seen := make(map[string]struct{}, len(words))

	for _, word := range words {
		token := strings.ToLower(strings.Trim(word, ".,:;!?\"'()"))
		if len(token) < 5 {
			continue
		}
		if _, done := seen[token]; done {
			continue
		}
		seen[token] = struct{}{}
		weights = append(weights, engine.WordWeight{Word: token, Weight: pseudoWeight(token)})
	}
	return weights, nil
}

func (Engine) Name() string {
	return "mock"
}

// Feed is the demo daily-news list served when no engine is configured.
func Feed() []engine.FeedItem {
	items := make([]engine.FeedItem, 0, len(demoAnalyses))
	titles := []string{
		"Climate Scientists Agree on Human-Caused Warming",
		"New Miracle Drug Cures All Diseases",
		"Economic Report Shows Mixed Recovery Signals",
	}
	urls := []string{
		"https://example.com/climate-article",
		"https://example.com/miracle-drug",
		"https://example.com/economy-report",
	}
	sources := []string{"Science Daily Wire", "Health Buzz Blog", "Market Observer"}
	dates := []string{"2025-10-14", "2025-10-13", "2025-10-12"}

	for i, analysis := range demoAnalyses {
		items = append(items, engine.FeedItem{
			Title:       titles[i],
			URL:         urls[i],
			Source:      sources[i],
			Verdict:     analysis.Verdict,
			Confidence:  float64(analysis.Confidence),
			Summary:     analysis.Summary,
			PublishedAt: dates[i],
		})
	}
	return items
}

func pick(input string, n int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(input))))
	return int(h.Sum32() % uint32(n))
}

// pseudoWeight maps a token onto [-0.9, 0.9] with a stable hash.
func pseudoWeight(token string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	return (float64(h.Sum32()%181) - 90) / 100
}
