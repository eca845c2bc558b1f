package check

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"newsproof/backend/internal/cache"
	"newsproof/backend/internal/engine"
	"newsproof/backend/internal/store"
	"newsproof/backend/internal/verdict"
)

type InputType string

const (
	InputText InputType = "text"
	InputURL  InputType = "url"
)

var (
	ErrEmptyInput       = errors.New("input is required")
	ErrInvalidURL       = errors.New("input must be an http or https url")
	ErrInvalidInputType = errors.New("input type must be text or url")
	ErrBusy             = errors.New("a submission is already in flight")
)

// Analyzer is the verification engine seen from the controller: the live
// HTTP client or the bundled demo engine, chosen at startup.
type Analyzer interface {
	Analyze(ctx context.Context, inputType, inputValue string) (json.RawMessage, error)
	Explain(ctx context.Context, inputType, inputValue string) ([]engine.WordWeight, error)
	Name() string
}

// Result is one completed submission, ready to render.
type Result struct {
	ID                     string          `json:"id"`
	InputType              InputType       `json:"inputType"`
	InputValue             string          `json:"inputValue"`
	Verdict                verdict.Verdict `json:"verdict"`
	Theme                  verdict.Theme   `json:"theme"`
	Engine                 string          `json:"engine"`
	ExplanationUnavailable bool            `json:"explanationUnavailable"`
	Cached                 bool            `json:"cached"`
}

type Service struct {
	analyzer Analyzer
	history  *store.Store
	cache    cache.Cache
	inFlight atomic.Bool
}

// NewService wires the controller. history may be nil; submissions still
// complete, they just leave no trace.
func NewService(analyzer Analyzer, history *store.Store, c cache.Cache) *Service {
	return &Service{analyzer: analyzer, history: history, cache: c}
}

// Submit validates and runs one submission end to end: analyze, normalize,
// then a best-effort explanation pass over the same input. Only one
// submission may be in flight at a time; the UI disables its submit control
// during that window and ErrBusy backstops anything that slips through.
// There is no automatic retry; a failed submission is reported and the user
// decides.
func (s *Service) Submit(ctx context.Context, inputType InputType, rawValue string) (Result, error) {
	value := strings.TrimSpace(rawValue)
	if value == "" {
		return Result{}, ErrEmptyInput
	}

	switch inputType {
	case InputText:
	case InputURL:
		if !isHTTPURL(value) {
			return Result{}, ErrInvalidURL
		}
	default:
		return Result{}, ErrInvalidInputType
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrBusy
	}
	defer s.inFlight.Store(false)

	key := cache.AnalyzeKey(string(inputType), value)
	raw, cached := s.cachedAnalysis(ctx, key)
	if !cached {
		var err error
		raw, err = s.analyzer.Analyze(ctx, string(inputType), value)
		if err != nil {
			return Result{}, err
		}
		s.cache.Set(ctx, key, string(raw))
	}

	normalized := verdict.Normalize(raw)

	// The explanation pass is strictly sequential and strictly optional:
	// its failure must never take down the verdict already in hand.
	explanationUnavailable := false
	weights, err := s.analyzer.Explain(ctx, string(inputType), value)
	if err != nil {
		log.Printf("explain failed for %s submission: %v", inputType, err)
		explanationUnavailable = true
	} else {
		normalized.WordInfluences = toWordInfluences(weights)
	}

	result := Result{
		ID:                     uuid.NewString(),
		InputType:              inputType,
		InputValue:             value,
		Verdict:                normalized,
		Theme:                  verdict.ThemeFor(normalized.Category),
		Engine:                 s.analyzer.Name(),
		ExplanationUnavailable: explanationUnavailable,
		Cached:                 cached,
	}

	if s.history != nil {
		if err := s.history.SaveCheck(ctx, store.Check{
			ID:                     result.ID,
			InputType:              string(result.InputType),
			InputValue:             result.InputValue,
			Verdict:                result.Verdict,
			Engine:                 result.Engine,
			ExplanationUnavailable: result.ExplanationUnavailable,
		}); err != nil {
			// History is a convenience; the verdict still renders.
			log.Printf("save check %s: %v", result.ID, err)
		}
	}

	return result, nil
}

func (s *Service) cachedAnalysis(ctx context.Context, key string) (json.RawMessage, bool) {
	value, ok := s.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}
	return json.RawMessage(value), true
}

func toWordInfluences(weights []engine.WordWeight) []verdict.WordInfluence {
	if weights == nil {
		return nil
	}
	out := make([]verdict.WordInfluence, 0, len(weights))
	for _, weight := range weights {
		word := strings.TrimSpace(weight.Word)
		if word == "" {
			continue
		}
		out = append(out, verdict.WordInfluence{Word: word, Weight: clampWeight(weight.Weight)})
	}
	return out
}

func clampWeight(weight float64) float64 {
	if weight < -1 {
		return -1
	}
	if weight > 1 {
		return 1
	}
	return weight
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

// ParseInputType maps the wire value onto the two supported modes.
func ParseInputType(raw string) (InputType, error) {
	switch InputType(strings.ToLower(strings.TrimSpace(raw))) {
	case InputText:
		return InputText, nil
	case InputURL:
		return InputURL, nil
	default:
		return "", ErrInvalidInputType
	}
}
