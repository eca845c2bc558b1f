package verdict

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	minHighlightWeight = 0.1
	maxHighlightWeight = 0.9
	intensityBuckets   = 9
)

var tokenPattern = regexp.MustCompile(`\w+|[^\w\s]+|\s+`)

// Span is one run of the highlighted article text. Class is empty for
// whitespace, punctuation and words with negligible influence.
type Span struct {
	Text   string  `json:"text"`
	Class  string  `json:"class,omitempty"`
	Weight float64 `json:"weight,omitempty"`
}

// HighlightClass selects the background class for one influence weight.
// Hue follows the sign (positive weights affirm the verdict, negative weights
// dispute it) and opacity follows the magnitude, discretized into nine steps
// so the SPA only needs a fixed set of classes. Weights below the first step
// get no highlight at all.
func HighlightClass(weight float64) string {
	bucket := intensityBucket(weight)
	if bucket == 0 {
		return ""
	}
	hue := "red"
	if weight > 0 {
		hue = "green"
	}
	return fmt.Sprintf("bg-%s-500/%d", hue, bucket*10)
}

func intensityBucket(weight float64) int {
	magnitude := math.Abs(weight)
	if magnitude < minHighlightWeight {
		return 0
	}
	if magnitude > maxHighlightWeight {
		magnitude = maxHighlightWeight
	}
	step := (maxHighlightWeight - minHighlightWeight) / intensityBuckets
	bucket := int((magnitude-minHighlightWeight)/step) + 1
	if bucket > intensityBuckets {
		bucket = intensityBuckets
	}
	return bucket
}

// HighlightText splits the article into word, punctuation and whitespace
// runs and attaches the influence class of each word. Lookup ignores case
// and any punctuation glued to the token.
func HighlightText(text string, influences []WordInfluence) []Span {
	weights := make(map[string]float64, len(influences))
	for _, influence := range influences {
		key := cleanToken(influence.Word)
		if key == "" {
			continue
		}
		weights[key] = influence.Weight
	}

	tokens := tokenPattern.FindAllString(text, -1)
	spans := make([]Span, 0, len(tokens))
	for _, token := range tokens {
		weight, ok := weights[cleanToken(token)]
		if !ok {
			spans = append(spans, Span{Text: token})
			continue
		}
		spans = append(spans, Span{
			Text:   token,
			Class:  HighlightClass(weight),
			Weight: weight,
		})
	}
	return spans
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

func cleanToken(token string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(token), "")
}
