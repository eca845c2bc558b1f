package verdict

import (
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const unrecognizedSummary = "The analysis service returned data in an unrecognized format. Showing a neutral placeholder verdict."

// Normalize maps any of the engine's response shapes onto the canonical
// display model. It never fails: a payload with no recognizable field at all
// degrades to a neutral mixed verdict instead of surfacing an error, because a
// partial display beats blocking the user.
//
// Field lookups are fallback chains rather than a strict schema. The engine
// has shipped at least three shapes (simple, fused, demo) and fields move
// between iterations; each chain also accepts the canonical field name so
// normalizing an already-canonical payload is a no-op.
func Normalize(raw []byte) Verdict {
	root := gjson.ParseBytes(raw)

	category, categoryFound := locateCategory(root)
	confidence, confidenceFound := locateConfidence(root)
	summary, summaryFound := locateSummary(root)
	evidenceValue, evidenceFound := locateEvidence(root)

	if !categoryFound && !confidenceFound && !summaryFound && !evidenceFound {
		return Verdict{
			Category:          CategoryMixed,
			ConfidencePercent: 0,
			Summary:           unrecognizedSummary,
			Evidence:          []EvidenceItem{},
		}
	}

	return Verdict{
		Category:          category,
		ConfidencePercent: confidence,
		Summary:           summary,
		Evidence:          normalizeEvidence(evidenceValue),
	}
}

func locateCategory(root gjson.Result) (Category, bool) {
	for _, key := range []string{"verdict", "final_verdict", "category"} {
		field := root.Get(key)
		if !field.Exists() {
			continue
		}
		return ParseCategory(field.String()), true
	}
	return CategoryMixed, false
}

// ParseCategory folds any verdict string onto the closed category set.
// Anything unrecognized is mixed, never an error.
func ParseCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryTrue:
		return CategoryTrue
	case CategoryFalse:
		return CategoryFalse
	default:
		return CategoryMixed
	}
}

func locateConfidence(root gjson.Result) (int, bool) {
	for _, key := range []string{"confidence", "final_confidence", "confidencePercent"} {
		field := root.Get(key)
		if field.Exists() && field.Type == gjson.Number {
			return ScalePercent(field.Float()), true
		}
	}

	// Fused payloads without a top-level score still carry per-model
	// confidences; average whichever are present.
	nested := []string{
		"fused_components.local_model.confidence",
		"fused_components.gemini_pipeline.confidence",
	}
	sum := 0.0
	found := 0
	for _, key := range nested {
		field := root.Get(key)
		if field.Exists() && field.Type == gjson.Number {
			sum += field.Float()
			found++
		}
	}
	if found > 0 {
		return ScalePercent(sum / float64(found)), true
	}

	return 0, false
}

func locateSummary(root gjson.Result) (string, bool) {
	for _, key := range []string{"summary", "fused_components.gemini_pipeline.summary"} {
		field := root.Get(key)
		if field.Exists() {
			return strings.TrimSpace(field.String()), true
		}
	}
	return "", false
}

func locateEvidence(root gjson.Result) (gjson.Result, bool) {
	for _, key := range []string{"evidence", "fused_components.gemini_pipeline.evidence"} {
		field := root.Get(key)
		if field.Exists() && field.IsArray() {
			return field, true
		}
	}
	return gjson.Result{}, false
}

func normalizeEvidence(items gjson.Result) []EvidenceItem {
	out := make([]EvidenceItem, 0, 4)
	items.ForEach(func(_, item gjson.Result) bool {
		out = append(out, normalizeEvidenceItem(item))
		return true
	})
	return out
}

func normalizeEvidenceItem(item gjson.Result) EvidenceItem {
	id := strings.TrimSpace(item.Get("id").String())
	if id == "" {
		id = uuid.NewString()
	}

	source := strings.TrimSpace(item.Get("source").String())
	if source == "" {
		source = strings.TrimSpace(item.Get("title").String())
	}

	content := strings.TrimSpace(item.Get("content").String())
	if content == "" {
		content = strings.TrimSpace(item.Get("description").String())
	}

	credibility := 0
	for _, key := range []string{"credibility", "credibilityPercent"} {
		field := item.Get(key)
		if field.Exists() && field.Type == gjson.Number {
			// Items arrive on different scales in different engine
			// iterations, so each one is rescaled on its own terms.
			credibility = ScalePercent(field.Float())
			break
		}
	}

	return EvidenceItem{
		ID:                 id,
		Source:             source,
		Link:               strings.TrimSpace(item.Get("link").String()),
		CredibilityPercent: credibility,
		Content:            content,
		Stance:             normalizeStance(item),
	}
}

func normalizeStance(item gjson.Result) Stance {
	for _, key := range []string{"stance", "supportVerdict"} {
		field := item.Get(key)
		if !field.Exists() {
			continue
		}
		switch field.Type {
		case gjson.True:
			return StanceSupporting
		case gjson.False:
			return StanceContradictory
		case gjson.String:
			switch Stance(strings.ToLower(strings.TrimSpace(field.String()))) {
			case StanceSupporting:
				return StanceSupporting
			case StanceContradictory:
				return StanceContradictory
			case StanceNeutral:
				return StanceNeutral
			}
		}
	}
	return StanceNeutral
}

// ScalePercent converts a score of unknown scale into an integer percentage.
// Values at or below 1.0 are treated as fractions; everything above is taken
// as a percentage already. An input of exactly 1 therefore means 100%, not 1%.
func ScalePercent(value float64) int {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	if value <= 1.0 {
		value *= 100
	}
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return int(math.Round(value))
}
