package verdict

import (
	"encoding/json"
	"testing"
)

func TestNormalizeSimpleShape(t *testing.T) {
	raw := []byte(`{
	  "verdict": "true",
	  "confidence": 0.94,
	  "summary": "X",
	  "evidence": [
	    {"id":"e1","source":"NASA","credibility":0.97,"content":"...","supportVerdict":true}
	  ]
	}`)

	out := Normalize(raw)

	if out.Category != CategoryTrue {
		t.Fatalf("unexpected category: %s", out.Category)
	}
	if out.ConfidencePercent != 94 {
		t.Fatalf("expected 94%%, got %d", out.ConfidencePercent)
	}
	if out.Summary != "X" {
		t.Fatalf("unexpected summary: %q", out.Summary)
	}
	if len(out.Evidence) != 1 {
		t.Fatalf("expected 1 evidence item, got %d", len(out.Evidence))
	}
	item := out.Evidence[0]
	if item.ID != "e1" || item.Source != "NASA" {
		t.Fatalf("unexpected evidence identity: %+v", item)
	}
	if item.CredibilityPercent != 97 {
		t.Fatalf("expected credibility 97%%, got %d", item.CredibilityPercent)
	}
	if item.Stance != StanceSupporting {
		t.Fatalf("expected supporting stance, got %s", item.Stance)
	}
}

func TestNormalizeFusedShape(t *testing.T) {
	raw := []byte(`{
	  "final_verdict": "mixed",
	  "final_confidence": 0.68,
	  "fused_components": {
	    "ai_probability": 0.12,
	    "gemini_pipeline": {"summary": "Y", "evidence": []}
	  }
	}`)

	out := Normalize(raw)

	if out.Category != CategoryMixed {
		t.Fatalf("unexpected category: %s", out.Category)
	}
	if out.ConfidencePercent != 68 {
		t.Fatalf("expected 68%%, got %d", out.ConfidencePercent)
	}
	if out.Summary != "Y" {
		t.Fatalf("unexpected summary: %q", out.Summary)
	}
	if len(out.Evidence) != 0 {
		t.Fatalf("expected empty evidence, got %d items", len(out.Evidence))
	}
}

func TestNormalizeFusedShapeFallsBackToNestedConfidences(t *testing.T) {
	raw := []byte(`{
	  "final_verdict": "false",
	  "fused_components": {
	    "local_model": {"verdict": "false", "confidence": 0.8},
	    "gemini_pipeline": {"verdict": "false", "confidence": 0.6, "evidence": []}
	  }
	}`)

	out := Normalize(raw)

	if out.ConfidencePercent != 70 {
		t.Fatalf("expected mean of nested confidences (70%%), got %d", out.ConfidencePercent)
	}
	if out.Category != CategoryFalse {
		t.Fatalf("unexpected category: %s", out.Category)
	}
}

func TestNormalizeDemoShapeKeepsPercentScale(t *testing.T) {
	raw := []byte(`{
	  "verdict": "false",
	  "confidence": 98,
	  "summary": "No scientific evidence supports claims.",
	  "evidence": [
	    {"id":"e4","source":"FDA Official Database","credibility":99,"content":"No such drug has been approved.","supportVerdict":false}
	  ]
	}`)

	out := Normalize(raw)

	if out.ConfidencePercent != 98 {
		t.Fatalf("expected 98%% unchanged, got %d", out.ConfidencePercent)
	}
	if out.Evidence[0].CredibilityPercent != 99 {
		t.Fatalf("expected credibility 99%% unchanged, got %d", out.Evidence[0].CredibilityPercent)
	}
	if out.Evidence[0].Stance != StanceContradictory {
		t.Fatalf("expected contradictory stance for supportVerdict=false, got %s", out.Evidence[0].Stance)
	}
}

func TestNormalizeMixedScalesPerEvidenceItem(t *testing.T) {
	raw := []byte(`{
	  "verdict": "mixed",
	  "confidence": 0.5,
	  "evidence": [
	    {"id":"a","source":"A","credibility":0.42,"content":"fraction scale"},
	    {"id":"b","source":"B","credibility":42,"content":"percent scale"}
	  ]
	}`)

	out := Normalize(raw)

	if out.Evidence[0].CredibilityPercent != 42 || out.Evidence[1].CredibilityPercent != 42 {
		t.Fatalf("expected both items at 42%%, got %d and %d",
			out.Evidence[0].CredibilityPercent, out.Evidence[1].CredibilityPercent)
	}
}

func TestNormalizeTreatsExactlyOneAsFullConfidence(t *testing.T) {
	out := Normalize([]byte(`{"verdict":"true","confidence":1}`))
	if out.ConfidencePercent != 100 {
		t.Fatalf("confidence 1 must mean 100%%, got %d", out.ConfidencePercent)
	}
}

func TestNormalizeClampsOutOfRangeConfidence(t *testing.T) {
	if out := Normalize([]byte(`{"verdict":"true","confidence":140}`)); out.ConfidencePercent != 100 {
		t.Fatalf("expected clamp to 100, got %d", out.ConfidencePercent)
	}
	if out := Normalize([]byte(`{"verdict":"true","confidence":-0.3}`)); out.ConfidencePercent != 0 {
		t.Fatalf("expected clamp to 0, got %d", out.ConfidencePercent)
	}
}

func TestNormalizeUnrecognizedVerdictBecomesMixed(t *testing.T) {
	out := Normalize([]byte(`{"verdict":"probably","confidence":0.5}`))
	if out.Category != CategoryMixed {
		t.Fatalf("expected mixed for unrecognized verdict, got %s", out.Category)
	}
}

func TestNormalizeMissingEvidenceIsEmptyNotNilError(t *testing.T) {
	out := Normalize([]byte(`{"verdict":"true","confidence":0.9}`))
	if out.Evidence == nil || len(out.Evidence) != 0 {
		t.Fatalf("expected empty evidence slice, got %#v", out.Evidence)
	}
}

func TestNormalizeTriStateStanceKeptVerbatim(t *testing.T) {
	raw := []byte(`{
	  "verdict": "mixed",
	  "evidence": [
	    {"id":"a","source":"A","content":"x","supportVerdict":"neutral"},
	    {"id":"b","source":"B","content":"y","stance":"contradictory"},
	    {"id":"c","source":"C","content":"z"}
	  ]
	}`)

	out := Normalize(raw)

	if out.Evidence[0].Stance != StanceNeutral {
		t.Fatalf("expected neutral, got %s", out.Evidence[0].Stance)
	}
	if out.Evidence[1].Stance != StanceContradictory {
		t.Fatalf("expected contradictory, got %s", out.Evidence[1].Stance)
	}
	if out.Evidence[2].Stance != StanceNeutral {
		t.Fatalf("expected default neutral, got %s", out.Evidence[2].Stance)
	}
}

func TestNormalizePreservesEvidenceOrder(t *testing.T) {
	raw := []byte(`{
	  "verdict": "true",
	  "evidence": [
	    {"id":"first","source":"A","content":"x"},
	    {"id":"second","source":"B","content":"y"},
	    {"id":"third","source":"C","content":"z"}
	  ]
	}`)

	out := Normalize(raw)

	if out.Evidence[0].ID != "first" || out.Evidence[1].ID != "second" || out.Evidence[2].ID != "third" {
		t.Fatalf("evidence reordered: %+v", out.Evidence)
	}
}

func TestNormalizeAssignsIDsToAnonymousEvidence(t *testing.T) {
	out := Normalize([]byte(`{"verdict":"true","evidence":[{"source":"A","content":"x"},{"source":"B","content":"y"}]}`))

	if out.Evidence[0].ID == "" || out.Evidence[1].ID == "" {
		t.Fatal("expected generated ids for anonymous evidence")
	}
	if out.Evidence[0].ID == out.Evidence[1].ID {
		t.Fatal("generated evidence ids must be unique")
	}
}

func TestNormalizeUnrecognizedPayloadDegradesQuietly(t *testing.T) {
	out := Normalize([]byte(`{"status":"???","payload":[1,2,3]}`))

	if out.Category != CategoryMixed {
		t.Fatalf("expected mixed, got %s", out.Category)
	}
	if out.ConfidencePercent != 0 {
		t.Fatalf("expected 0%%, got %d", out.ConfidencePercent)
	}
	if len(out.Evidence) != 0 {
		t.Fatalf("expected no evidence, got %d items", len(out.Evidence))
	}
	if out.Summary == "" {
		t.Fatal("expected a summary noting the unrecognized payload")
	}
}

func TestNormalizeIsIdempotentOnCanonicalPayload(t *testing.T) {
	first := Normalize([]byte(`{
	  "verdict": "mixed",
	  "confidence": 45,
	  "summary": "partially supported",
	  "evidence": [{"id":"e1","source":"A","credibility":62,"content":"x","stance":"neutral"}]
	}`))

	encoded, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal canonical verdict: %v", err)
	}

	second := Normalize(encoded)

	if second.Category != first.Category {
		t.Fatalf("category changed: %s vs %s", first.Category, second.Category)
	}
	if second.ConfidencePercent != first.ConfidencePercent {
		t.Fatalf("confidence changed: %d vs %d", first.ConfidencePercent, second.ConfidencePercent)
	}
	if second.Evidence[0].CredibilityPercent != first.Evidence[0].CredibilityPercent {
		t.Fatalf("credibility changed: %d vs %d",
			first.Evidence[0].CredibilityPercent, second.Evidence[0].CredibilityPercent)
	}
}

func TestScalePercentFractionRange(t *testing.T) {
	cases := map[float64]int{
		0:     0,
		0.005: 1,
		0.42:  42,
		0.68:  68,
		0.94:  94,
		1.0:   100,
		45:    45,
		99.6:  100,
		100:   100,
	}
	for input, want := range cases {
		if got := ScalePercent(input); got != want {
			t.Fatalf("ScalePercent(%v) = %d, want %d", input, got, want)
		}
	}
}
