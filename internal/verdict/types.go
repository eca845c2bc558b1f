package verdict

// Category is the closed set of verdicts the product can display.
type Category string

const (
	CategoryTrue  Category = "true"
	CategoryFalse Category = "false"
	CategoryMixed Category = "mixed"
)

// Stance is the relationship of one evidence item to the overall verdict.
type Stance string

const (
	StanceSupporting    Stance = "supporting"
	StanceContradictory Stance = "contradictory"
	StanceNeutral       Stance = "neutral"
)

type EvidenceItem struct {
	ID                 string `json:"id"`
	Source             string `json:"source"`
	Link               string `json:"link,omitempty"`
	CredibilityPercent int    `json:"credibilityPercent"`
	Content            string `json:"content"`
	Stance             Stance `json:"stance"`
}

type WordInfluence struct {
	Word   string  `json:"word"`
	Weight float64 `json:"weight"`
}

// Verdict is the canonical display model. Every field is safe to render:
// the category is always one of the closed set, the confidence is an integer
// percentage in [0,100], and evidence keeps the upstream order.
type Verdict struct {
	Category          Category        `json:"category"`
	ConfidencePercent int             `json:"confidencePercent"`
	Summary           string          `json:"summary"`
	Evidence          []EvidenceItem  `json:"evidence"`
	WordInfluences    []WordInfluence `json:"wordInfluences,omitempty"`
}
