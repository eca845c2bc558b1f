package verdict

import "unicode/utf8"

// Theme is the visual encoding of one verdict category. The class names
// mirror the product's Tailwind palette so the SPA can apply them directly.
type Theme struct {
	Label      string `json:"label"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	Background string `json:"background"`
	Border     string `json:"border"`
}

var themes = map[Category]Theme{
	CategoryTrue: {
		Label:      "Likely True",
		Icon:       "check-circle",
		Color:      "text-green-500",
		Background: "bg-green-500/10",
		Border:     "border-green-500/50",
	},
	CategoryFalse: {
		Label:      "Likely False",
		Icon:       "x-circle",
		Color:      "text-red-500",
		Background: "bg-red-500/10",
		Border:     "border-red-500/50",
	},
	CategoryMixed: {
		Label:      "Mixed Evidence",
		Icon:       "alert-circle",
		Color:      "text-yellow-500",
		Background: "bg-yellow-500/10",
		Border:     "border-yellow-500/50",
	},
}

// ThemeFor returns the shared icon/color/label mapping for a category.
// Unknown categories fall back to the mixed theme.
func ThemeFor(category Category) Theme {
	if theme, ok := themes[category]; ok {
		return theme
	}
	return themes[CategoryMixed]
}

// BarWidth is the filled width of the confidence bar. The rendered width must
// equal the confidence exactly and never leave [0,100], whatever the caller
// animates in between.
func BarWidth(confidencePercent int) int {
	if confidencePercent < 0 {
		return 0
	}
	if confidencePercent > 100 {
		return 100
	}
	return confidencePercent
}

const evidencePreviewRunes = 150

// Preview returns the truncated evidence text for the collapsed card state
// and whether there is more to expand. Expansion is caller-side state only;
// nothing is re-fetched.
func (e EvidenceItem) Preview() (string, bool) {
	if utf8.RuneCountInString(e.Content) <= evidencePreviewRunes {
		return e.Content, false
	}
	return string([]rune(e.Content)[:evidencePreviewRunes]) + "...", true
}
