// checkctl submits an article to a running newsproof api and renders the
// verdict card in the terminal.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"newsproof/backend/internal/check"
	"newsproof/backend/internal/verdict"
)

const barWidth = 40

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)

	categoryColors = map[verdict.Category]lipgloss.Color{
		verdict.CategoryTrue:  lipgloss.Color("10"),
		verdict.CategoryFalse: lipgloss.Color("9"),
		verdict.CategoryMixed: lipgloss.Color("11"),
	}

	stanceMarkers = map[verdict.Stance]string{
		verdict.StanceSupporting:    "+",
		verdict.StanceContradictory: "-",
		verdict.StanceNeutral:       "~",
	}

	greenRamp = []string{"#14532d", "#166534", "#15803d", "#16a34a", "#22c55e", "#4ade80", "#86efac", "#bbf7d0", "#dcfce7"}
	redRamp   = []string{"#7f1d1d", "#991b1b", "#b91c1c", "#dc2626", "#ef4444", "#f87171", "#fca5a5", "#fecaca", "#fee2e2"}
)

func main() {
	api := flag.String("api", "http://localhost:8080", "base URL of the newsproof api")
	text := flag.String("text", "", "article text to verify")
	articleURL := flag.String("url", "", "article URL to verify")
	file := flag.String("file", "", "article file to upload (.txt, .md or .pdf)")
	feed := flag.Bool("feed", false, "show the pre-verified daily news feed")
	timeout := flag.Int("timeout", 150, "request timeout in seconds")
	flag.Parse()

	client := &http.Client{Timeout: time.Duration(*timeout) * time.Second}
	base := strings.TrimRight(*api, "/")

	var err error
	switch {
	case *feed:
		err = showFeed(client, base)
	case *file != "":
		err = uploadFile(client, base, *file)
	case *articleURL != "":
		err = submit(client, base, "url", *articleURL)
	case *text != "":
		err = submit(client, base, "text", *text)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "checkctl:", err)
		os.Exit(1)
	}
}

func submit(client *http.Client, base, inputType, inputValue string) error {
	payload, err := json.Marshal(map[string]string{
		"inputType":  inputType,
		"inputValue": inputValue,
	})
	if err != nil {
		return err
	}

	resp, err := client.Post(base+"/v1/checks", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	result, err := decodeResult(resp)
	if err != nil {
		return err
	}
	fmt.Println(renderResult(result))
	return nil
}

func uploadFile(client *http.Client, base, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	resp, err := client.Post(base+"/v1/checks/upload", form.FormDataContentType(), &buf)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	result, err := decodeResult(resp)
	if err != nil {
		return err
	}
	fmt.Println(renderResult(result))
	return nil
}

func decodeResult(resp *http.Response) (check.Result, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return check.Result{}, err
	}

	if resp.StatusCode != http.StatusOK {
		var failure struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &failure); err == nil && failure.Error.Message != "" {
			return check.Result{}, fmt.Errorf("%s", failure.Error.Message)
		}
		return check.Result{}, fmt.Errorf("api returned %d", resp.StatusCode)
	}

	var result check.Result
	if err := json.Unmarshal(body, &result); err != nil {
		return check.Result{}, fmt.Errorf("decode result: %w", err)
	}
	return result, nil
}

func renderResult(result check.Result) string {
	color := categoryColors[result.Verdict.Category]
	header := lipgloss.NewStyle().Bold(true).Foreground(color)

	var b strings.Builder
	b.WriteString(header.Render(result.Theme.Label))
	b.WriteString(dimStyle.Render("  via " + result.Engine + " engine"))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Confidence "))
	b.WriteString(confidenceBar(result.Verdict.ConfidencePercent, color))
	b.WriteString(fmt.Sprintf(" %d%%\n", result.Verdict.ConfidencePercent))

	if result.Verdict.Summary != "" {
		b.WriteString("\n" + result.Verdict.Summary + "\n")
	}

	if len(result.Verdict.Evidence) > 0 {
		b.WriteString("\n" + titleStyle.Render("Evidence") + "\n")
		for _, item := range result.Verdict.Evidence {
			preview, truncated := item.Preview()
			if truncated {
				preview += " (truncated)"
			}
			b.WriteString(fmt.Sprintf(" %s %s (%d%%): %s\n",
				stanceMarkers[item.Stance], item.Source, item.CredibilityPercent, preview))
		}
	}

	if result.ExplanationUnavailable {
		b.WriteString("\n" + dimStyle.Render("Word-level explanation unavailable for this check.") + "\n")
	} else if result.InputType == check.InputText && len(result.Verdict.WordInfluences) > 0 {
		b.WriteString("\n" + titleStyle.Render("Influential wording") + "\n")
		b.WriteString(renderHighlights(result.InputValue, result.Verdict.WordInfluences))
		b.WriteString("\n")
	}

	return cardStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func confidenceBar(percent int, color lipgloss.Color) string {
	filled := verdict.BarWidth(percent) * barWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

func renderHighlights(text string, influences []verdict.WordInfluence) string {
	var b strings.Builder
	for _, span := range verdict.HighlightText(text, influences) {
		if span.Class == "" {
			b.WriteString(span.Text)
			continue
		}
		b.WriteString(spanStyle(span.Class).Render(span.Text))
	}
	return b.String()
}

// spanStyle maps a highlight class like bg-red-500/90 onto a background
// shade, darker meaning stronger influence.
func spanStyle(class string) lipgloss.Style {
	ramp := greenRamp
	if strings.HasPrefix(class, "bg-red") {
		ramp = redRamp
	}

	intensity := 10
	if idx := strings.LastIndex(class, "/"); idx >= 0 {
		if parsed, err := strconv.Atoi(class[idx+1:]); err == nil {
			intensity = parsed
		}
	}
	bucket := intensity/10 - 1
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= len(ramp) {
		bucket = len(ramp) - 1
	}

	// Ramp runs light to dark from the low buckets up.
	shade := ramp[len(ramp)-1-bucket]
	return lipgloss.NewStyle().Background(lipgloss.Color(shade)).Foreground(lipgloss.Color("15"))
}

type feedItem struct {
	Title             string           `json:"title"`
	Source            string           `json:"source"`
	Category          verdict.Category `json:"category"`
	ConfidencePercent int              `json:"confidencePercent"`
	Summary           string           `json:"summary"`
	PublishedAt       string           `json:"publishedAt"`
	Theme             verdict.Theme    `json:"theme"`
}

func showFeed(client *http.Client, base string) error {
	resp, err := client.Get(base + "/v1/feed")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api returned %d", resp.StatusCode)
	}

	var body struct {
		Items []feedItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode feed: %w", err)
	}

	for _, item := range body.Items {
		header := lipgloss.NewStyle().Bold(true).Foreground(categoryColors[item.Category])
		fmt.Printf("%s %s\n", header.Render(fmt.Sprintf("[%s %d%%]", item.Theme.Label, item.ConfidencePercent)), item.Title)
		meta := item.Source
		if item.PublishedAt != "" {
			meta += " · " + item.PublishedAt
		}
		fmt.Println(dimStyle.Render("  " + meta))
		if item.Summary != "" {
			fmt.Println("  " + item.Summary)
		}
		fmt.Println()
	}
	return nil
}
