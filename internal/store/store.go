package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsproof/backend/internal/verdict"
)

var ErrNotFound = errors.New("record not found")

// Check is one completed submission as kept in history. The canonical verdict
// is snapshotted whole; history rows are never merged with later submissions.
type Check struct {
	ID                     string          `json:"id"`
	InputType              string          `json:"inputType"`
	InputValue             string          `json:"inputValue"`
	Verdict                verdict.Verdict `json:"verdict"`
	Engine                 string          `json:"engine"`
	ExplanationUnavailable bool            `json:"explanationUnavailable"`
	CreatedAt              string          `json:"createdAt"`
}

type SourceScore struct {
	Domain             string `json:"domain"`
	CredibilityPercent int    `json:"credibilityPercent"`
	Category           string `json:"category"`
	FetchedAt          string `json:"fetchedAt"`
}

// Analytics aggregates the local history for the dashboard when no engine
// analytics endpoint is available.
type Analytics struct {
	TotalChecks       int            `json:"totalChecks"`
	CategoryCounts    map[string]int `json:"categoryCounts"`
	AverageConfidence int            `json:"averageConfidence"`
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

func (s Store) SaveCheck(ctx context.Context, check Check) error {
	evidence, err := json.Marshal(check.Verdict.Evidence)
	if err != nil {
		return fmt.Errorf("marshal evidence: %w", err)
	}

	var wordInfluences any
	if check.Verdict.WordInfluences != nil {
		encoded, err := json.Marshal(check.Verdict.WordInfluences)
		if err != nil {
			return fmt.Errorf("marshal word influences: %w", err)
		}
		wordInfluences = string(encoded)
	}

	query := `
INSERT INTO checks (id, input_type, input_value, category, confidence_percent, summary, engine, explanation_unavailable, evidence_json, word_influences_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	if _, err := s.db.ExecContext(ctx, query,
		check.ID,
		check.InputType,
		check.InputValue,
		string(check.Verdict.Category),
		check.Verdict.ConfidencePercent,
		check.Verdict.Summary,
		check.Engine,
		boolToInt(check.ExplanationUnavailable),
		string(evidence),
		wordInfluences,
	); err != nil {
		return fmt.Errorf("save check: %w", err)
	}
	return nil
}

func (s Store) ListChecks(ctx context.Context, limit int) ([]Check, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, input_type, input_value, category, confidence_percent, summary, engine, explanation_unavailable, evidence_json, word_influences_json, created_at
FROM checks
ORDER BY created_at DESC, id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	defer rows.Close()

	checks := make([]Check, 0, limit)
	for rows.Next() {
		check, err := scanCheck(rows)
		if err != nil {
			return nil, err
		}
		checks = append(checks, check)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checks: %w", err)
	}
	return checks, nil
}

func (s Store) GetCheck(ctx context.Context, id string) (Check, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, input_type, input_value, category, confidence_percent, summary, engine, explanation_unavailable, evidence_json, word_influences_json, created_at
FROM checks
WHERE id = ?
LIMIT 1;
`, strings.TrimSpace(id))

	check, err := scanCheck(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Check{}, ErrNotFound
	}
	if err != nil {
		return Check{}, err
	}
	return check, nil
}

func (s Store) Summary(ctx context.Context) (Analytics, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT category, COUNT(*), COALESCE(AVG(confidence_percent), 0)
FROM checks
GROUP BY category;
`)
	if err != nil {
		return Analytics{}, fmt.Errorf("summarize checks: %w", err)
	}
	defer rows.Close()

	out := Analytics{CategoryCounts: make(map[string]int, 3)}
	weightedConfidence := 0.0
	for rows.Next() {
		var category string
		var count int
		var avgConfidence float64
		if err := rows.Scan(&category, &count, &avgConfidence); err != nil {
			return Analytics{}, fmt.Errorf("scan summary row: %w", err)
		}
		out.CategoryCounts[category] = count
		out.TotalChecks += count
		weightedConfidence += avgConfidence * float64(count)
	}
	if err := rows.Err(); err != nil {
		return Analytics{}, fmt.Errorf("summarize checks: %w", err)
	}

	if out.TotalChecks > 0 {
		out.AverageConfidence = int(weightedConfidence/float64(out.TotalChecks) + 0.5)
	}
	return out, nil
}

func (s Store) UpsertSourceScore(ctx context.Context, score SourceScore) error {
	query := `
INSERT INTO source_scores (domain, credibility_percent, category, fetched_at)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(domain) DO UPDATE SET
  credibility_percent = excluded.credibility_percent,
  category = excluded.category,
  fetched_at = CURRENT_TIMESTAMP;
`
	if _, err := s.db.ExecContext(ctx, query,
		strings.ToLower(strings.TrimSpace(score.Domain)),
		score.CredibilityPercent,
		score.Category,
	); err != nil {
		return fmt.Errorf("upsert source score: %w", err)
	}
	return nil
}

// GetSourceScore returns a cached source reputation no older than maxAge.
func (s Store) GetSourceScore(ctx context.Context, domain string, maxAge time.Duration) (SourceScore, error) {
	cutoff := time.Now().UTC().Add(-maxAge).Format("2006-01-02 15:04:05")

	var out SourceScore
	err := s.db.QueryRowContext(ctx, `
SELECT domain, credibility_percent, category, fetched_at
FROM source_scores
WHERE domain = ? AND fetched_at > ?
LIMIT 1;
`, strings.ToLower(strings.TrimSpace(domain)), cutoff).Scan(
		&out.Domain,
		&out.CredibilityPercent,
		&out.Category,
		&out.FetchedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return SourceScore{}, ErrNotFound
	}
	if err != nil {
		return SourceScore{}, fmt.Errorf("get source score: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheck(row rowScanner) (Check, error) {
	var check Check
	var explanationUnavailable int
	var evidenceJSON string
	var wordInfluencesJSON sql.NullString

	if err := row.Scan(
		&check.ID,
		&check.InputType,
		&check.InputValue,
		(*string)(&check.Verdict.Category),
		&check.Verdict.ConfidencePercent,
		&check.Verdict.Summary,
		&check.Engine,
		&explanationUnavailable,
		&evidenceJSON,
		&wordInfluencesJSON,
		&check.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Check{}, err
		}
		return Check{}, fmt.Errorf("scan check: %w", err)
	}

	check.ExplanationUnavailable = explanationUnavailable != 0
	if err := json.Unmarshal([]byte(evidenceJSON), &check.Verdict.Evidence); err != nil {
		return Check{}, fmt.Errorf("decode evidence: %w", err)
	}
	if wordInfluencesJSON.Valid {
		if err := json.Unmarshal([]byte(wordInfluencesJSON.String), &check.Verdict.WordInfluences); err != nil {
			return Check{}, fmt.Errorf("decode word influences: %w", err)
		}
	}
	return check, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
