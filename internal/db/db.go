package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"newsproof/backend/internal/config"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

func Open(cfg config.Config) (*sql.DB, error) {
	dsn, err := buildDSN(cfg.DatabaseURL, cfg.DatabaseAuthToken)
	if err != nil {
		return nil, err
	}

	database, err := sql.Open("libsql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open libsql db: %w", err)
	}

	if err := database.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := Migrate(database); err != nil {
		return nil, err
	}

	return database, nil
}

// Migrate applies the schema. Statements are idempotent so startup can run
// them unconditionally.
func Migrate(database *sql.DB) error {
	for _, statement := range schemaStatements {
		if _, err := database.Exec(statement); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  google_sub TEXT NOT NULL UNIQUE,
  email TEXT NOT NULL,
  display_name TEXT,
  avatar_url TEXT,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	`CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id),
  token_hash TEXT NOT NULL UNIQUE,
  expires_at TEXT NOT NULL,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	`CREATE TABLE IF NOT EXISTS checks (
  id TEXT PRIMARY KEY,
  input_type TEXT NOT NULL,
  input_value TEXT NOT NULL,
  category TEXT NOT NULL,
  confidence_percent INTEGER NOT NULL,
  summary TEXT NOT NULL DEFAULT '',
  engine TEXT NOT NULL DEFAULT 'live',
  explanation_unavailable INTEGER NOT NULL DEFAULT 0,
  evidence_json TEXT NOT NULL DEFAULT '[]',
  word_influences_json TEXT,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
	`CREATE INDEX IF NOT EXISTS idx_checks_created_at ON checks(created_at DESC);`,
	`CREATE TABLE IF NOT EXISTS source_scores (
  domain TEXT PRIMARY KEY,
  credibility_percent INTEGER NOT NULL,
  category TEXT NOT NULL DEFAULT 'unknown',
  fetched_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);`,
}

func buildDSN(rawURL, authToken string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("empty database url")
	}

	if strings.HasPrefix(rawURL, "file:") {
		return rawURL, nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}

	if strings.HasPrefix(rawURL, "libsql://") {
		query := parsed.Query()
		if query.Get("authToken") == "" && strings.TrimSpace(authToken) != "" {
			query.Set("authToken", strings.TrimSpace(authToken))
			parsed.RawQuery = query.Encode()
		}
	}

	return parsed.String(), nil
}
