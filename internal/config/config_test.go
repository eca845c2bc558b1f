package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	unsetIfSet(t, "SESSION_TTL_HOURS")
	unsetIfSet(t, "CACHE_TTL_MINUTES")
	unsetIfSet(t, "CORS_ALLOWED_ORIGINS")
	unsetIfSet(t, "VERIFY_ENGINE_URL")
	unsetIfSet(t, "DATABASE_URL")
	unsetIfSet(t, "AUTH_REQUIRED")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.Port != "8080" {
		t.Fatalf("unexpected default port: %s", cfg.Port)
	}
	if cfg.DatabaseURL != "file:newsproof.db" {
		t.Fatalf("unexpected default database url: %s", cfg.DatabaseURL)
	}
	if cfg.SessionTTL.Hours() != 168 {
		t.Fatalf("expected default 168h session ttl, got %v", cfg.SessionTTL)
	}
	if cfg.CacheTTL.Minutes() != 30 {
		t.Fatalf("expected default 30m cache ttl, got %v", cfg.CacheTTL)
	}
	if cfg.AuthRequired {
		t.Fatal("expected auth to be optional by default")
	}
	if cfg.EngineConfigured() {
		t.Fatal("expected no engine configured by default")
	}
	if cfg.HistoryLimit != 50 {
		t.Fatalf("unexpected default history limit: %d", cfg.HistoryLimit)
	}
}

func TestLoadRequiresAuthTokenForLibsqlURLs(t *testing.T) {
	t.Setenv("DATABASE_URL", "libsql://newsproof.example.turso.io")
	t.Setenv("DATABASE_AUTH_TOKEN", "")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when DATABASE_AUTH_TOKEN is missing for libsql url")
	}
}

func TestLoadRequiresGoogleClientIDWhenAuthEnabled(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:local.db")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("AUTH_INSECURE_SKIP_GOOGLE_VERIFY", "false")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when GOOGLE_CLIENT_ID is missing")
	}
}

func TestLoadAllowsMissingGoogleClientIDInInsecureMode(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:local.db")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("AUTH_INSECURE_SKIP_GOOGLE_VERIFY", "true")

	if _, err := Load(); err != nil {
		t.Fatalf("expected insecure mode to load without GOOGLE_CLIENT_ID: %v", err)
	}
}

func TestLoadRejectsNonPositiveEngineTimeout(t *testing.T) {
	t.Setenv("DATABASE_URL", "file:local.db")
	t.Setenv("VERIFY_ENGINE_TIMEOUT_SECONDS", "-5")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for non-positive engine timeout")
	}
}

func unsetIfSet(t *testing.T, key string) {
	t.Helper()
	if _, ok := os.LookupEnv(key); ok {
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("unset env %s: %v", key, err)
		}
	}
}
