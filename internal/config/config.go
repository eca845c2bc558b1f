package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort              = "8080"
	defaultSessionCookieName = "newsproof_session"
	defaultSessionTTLHours   = 168
	defaultFrontendOrigin    = "https://newsproof.app"
	defaultDatabaseURL       = "file:newsproof.db"
	defaultEngineTimeoutSecs = 120
	defaultCacheTTLMinutes   = 30
	defaultHistoryLimit      = 50
)

type Config struct {
	Port                 string
	Environment          string
	FrontendOrigin       string
	AllowedOrigins       []string
	AuthRequired         bool
	CookieSecure         bool
	SessionCookieName    string
	SessionTTL           time.Duration
	AllowedGoogleEmails  map[string]struct{}
	GoogleClientID       string
	InsecureSkipGoogle   bool
	DatabaseURL          string
	DatabaseAuthToken    string
	EngineBaseURL        string
	EngineTimeoutSeconds int
	RedisURL             string
	CacheTTL             time.Duration
	HistoryLimit         int
}

func (c Config) ListenAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// EngineConfigured reports whether a live verification engine is reachable.
// When false the service serves the bundled demo dataset instead.
func (c Config) EngineConfigured() bool {
	return strings.TrimSpace(c.EngineBaseURL) != ""
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:                 envOrDefault("PORT", defaultPort),
		Environment:          envOrDefault("APP_ENV", "development"),
		FrontendOrigin:       envOrDefault("FRONTEND_ORIGIN", defaultFrontendOrigin),
		AuthRequired:         boolOrDefault("AUTH_REQUIRED", false),
		CookieSecure:         boolOrDefault("COOKIE_SECURE", false),
		SessionCookieName:    envOrDefault("SESSION_COOKIE_NAME", defaultSessionCookieName),
		GoogleClientID:       strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		InsecureSkipGoogle:   boolOrDefault("AUTH_INSECURE_SKIP_GOOGLE_VERIFY", false),
		DatabaseURL:          envOrDefault("DATABASE_URL", defaultDatabaseURL),
		DatabaseAuthToken:    strings.TrimSpace(os.Getenv("DATABASE_AUTH_TOKEN")),
		EngineBaseURL:        strings.TrimSpace(os.Getenv("VERIFY_ENGINE_URL")),
		EngineTimeoutSeconds: intOrDefault("VERIFY_ENGINE_TIMEOUT_SECONDS", defaultEngineTimeoutSecs),
		RedisURL:             strings.TrimSpace(os.Getenv("REDIS_URL")),
		HistoryLimit:         intOrDefault("CHECK_HISTORY_LIMIT", defaultHistoryLimit),
	}

	if cfg.Environment == "production" {
		cfg.CookieSecure = true
	}

	sessionTTLHours := intOrDefault("SESSION_TTL_HOURS", defaultSessionTTLHours)
	cfg.SessionTTL = time.Duration(sessionTTLHours) * time.Hour
	if cfg.SessionTTL <= 0 {
		return Config{}, errors.New("SESSION_TTL_HOURS must be > 0")
	}

	cacheTTLMinutes := intOrDefault("CACHE_TTL_MINUTES", defaultCacheTTLMinutes)
	if cacheTTLMinutes <= 0 {
		return Config{}, errors.New("CACHE_TTL_MINUTES must be > 0")
	}
	cfg.CacheTTL = time.Duration(cacheTTLMinutes) * time.Minute

	if cfg.EngineTimeoutSeconds <= 0 {
		return Config{}, errors.New("VERIFY_ENGINE_TIMEOUT_SECONDS must be > 0")
	}
	if cfg.HistoryLimit <= 0 {
		return Config{}, errors.New("CHECK_HISTORY_LIMIT must be > 0")
	}

	cfg.AllowedGoogleEmails = parseEmailSet(os.Getenv("ALLOWED_GOOGLE_EMAILS"))

	origins := parseList(envOrDefault("CORS_ALLOWED_ORIGINS", cfg.FrontendOrigin+",http://localhost:5173,http://localhost:4173"))
	if len(origins) == 0 {
		return Config{}, errors.New("CORS_ALLOWED_ORIGINS must include at least one origin")
	}
	cfg.AllowedOrigins = origins

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is required")
	}
	if strings.HasPrefix(cfg.DatabaseURL, "libsql://") && cfg.DatabaseAuthToken == "" {
		return Config{}, errors.New("DATABASE_AUTH_TOKEN is required for libsql:// URLs")
	}
	if cfg.AuthRequired && !cfg.InsecureSkipGoogle && cfg.GoogleClientID == "" {
		return Config{}, errors.New("GOOGLE_CLIENT_ID is required unless AUTH_INSECURE_SKIP_GOOGLE_VERIFY=true")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func boolOrDefault(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func intOrDefault(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseList(raw string) []string {
	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseEmailSet(raw string) map[string]struct{} {
	emails := parseList(raw)
	out := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		out[strings.ToLower(email)] = struct{}{}
	}
	return out
}
