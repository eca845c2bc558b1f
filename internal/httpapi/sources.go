package httpapi

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"newsproof/backend/internal/engine"
	"newsproof/backend/internal/store"
)

// SourceCredibility reports the reputation of a news domain. Scores are
// cached in the local database; a domain the engine has never seen comes
// back as a neutral 50% rather than an error.
func (h Handler) SourceCredibility(w http.ResponseWriter, r *http.Request) {
	domain := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "domain")))
	if domain == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "domain is required")
		return
	}

	cached, err := h.history.GetSourceScore(r.Context(), domain, h.cfg.CacheTTL)
	if err == nil {
		writeJSON(w, http.StatusOK, engine.SourceScore{
			Domain:             cached.Domain,
			CredibilityPercent: cached.CredibilityPercent,
			Category:           cached.Category,
			LastUpdated:        cached.FetchedAt,
			Known:              true,
		})
		return
	}
	if !errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusInternalServerError, "db_error", "failed to read source score")
		return
	}

	if !h.engine.Configured() {
		writeJSON(w, http.StatusOK, engine.SourceScore{
			Domain:             domain,
			CredibilityPercent: 50,
			Category:           "unknown",
			Known:              false,
		})
		return
	}

	score, err := h.engine.SourceCredibility(r.Context(), domain)
	if err != nil {
		writeCheckError(w, err)
		return
	}

	// Only real scores are cached; the neutral default stays a live lookup
	// so a newly rated source shows up without waiting out the TTL.
	if score.Known {
		if err := h.history.UpsertSourceScore(r.Context(), store.SourceScore{
			Domain:             score.Domain,
			CredibilityPercent: score.CredibilityPercent,
			Category:           score.Category,
		}); err != nil {
			log.Printf("cache source score %s: %v", score.Domain, err)
		}
	}

	writeJSON(w, http.StatusOK, score)
}
