package httpapi

import (
	"log"
	"net/http"
)

// Analytics serves the verification dashboard numbers. The engine's own
// summary endpoint wins when a live engine is configured; otherwise the
// local check history is aggregated in its place.
func (h Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	if h.engine.Configured() {
		raw, err := h.engine.AnalyticsSummary(r.Context())
		if err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(raw)
			return
		}
		log.Printf("engine analytics unavailable, using local history: %v", err)
	}

	summary, err := h.history.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "failed to summarize checks")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
