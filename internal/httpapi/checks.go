package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"newsproof/backend/internal/check"
	"newsproof/backend/internal/engine"
	"newsproof/backend/internal/store"
)

type checkRequest struct {
	InputType  string `json:"inputType"`
	InputValue string `json:"inputValue"`
}

func (h Handler) SubmitCheck(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	inputType, err := check.ParseInputType(req.InputType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.checker.Submit(r.Context(), inputType, req.InputValue)
	if err != nil {
		writeCheckError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h Handler) ListChecks(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg.HistoryLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	checks, err := h.history.ListChecks(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "failed to read check history")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"checks": checks})
}

func (h Handler) GetCheck(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "check id is required")
		return
	}

	saved, err := h.history.GetCheck(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no check with that id")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error", "failed to read check")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// writeCheckError maps submission failures onto the API error surface.
// Engine-reported messages pass through verbatim; transport failures get a
// generic 502 so internals do not leak.
func writeCheckError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, check.ErrEmptyInput),
		errors.Is(err, check.ErrInvalidURL),
		errors.Is(err, check.ErrInvalidInputType):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, check.ErrBusy):
		writeError(w, http.StatusConflict, "check_in_flight", "a verification is already running")
	case errors.Is(err, engine.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "engine_unavailable", "verification engine is not configured")
	default:
		var backendErr engine.BackendError
		if errors.As(err, &backendErr) {
			writeError(w, http.StatusBadGateway, "engine_error", backendErr.Message)
			return
		}
		var apiErr engine.APIError
		if errors.As(err, &apiErr) {
			writeError(w, http.StatusBadGateway, "engine_error", "verification engine request failed")
			return
		}
		writeError(w, http.StatusBadGateway, "engine_unreachable", "could not reach the verification engine")
	}
}
