package handlers

import (
	"encoding/json"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/al-ius/aus-address-matcher/internal/dispatch"
	"github.com/al-ius/aus-address-matcher/internal/gazetteer"
	"github.com/al-ius/aus-address-matcher/internal/match"
)

// MaxBatchSize bounds POST /api/match/batch.
const MaxBatchSize = 10000

// APIHandler serves the lookup endpoints.
type APIHandler struct {
	Open       gazetteer.Opener
	Dispatcher *dispatch.Dispatcher
	Log        *zap.Logger
}

// BatchRequest is the body of POST /api/match/batch.
type BatchRequest struct {
	Addresses []string `json:"addresses"`
}

// BatchResponse returns results ordered by input position.
type BatchResponse struct {
	Results []match.Result      `json:"results"`
	Stats   dispatch.BatchStats `json:"stats"`
	Error   string              `json:"error,omitempty"`
}

// Health opens and closes a store connection.
func (h *APIHandler) Health(w http.ResponseWriter, r *http.Request) {
	store, err := h.Open(r.Context())
	if err != nil {
		h.Log.Error("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
		return
	}
	store.Close()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Match resolves the address query parameter.
func (h *APIHandler) Match(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	results, _, err := h.Dispatcher.Run(r.Context(), []string{address})
	if err != nil || len(results) == 0 {
		h.Log.Error("lookup failed", zap.String("address", address), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, results[0])
}

// MatchBatch resolves every address in the request body.
func (h *APIHandler) MatchBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Addresses) == 0 {
		writeError(w, http.StatusBadRequest, "addresses is required")
		return
	}
	if len(req.Addresses) > MaxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, "too many addresses")
		return
	}

	results, stats, err := h.Dispatcher.Run(r.Context(), req.Addresses)
	if err != nil && len(results) == 0 {
		h.Log.Error("batch failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "lookup failed")
		return
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Seq < results[j].Seq })

	resp := BatchResponse{Results: results, Stats: stats}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
