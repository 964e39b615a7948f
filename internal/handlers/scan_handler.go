package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"partsrecv/internal/ledger"
	"partsrecv/internal/services"
)

// ScanHandler serves the shared scan store. The protocol is replace-all: a
// scanner posts its full entry set, the workstation polls the version and
// fetches when it moves.
type ScanHandler struct {
	store  *services.ScanStore
	logger *zap.Logger
}

func NewScanHandler(store *services.ScanStore, logger *zap.Logger) *ScanHandler {
	return &ScanHandler{store: store, logger: logger}
}

// GetScans returns the full stored entry set and its version.
func (h *ScanHandler) GetScans(w http.ResponseWriter, r *http.Request) {
	entries, version, err := h.store.FetchScans()
	if err != nil {
		h.logger.Error("failed to load scans", zap.Error(err))
		http.Error(w, "Failed to load scans", http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []*ledger.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scans":   entries,
		"version": version,
	})
}

// ReplaceScans swaps the stored set for the posted one.
func (h *ScanHandler) ReplaceScans(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scans []*ledger.Entry `json:"scans"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "Invalid JSON"})
		return
	}
	if req.Scans == nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"error": "scans array is required"})
		return
	}
	version, err := h.store.ReplaceScans(req.Scans)
	if err != nil {
		h.logger.Error("failed to replace scans", zap.Error(err))
		http.Error(w, "Failed to store scans", http.StatusInternalServerError)
		return
	}
	h.logger.Info("sync", zap.Int("scans", len(req.Scans)), zap.Uint64("version", version))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"version": version,
	})
}

// ClearScans removes every stored entry.
func (h *ScanHandler) ClearScans(w http.ResponseWriter, r *http.Request) {
	version, err := h.store.ClearScans()
	if err != nil {
		h.logger.Error("failed to clear scans", zap.Error(err))
		http.Error(w, "Failed to clear scans", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"version": version,
	})
}

// GetVersion returns the version counter and entry count, cheap enough for
// a poll loop.
func (h *ScanHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	version, err := h.store.Version()
	if err != nil {
		http.Error(w, "Failed to load version", http.StatusInternalServerError)
		return
	}
	count, err := h.store.Count()
	if err != nil {
		http.Error(w, "Failed to load version", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version": version,
		"count":   count,
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
