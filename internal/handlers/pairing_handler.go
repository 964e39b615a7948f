package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"partsrecv/internal/services"
)

// PairingHandler issues session tokens to scanners joining the station.
type PairingHandler struct {
	pairing *services.PairingService
	logger  *zap.Logger
}

func NewPairingHandler(pairing *services.PairingService, logger *zap.Logger) *PairingHandler {
	return &PairingHandler{pairing: pairing, logger: logger}
}

// CreateSession exchanges the pairing code for a token.
func (h *PairingHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code   string `json:"code"`
		Device string `json:"device"`
		Role   string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	token, err := h.pairing.Pair(req.Code, req.Device, req.Role)
	if err != nil {
		if errors.Is(err, services.ErrBadPairingCode) {
			h.logger.Warn("pairing rejected", zap.String("device", req.Device))
			http.Error(w, "Invalid pairing code", http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	h.logger.Info("device paired", zap.String("device", req.Device), zap.String("role", req.Role))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}
