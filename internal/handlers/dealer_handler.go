package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"partsrecv/internal/models"
)

// DealerHandler serves the known-dealer directory used to identify
// wrong-dealer scans.
type DealerHandler struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDealerHandler(db *gorm.DB, logger *zap.Logger) *DealerHandler {
	return &DealerHandler{db: db, logger: logger}
}

// List returns every known dealer.
func (h *DealerHandler) List(w http.ResponseWriter, r *http.Request) {
	var dealers []models.Dealer
	if err := h.db.Order("code asc").Find(&dealers).Error; err != nil {
		h.logger.Error("failed to list dealers", zap.Error(err))
		http.Error(w, "Failed to list dealers", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"dealers": dealers})
}

// Upsert creates or updates one dealer by code.
func (h *DealerHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code    string `json:"code"`
		Name    string `json:"name"`
		Contact string `json:"contact"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Code) != 6 {
		http.Error(w, "Dealer code must be 6 characters", http.StatusBadRequest)
		return
	}

	var dealer models.Dealer
	err := h.db.Where("code = ?", req.Code).First(&dealer).Error
	switch {
	case err == nil:
		dealer.Name = req.Name
		dealer.Contact = req.Contact
		dealer.Email = req.Email
		err = h.db.Save(&dealer).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		dealer = models.Dealer{Code: req.Code, Name: req.Name, Contact: req.Contact, Email: req.Email}
		err = h.db.Create(&dealer).Error
	}
	if err != nil {
		h.logger.Error("failed to save dealer", zap.String("code", req.Code), zap.Error(err))
		http.Error(w, "Failed to save dealer", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "dealer": dealer})
}

// Delete removes a dealer by code.
func (h *DealerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	result := h.db.Where("code = ?", code).Delete(&models.Dealer{})
	if result.Error != nil {
		http.Error(w, "Failed to delete dealer", http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		http.Error(w, "Dealer not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
