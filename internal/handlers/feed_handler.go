package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"partsrecv/internal/services"
)

// FeedHandler manages imported purchase orders and the reconciliation view.
type FeedHandler struct {
	feeds     *services.FeedService
	reconcile *services.ReconcileService
	logger    *zap.Logger
}

func NewFeedHandler(feeds *services.FeedService, reconcile *services.ReconcileService, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{feeds: feeds, reconcile: reconcile, logger: logger}
}

// Upload imports a PWB+ export posted as multipart form data.
func (h *FeedHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	po, err := h.feeds.ImportReader(header.Filename, file)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFeed) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("feed import failed", zap.String("file", header.Filename), zap.Error(err))
		http.Error(w, "Failed to import feed", http.StatusInternalServerError)
		return
	}
	h.logger.Info("feed imported",
		zap.String("file", header.Filename),
		zap.String("pbsPO", po.PBSPO),
		zap.Int("lines", len(po.Lines)))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success":       true,
		"purchaseOrder": po,
	})
}

// List returns every imported order without line sets.
func (h *FeedHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.feeds.ListPurchaseOrders()
	if err != nil {
		h.logger.Error("failed to list purchase orders", zap.Error(err))
		http.Error(w, "Failed to list purchase orders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"purchaseOrders": orders,
	})
}

// Get returns one order with its lines.
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	po, err := h.feeds.GetPurchaseOrder(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Purchase order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load purchase order", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, po)
}

// Delete removes one order and its lines.
func (h *FeedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.feeds.DeletePurchaseOrder(id); err != nil {
		http.Error(w, "Failed to delete purchase order", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// Reconcile runs the scan-vs-expected comparison. Query params: po (order
// id, 0 or absent means all orders), scope (shipment number or "all").
func (h *FeedHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var poID uint
	if v := r.URL.Query().Get("po"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			http.Error(w, "Invalid po parameter", http.StatusBadRequest)
			return
		}
		poID = uint(n)
	}
	report, err := h.reconcile.Run(poID, r.URL.Query().Get("scope"))
	if err != nil {
		h.logger.Error("reconciliation failed", zap.Error(err))
		http.Error(w, "Reconciliation failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	n, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid id", http.StatusBadRequest)
		return 0, false
	}
	return uint(n), true
}
