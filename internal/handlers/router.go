// Package handlers exposes the station's HTTP API: the replace-all scan
// sync protocol, purchase-order import, reconciliation, pairing and the
// supporting lookups.
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"partsrecv/internal/config"
	"partsrecv/internal/report"
	"partsrecv/internal/services"
)

// NewRouter wires every endpoint with CORS and, when pairing is enabled,
// token auth.
func NewRouter(cfg *config.Config, db *gorm.DB, logger *zap.Logger) http.Handler {
	store := services.NewScanStore(db)
	feeds := services.NewFeedService(db)
	recon := services.NewReconcileService(db)
	pairing := services.NewPairingService(cfg)

	scanHandler := NewScanHandler(store, logger)
	feedHandler := NewFeedHandler(feeds, recon, logger)
	pairingHandler := NewPairingHandler(pairing, logger)
	dealerHandler := NewDealerHandler(db, logger)
	qrHandler := NewQRHandler(logger)

	r := mux.NewRouter()

	// Scan sync (replace-all protocol)
	r.HandleFunc("/api/scans", scanHandler.GetScans).Methods("GET")
	r.HandleFunc("/api/scans", scanHandler.ReplaceScans).Methods("POST")
	r.HandleFunc("/api/scans", scanHandler.ClearScans).Methods("DELETE")
	r.HandleFunc("/api/version", scanHandler.GetVersion).Methods("GET")

	// Purchase orders and reconciliation
	r.HandleFunc("/api/purchase-orders", feedHandler.Upload).Methods("POST")
	r.HandleFunc("/api/purchase-orders", feedHandler.List).Methods("GET")
	r.HandleFunc("/api/purchase-orders/{id}", feedHandler.Get).Methods("GET")
	r.HandleFunc("/api/purchase-orders/{id}", feedHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/reconciliation", feedHandler.Reconcile).Methods("GET")

	// Pairing and lookups
	r.HandleFunc("/api/sessions", pairingHandler.CreateSession).Methods("POST")
	r.HandleFunc("/api/dealers", dealerHandler.List).Methods("GET")
	r.HandleFunc("/api/dealers", dealerHandler.Upsert).Methods("POST")
	r.HandleFunc("/api/dealers/{code}", dealerHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/qr", qrHandler.PairingQR).Methods("GET")

	r.HandleFunc("/api/dipp-presets", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"presets": report.DamagePresets})
	}).Methods("GET")

	r.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	}).Methods("GET")

	return CORSMiddleware(AuthMiddleware(pairing, r))
}
