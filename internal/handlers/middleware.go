package handlers

import (
	"net/http"
	"strings"

	"partsrecv/internal/services"
)

// CORSMiddleware allows the scanner page served from another origin to hit
// the sync API.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware requires a valid session token on the sync endpoints when
// a pairing code is configured. Pairing itself, the QR code and the health
// check stay open so a fresh device can join.
func AuthMiddleware(pairing *services.PairingService, next http.Handler) http.Handler {
	open := map[string]bool{
		"/api/sessions": true,
		"/api/qr":       true,
		"/api/health":   true,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !pairing.Enabled() || open[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || token == r.Header.Get("Authorization") {
			http.Error(w, "Authorization required", http.StatusUnauthorized)
			return
		}
		if _, err := pairing.ValidateToken(token); err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
