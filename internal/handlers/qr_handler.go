package handlers

import (
	"net/http"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// QRHandler renders the scanner URL as a QR code so the handheld can be
// pointed at the station without typing an address.
type QRHandler struct {
	logger *zap.Logger
}

func NewQRHandler(logger *zap.Logger) *QRHandler {
	return &QRHandler{logger: logger}
}

// PairingQR returns a PNG QR code of the url query parameter, defaulting to
// this station's own address.
func (h *QRHandler) PairingQR(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")
	if target == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		target = scheme + "://" + r.Host + "/"
	}
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		h.logger.Error("failed to render QR code", zap.Error(err))
		http.Error(w, "Failed to render QR code", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
